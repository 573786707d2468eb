package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is an open-shaped commercial document (sales order, invoice, line
// item or product) as returned by the invoicing API. No fixed schema is
// assumed; every accessor tolerates missing keys and wrong nesting.
type Record map[string]any

// refCandidates is the identifier priority for documents: first non-empty wins.
var refCandidates = []string{"number", "docNumber", "code", "serial", "_id", "id"}

// dateCandidates lists the keys that may carry a document timestamp.
var dateCandidates = []string{"date", "createdAt", "issuedOn", "updatedAt"}

// Ref returns the document identifier used for display and deduplication.
func (r Record) Ref() string {
	for _, key := range refCandidates {
		if s := ToString(r[key]); s != "" {
			return s
		}
	}
	return "-"
}

// Contact returns the customer name, preferring the nested customer record.
func (r Record) Contact() string {
	if name := ToString(r.Sub("customer")["name"]); name != "" {
		return name
	}
	if name := ToString(r["contactName"]); name != "" {
		return name
	}
	return "-"
}

// Sub returns a nested record under key, or an empty Record.
func (r Record) Sub(key string) Record {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v)
	case Record:
		return v
	}
	return Record{}
}

// Lines returns the line items of a document. The invoicing API puts them
// under "products".
func (r Record) Lines() []Record {
	raw, ok := r["products"].([]any)
	if !ok {
		return nil
	}
	lines := make([]Record, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			lines = append(lines, Record(m))
		}
	}
	return lines
}

// Tags returns the lowercased tag list of a line item.
func (r Record) Tags() []string {
	raw, ok := r["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s := ToString(t); s != "" {
			tags = append(tags, strings.ToLower(s))
		}
	}
	return tags
}

// IsTransport reports whether a line item is a transport charge, detected by
// name or tag. Transport lines are excluded from material rows but summed
// into the document's transport amount.
func (r Record) IsTransport() bool {
	if strings.Contains(strings.ToLower(ToString(r["name"])), "transporte") {
		return true
	}
	for _, tag := range r.Tags() {
		if tag == "transporte" {
			return true
		}
	}
	return false
}

// TransportAmount sums price*units over the transport lines of a document.
// The second return is false when the document has no transport line.
func (r Record) TransportAmount() (float64, bool) {
	total := 0.0
	found := false
	for _, line := range r.Lines() {
		if !line.IsTransport() {
			continue
		}
		price, _ := ToFloat(line["price"])
		units, _ := ToFloat(line["units"])
		total += price * units
		found = true
	}
	return total, found
}

// DateLabel renders the document timestamp in loc. Epoch seconds, epoch
// milliseconds and preformatted strings are all accepted; anything else is
// returned verbatim.
func (r Record) DateLabel(loc *time.Location) string {
	for _, key := range dateCandidates {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		return formatEpoch(v, loc)
	}
	return "-"
}

// Date returns the document timestamp as epoch seconds, 0 when absent or
// non-numeric. Used for sorting batches newest-first.
func (r Record) Date() int64 {
	for _, key := range dateCandidates {
		if f, ok := ToFloat(r[key]); ok {
			return normalizeEpoch(int64(f))
		}
	}
	return 0
}

func formatEpoch(v any, loc *time.Location) string {
	s := ToString(v)
	if !isDigits(s) {
		if s == "" {
			return "-"
		}
		return s
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(normalizeEpoch(n), 0).In(loc).Format("2006-01-02 15:04:05")
}

// normalizeEpoch converts epoch milliseconds to seconds. Anything past the
// year 33658 in seconds is taken to be milliseconds.
func normalizeEpoch(n int64) int64 {
	if n >= 1e12 {
		return n / 1000
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ToString renders a record value as a string. Numbers are formatted without
// exponent so identifiers survive JSON's float64 decoding.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// ToFloat coerces a record value to float64. Strings tolerate locale
// formatting with comma decimal separators ("1.234,56"). A failed coercion
// returns (0, false) and never panics.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		return parseLocaleFloat(t)
	}
	return 0, false
}

// parseLocaleFloat parses a numeric string that may use a comma as the
// decimal separator and a dot as the thousands separator.
func parseLocaleFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		// The comma is the decimal separator; dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsEmptyValue reports whether a resolved value counts as absent: nil, an
// empty or whitespace string, or an empty slice.
func IsEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

package infer

import (
	"strings"

	"vendido/internal/domain"
)

// cancelFlagCandidates are the boolean flags that mark a document cancelled
// regardless of its status field.
var cancelFlagCandidates = []string{
	"canceled", "cancelled", "isCanceled", "isCancelled", "voided", "anulada", "anulado",
}

// statusCandidates are the keys that may carry the document status, as free
// text or a numeric code.
var statusCandidates = []string{"status", "state", "docStatus", "invoiceStatus"}

// notFinalizedTerms are the status-text fragments that suppress revenue
// counting, split into cancelled and draft families.
var (
	cancelledTerms = []string{"cancel", "anul", "void"}
	draftTerms     = []string{"draft", "borrador", "temp"}
)

// StatusConfig holds the numeric status codes of the upstream encoding.
// The values are heuristic guesses about an undocumented external encoding,
// kept configurable so they can be corrected against real data.
type StatusConfig struct {
	DraftCodes []int
	VoidCodes  []int
}

// DefaultStatusConfig returns the observed upstream encoding: 0 = draft,
// 9 and 99 = void.
func DefaultStatusConfig() StatusConfig {
	return StatusConfig{
		DraftCodes: []int{0},
		VoidCodes:  []int{9, 99},
	}
}

// Finalized classifies a document as counting toward accumulated billing.
// Cancellation flags win over everything; a missing status defaults to
// finalized so an unknown encoding does not silently suppress revenue.
func Finalized(doc domain.Record, cfg StatusConfig) bool {
	for _, key := range cancelFlagCandidates {
		if truthy(doc[key]) {
			return false
		}
	}

	status := firstPresent(doc, statusCandidates)
	if status == nil {
		return true
	}

	if f, ok := domain.ToFloat(status); ok {
		code := int(f)
		for _, c := range cfg.DraftCodes {
			if code == c {
				return false
			}
		}
		for _, c := range cfg.VoidCodes {
			if code == c {
				return false
			}
		}
		return true
	}

	text := strings.ToLower(domain.ToString(status))
	for _, term := range cancelledTerms {
		if strings.Contains(text, term) {
			return false
		}
	}
	for _, term := range draftTerms {
		if strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func firstPresent(doc domain.Record, candidates []string) any {
	for _, key := range candidates {
		if v, ok := doc[key]; ok && !domain.IsEmptyValue(v) {
			return v
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes"
	}
	return false
}

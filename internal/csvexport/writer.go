// Package csvexport writes reservation rows as CSV for spreadsheet import.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vendido/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row, mirroring the console table.
var columns = []string{
	"Fecha reserva",
	"Material",
	"Potencia (W)",
	"Cantidad uds",
	"Nº Pallets",
	"Cliente",
	"Precio",
	"Unidad precio",
	"Transporte",
}

// Writer wraps csv.Writer for exporting reservation rows as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRows converts a batch of reservation rows to CSV and writes them.
func (w *Writer) WriteRows(rows []domain.ReservationRow) error {
	for i := range rows {
		if err := w.csv.Write(rowToRecord(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// rowToRecord converts a single reservation row to a CSV record. Unknown
// power and absent transport render as "-", matching the console table.
func rowToRecord(row *domain.ReservationRow) []string {
	power := "-"
	if row.PowerW > 0 {
		power = strconv.Itoa(int(row.PowerW))
	}
	transport := "-"
	if row.HasTransport {
		transport = formatMoney(row.Transport)
	}
	decimals := 2
	if row.PriceUnit == domain.PriceUnitPerWatt {
		decimals = 4
	}
	return []string{
		row.DateLabel,
		row.Material,
		power,
		strconv.Itoa(row.Quantity),
		row.Pallets,
		row.Customer,
		strconv.FormatFloat(row.UnitPrice, 'f', decimals, 64),
		row.PriceUnit,
		transport,
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document reference for use in a filename.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized CSV filename for a document reference.
// Format: {sanitized_ref}_{YYYY-MM-DD}.csv
func BuildFilename(ref string) string {
	sanitized := SanitizeFilename(ref)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}

// WriteFile writes a complete CSV (BOM, header, rows) into dir under a
// filename built from the document reference, creating dir if needed.
// Returns the written path.
func WriteFile(dir, ref string, rows []domain.ReservationRow) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, BuildFilename(ref))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(BOM); err != nil {
		return "", err
	}
	w := NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return "", err
	}
	if err := w.WriteRows(rows); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

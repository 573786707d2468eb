// Package report renders enriched rows and digest aggregates as console
// tables, HTML email bodies and XLSX workbooks.
package report

import (
	"strconv"
	"strings"
)

// FormatEUR renders an amount in Spanish locale form: thousands separated by
// dots, comma as the decimal separator, euro sign suffixed ("1.234,56 €").
func FormatEUR(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	b.WriteString(" €")
	return b.String()
}

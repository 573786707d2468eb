package infer

import "vendido/internal/domain"

// subtotalCandidates are the keys that may carry a tax-exclusive base at the
// document root or inside its "totals" record.
var subtotalCandidates = []string{
	"subtotal", "subTotal", "taxBase", "base", "baseImponible",
	"untaxed", "untaxedAmount", "net", "netAmount",
}

// lineBaseCandidates are the per-line keys that may carry an explicit
// tax-exclusive line base.
var lineBaseCandidates = []string{"base", "taxBase", "subtotal", "net"}

var totalCandidates = []string{"total", "grandTotal", "amount"}
var taxCandidates = []string{"tax", "taxes", "vat"}

// subtotalStrategy attempts to derive the tax-exclusive base of a document.
// Returns false to fall through to the next tier.
type subtotalStrategy func(doc domain.Record) (float64, bool)

var subtotalStrategies = []subtotalStrategy{
	subtotalFromRoot,
	subtotalFromTotals,
	subtotalFromLines,
	subtotalFromTotalMinusTax,
}

// Subtotal derives the tax-exclusive monetary base of a document: direct
// field, nested totals, line-by-line reconstruction, then total minus tax.
// The result is never negative; an unresolvable document yields 0.
func Subtotal(doc domain.Record) float64 {
	for _, strategy := range subtotalStrategies {
		if v, ok := strategy(doc); ok {
			if v < 0 {
				return 0
			}
			return v
		}
	}
	return 0
}

// Total returns the tax-inclusive document total, looked up at the root and
// then under "totals". 0 when absent.
func Total(doc domain.Record) float64 {
	if v, ok := firstNumeric(doc, totalCandidates); ok {
		return v
	}
	if v, ok := firstNumeric(doc.Sub("totals"), totalCandidates); ok {
		return v
	}
	return 0
}

// firstNumeric returns the first candidate key of rec holding a coercible
// number. Present-but-unparsable values fall through to the next key.
func firstNumeric(rec domain.Record, candidates []string) (float64, bool) {
	for _, key := range candidates {
		if f, ok := domain.ToFloat(rec[key]); ok {
			return f, true
		}
	}
	return 0, false
}

func subtotalFromRoot(doc domain.Record) (float64, bool) {
	return firstNumeric(doc, subtotalCandidates)
}

func subtotalFromTotals(doc domain.Record) (float64, bool) {
	return firstNumeric(doc.Sub("totals"), subtotalCandidates)
}

// subtotalFromLines reconstructs the base line by line: an explicit per-line
// base wins; otherwise price×quantity with the percentage discount applied
// (a value <= 1 is a fraction, > 1 a percentage) and the absolute discount
// subtracted, clamped at zero.
func subtotalFromLines(doc domain.Record) (float64, bool) {
	lines := doc.Lines()
	if len(lines) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, line := range lines {
		sum += lineBase(line)
	}
	return sum, true
}

func lineBase(line domain.Record) float64 {
	if base, ok := firstNumeric(line, lineBaseCandidates); ok {
		if base < 0 {
			return 0
		}
		return base
	}

	price, _ := domain.ToFloat(line["price"])
	qty, _ := domain.ToFloat(line["units"])
	base := price * qty

	if pct, ok := domain.ToFloat(line["discount"]); ok && pct > 0 {
		if pct <= 1 {
			base *= 1 - pct
		} else {
			base *= 1 - pct/100
		}
	}
	if amt, ok := domain.ToFloat(line["discountAmount"]); ok && amt > 0 {
		base -= amt
	}

	if base < 0 {
		return 0
	}
	return base
}

func subtotalFromTotalMinusTax(doc domain.Record) (float64, bool) {
	total, ok := firstNumeric(doc, totalCandidates)
	if !ok {
		total, ok = firstNumeric(doc.Sub("totals"), totalCandidates)
	}
	if !ok {
		return 0, false
	}
	tax, ok := firstNumeric(doc, taxCandidates)
	if !ok {
		tax, _ = firstNumeric(doc.Sub("totals"), taxCandidates)
	}
	base := total - tax
	if base < 0 {
		base = 0
	}
	return base, true
}

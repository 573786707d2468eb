package infer

import (
	"regexp"
	"strconv"

	"vendido/internal/domain"
)

// Plausible panel wattage bounds. Candidates outside this range are noise
// (invoice numbers, years, model suffixes).
const (
	minPlausibleWatts = 300
	maxPlausibleWatts = 1000
)

// powerAttrCandidates are the product attribute names that may carry an
// explicit power rating.
var powerAttrCandidates = []string{"power_w", "Potencia", "potencia_w", "power", "watt", "W"}

// wattPattern matches a 3-4 digit number followed by an optional W/Wp
// suffix, e.g. "605W", "605 Wp". RE2 has no lookbehind, so the leading
// digit-run boundary is an explicit group.
var wattPattern = regexp.MustCompile(`(?:^|[^0-9])([0-9]{3,4})\s*[Ww]\s*[Pp]?`)

// barePattern matches any 3-4 digit run. The digit-run boundaries are
// checked by hand in powerFromBareNumber: a consuming boundary group would
// swallow the separator between adjacent candidates ("A450-605") and hide
// the second one, and RE2 has no zero-width lookaround.
var barePattern = regexp.MustCompile(`[0-9]{3,4}`)

// powerStrategy attempts to derive a wattage from the product record and the
// surrounding texts. Returns false to fall through to the next strategy.
type powerStrategy func(product domain.Record, texts []string) (float64, bool)

var powerStrategies = []powerStrategy{
	powerFromAttribute,
	powerFromWattText,
	powerFromBareNumber,
}

// PowerW derives the power rating in watts for a line item, progressively
// relaxing from the product's structured attributes to textual evidence on
// the item and product name/SKU. Returns 0 when indeterminate.
func PowerW(product domain.Record, itemName, itemSKU string) float64 {
	texts := []string{
		itemName,
		itemSKU,
		ResolveString(product, []string{"name"}),
		ResolveString(product, []string{"sku"}),
	}
	for _, strategy := range powerStrategies {
		if w, ok := strategy(product, texts); ok {
			return w
		}
	}
	return 0
}

func powerFromAttribute(product domain.Record, _ []string) (float64, bool) {
	v := Resolve(product, powerAttrCandidates, nil)
	if v == nil {
		return 0, false
	}
	// A present but unparsable attribute falls through to the text scans.
	return domain.ToFloat(v)
}

func powerFromWattText(_ domain.Record, texts []string) (float64, bool) {
	return maxPlausible(texts, wattPattern)
}

// powerFromBareNumber keeps standalone 3-4 digit runs only: a match touching
// another digit is part of a longer run (invoice numbers, EANs) and dropped.
func powerFromBareNumber(_ domain.Record, texts []string) (float64, bool) {
	best := 0
	for _, txt := range texts {
		for _, m := range barePattern.FindAllStringIndex(txt, -1) {
			if m[0] > 0 && isDigitByte(txt[m[0]-1]) {
				continue
			}
			if m[1] < len(txt) && isDigitByte(txt[m[1]]) {
				continue
			}
			n, err := strconv.Atoi(txt[m[0]:m[1]])
			if err != nil {
				continue
			}
			if n >= minPlausibleWatts && n <= maxPlausibleWatts && n > best {
				best = n
			}
		}
	}
	if best == 0 {
		return 0, false
	}
	return float64(best), true
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// maxPlausible scans every text for pattern matches, keeps those inside the
// plausible wattage range, and returns the maximum across all sources.
func maxPlausible(texts []string, pattern *regexp.Regexp) (float64, bool) {
	best := 0
	for _, txt := range texts {
		for _, m := range pattern.FindAllStringSubmatch(txt, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n >= minPlausibleWatts && n <= maxPlausibleWatts && n > best {
				best = n
			}
		}
	}
	if best == 0 {
		return 0, false
	}
	return float64(best), true
}

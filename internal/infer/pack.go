package infer

import (
	"regexp"
	"strings"

	"vendido/internal/domain"
)

// packAttrCandidates are the product attribute names that may carry an
// explicit units-per-pallet value.
var packAttrCandidates = []string{
	"units_per_pallet", "unitsPerPallet", "pallet_units",
	"ud_pallet", "uds_pallet", "unitsPallet",
}

// PackRule maps a name/SKU pattern to a known pack size.
type PackRule struct {
	Pattern *regexp.Regexp
	Size    int
}

// PackConfig is the data side of pack-size inference: the plausible pack
// sizes, the tie-break preference among exact divisors, and the pattern
// rules. It is configuration, replaceable without touching the algorithm.
type PackConfig struct {
	Sizes     []int
	Preferred int
	Rules     []PackRule
}

// DefaultPackConfig returns the stock configuration: candidate sizes with a
// slight preference for 36, plus the brand/model rules known to ship 36 per
// pallet.
func DefaultPackConfig() PackConfig {
	return PackConfig{
		Sizes:     []int{36, 37, 35, 31, 30},
		Preferred: 36,
		Rules: []PackRule{
			{Pattern: regexp.MustCompile(`(?i)AIKO.*MAH72M`), Size: 36},
			{Pattern: regexp.MustCompile(`(?i)AIKO.*\b605\b`), Size: 36},
		},
	}
}

// PackSize infers the units-per-pallet for a line item: explicit product
// attribute first, then pattern rules over the item and product name/SKU,
// then divisibility reasoning over the configured plausible sizes. The
// provenance tag records which strategy produced the value.
func PackSize(cfg PackConfig, product domain.Record, name, sku string, qty int) domain.PackResult {
	if size, ok := packFromAttribute(product); ok {
		return domain.PackResult{
			Size:       size,
			Provenance: domain.ProvenanceAttribute,
			Leftover:   leftover(qty, size),
		}
	}

	if size, ok := packFromRules(cfg.Rules, product, name, sku); ok {
		return domain.PackResult{
			Size:       size,
			Provenance: domain.ProvenanceNamePattern,
			Leftover:   leftover(qty, size),
		}
	}

	if qty > 0 {
		return packFromDivisors(cfg, qty)
	}

	return domain.PackResult{Provenance: domain.ProvenanceUnknown}
}

func packFromAttribute(product domain.Record) (int, bool) {
	f, ok := ResolveFloat(product, packAttrCandidates)
	if !ok || f <= 0 {
		return 0, false
	}
	return int(f), true
}

func packFromRules(rules []PackRule, product domain.Record, name, sku string) (int, bool) {
	text := strings.Join([]string{
		name,
		sku,
		ResolveString(product, []string{"name"}),
		ResolveString(product, []string{"sku"}),
	}, " ")
	for _, rule := range rules {
		if rule.Pattern.MatchString(text) {
			return rule.Size, true
		}
	}
	return 0, false
}

// packFromDivisors picks a pack size by divisibility: a single exact divisor
// wins outright; several exact divisors tie-break to the preferred size (or
// the largest), recording the rest as rejected alternatives; no exact
// divisor falls back to the candidate minimizing the remainder, preferring
// the larger size on a remainder tie.
func packFromDivisors(cfg PackConfig, qty int) domain.PackResult {
	var exact []int
	for _, p := range cfg.Sizes {
		if p > 0 && qty%p == 0 {
			exact = append(exact, p)
		}
	}

	switch {
	case len(exact) == 1:
		return domain.PackResult{
			Size:       exact[0],
			Provenance: domain.ProvenanceExactDivisor,
		}
	case len(exact) > 1:
		chosen := maxOf(exact)
		for _, p := range exact {
			if p == cfg.Preferred {
				chosen = cfg.Preferred
				break
			}
		}
		var rejected []int
		for _, p := range exact {
			if p != chosen {
				rejected = append(rejected, p)
			}
		}
		return domain.PackResult{
			Size:       chosen,
			Provenance: domain.ProvenanceAmbiguousDivisor,
			Rejected:   rejected,
		}
	}

	best, bestRem := 0, 0
	for _, p := range cfg.Sizes {
		if p <= 0 {
			continue
		}
		rem := qty % p
		if best == 0 || rem < bestRem || (rem == bestRem && p > best) {
			best, bestRem = p, rem
		}
	}
	if best == 0 {
		return domain.PackResult{Provenance: domain.ProvenanceUnknown}
	}
	return domain.PackResult{
		Size:       best,
		Provenance: domain.ProvenanceClosestDivisor,
		Leftover:   bestRem,
	}
}

func leftover(qty, size int) int {
	if qty <= 0 || size <= 0 {
		return 0
	}
	return qty % size
}

func maxOf(vals []int) int {
	best := vals[0]
	for _, v := range vals[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

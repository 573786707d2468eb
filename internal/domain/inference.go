package domain

import (
	"fmt"
	"math"
)

// Provenance records which resolution strategy produced an inferred value.
type Provenance string

const (
	ProvenanceAttribute        Provenance = "explicit-attribute"
	ProvenanceNamePattern      Provenance = "name-pattern"
	ProvenanceExactDivisor     Provenance = "exact-divisor"
	ProvenanceAmbiguousDivisor Provenance = "ambiguous-divisor"
	ProvenanceClosestDivisor   Provenance = "closest-divisor"
	ProvenanceUnknown          Provenance = "unknown"
)

// PackResult is the outcome of pack-size inference for one line item.
type PackResult struct {
	Size       int
	Provenance Provenance
	// Rejected holds the other exact divisors when the choice was ambiguous.
	Rejected []int
	// Leftover is the number of units not covered by whole packs.
	Leftover int
}

// Pallets returns the whole-pallet count for qty units, 0 when the pack size
// is unknown.
func (p PackResult) Pallets(qty int) int {
	if qty <= 0 || p.Size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(qty) / float64(p.Size)))
}

// PalletsDisplay renders the pallet count for reporting, annotated with the
// leftover units when the pack size does not evenly divide the quantity.
func (p PackResult) PalletsDisplay(qty int) string {
	pallets := p.Pallets(qty)
	if pallets == 0 {
		return "-"
	}
	if p.Leftover > 0 {
		return fmt.Sprintf("%d (+%d)", pallets, p.Leftover)
	}
	return fmt.Sprintf("%d", pallets)
}

package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vendido/internal/domain"
)

func TestPackSize_ExplicitAttribute(t *testing.T) {
	product := domain.Record{"attributes": map[string]any{"units_per_pallet": 31.0}}
	got := PackSize(DefaultPackConfig(), product, "Panel 605W", "", 62)

	assert.Equal(t, 31, got.Size)
	assert.Equal(t, domain.ProvenanceAttribute, got.Provenance)
	assert.Equal(t, 0, got.Leftover)
}

func TestPackSize_AttributeLeftover(t *testing.T) {
	product := domain.Record{"uds_pallet": "36"}
	got := PackSize(DefaultPackConfig(), product, "", "", 80)

	assert.Equal(t, 36, got.Size)
	assert.Equal(t, 8, got.Leftover)
	assert.Equal(t, "3 (+8)", got.PalletsDisplay(80))
}

func TestPackSize_NameRule(t *testing.T) {
	got := PackSize(DefaultPackConfig(), domain.Record{}, "AIKO Neostar MAH72Mw", "", 50)

	assert.Equal(t, 36, got.Size)
	assert.Equal(t, domain.ProvenanceNamePattern, got.Provenance)
}

func TestPackSize_RuleMatchesProductText(t *testing.T) {
	product := domain.Record{"name": "aiko 605 bifacial"}
	got := PackSize(DefaultPackConfig(), product, "Panel generico", "", 72)

	assert.Equal(t, 36, got.Size)
	assert.Equal(t, domain.ProvenanceNamePattern, got.Provenance)
}

func TestPackSize_SingleExactDivisor(t *testing.T) {
	// 62 = 2x31 and no other candidate divides it.
	got := PackSize(DefaultPackConfig(), domain.Record{}, "Panel", "", 62)

	assert.Equal(t, 31, got.Size)
	assert.Equal(t, domain.ProvenanceExactDivisor, got.Provenance)
	assert.Empty(t, got.Rejected)
	assert.Equal(t, "2", got.PalletsDisplay(62))
}

func TestPackSize_AmbiguousPrefersConfigured(t *testing.T) {
	// 1260 is divisible by 36, 35 and 30.
	got := PackSize(DefaultPackConfig(), domain.Record{}, "Panel", "", 1260)

	assert.Equal(t, 36, got.Size)
	assert.Equal(t, domain.ProvenanceAmbiguousDivisor, got.Provenance)
	assert.ElementsMatch(t, []int{35, 30}, got.Rejected)
}

func TestPackSize_AmbiguousWithoutPreferredTakesLargest(t *testing.T) {
	cfg := PackConfig{Sizes: []int{36, 37, 35, 31, 30}, Preferred: 40}
	// 210 is divisible by 35 and 30, not by 36/37/31.
	got := PackSize(cfg, domain.Record{}, "Panel", "", 210)

	assert.Equal(t, 35, got.Size)
	assert.Equal(t, domain.ProvenanceAmbiguousDivisor, got.Provenance)
	assert.ElementsMatch(t, []int{30}, got.Rejected)
}

func TestPackSize_ClosestDivisor(t *testing.T) {
	// 71 has no exact divisor among the candidates; 35 leaves remainder 1.
	got := PackSize(DefaultPackConfig(), domain.Record{}, "Panel", "", 71)

	assert.Equal(t, 35, got.Size)
	assert.Equal(t, domain.ProvenanceClosestDivisor, got.Provenance)
	assert.Equal(t, 1, got.Leftover)
	assert.Equal(t, "3 (+1)", got.PalletsDisplay(71))
}

func TestPackSize_ClosestDivisorTiePrefersLarger(t *testing.T) {
	// 50%20 == 50%40 == 10.
	cfg := PackConfig{Sizes: []int{20, 40}, Preferred: 40}
	got := PackSize(cfg, domain.Record{}, "Panel", "", 50)

	assert.Equal(t, 40, got.Size)
	assert.Equal(t, domain.ProvenanceClosestDivisor, got.Provenance)
	assert.Equal(t, 10, got.Leftover)
}

func TestPackSize_ZeroQuantityUnknown(t *testing.T) {
	got := PackSize(DefaultPackConfig(), domain.Record{}, "Panel", "", 0)

	assert.Equal(t, 0, got.Size)
	assert.Equal(t, domain.ProvenanceUnknown, got.Provenance)
	assert.Equal(t, "-", got.PalletsDisplay(0))
}

func TestPackSize_NegativeQuantityUnknown(t *testing.T) {
	got := PackSize(DefaultPackConfig(), domain.Record{}, "Panel", "", -5)
	assert.Equal(t, domain.ProvenanceUnknown, got.Provenance)
}

func TestPackSize_EmptySizesUnknown(t *testing.T) {
	got := PackSize(PackConfig{}, domain.Record{}, "Panel", "", 72)
	assert.Equal(t, domain.ProvenanceUnknown, got.Provenance)
	assert.Equal(t, 0, got.Size)
}

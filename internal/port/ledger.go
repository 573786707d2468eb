package port

import (
	"context"

	"vendido/internal/domain"
)

// LedgerStore persists the deduplication ledger as a full snapshot.
// Load must treat an absent or corrupt snapshot as an empty set, never as a
// fatal error.
type LedgerStore interface {
	Load(ctx context.Context) (domain.ProcessedSet, error)
	Save(ctx context.Context, set domain.ProcessedSet) error
}

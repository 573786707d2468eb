package port

import (
	"context"

	"vendido/internal/domain"
)

// DocumentSource abstracts the invoicing API's document endpoints.
type DocumentSource interface {
	// ListDocuments returns all documents of a kind created inside the
	// [startEpoch, endEpoch] window (epoch seconds, UTC), transparently
	// walking pagination.
	ListDocuments(ctx context.Context, kind domain.DocKind, startEpoch, endEpoch int64) ([]domain.Record, error)

	// GetDocument fetches a single document by id.
	GetDocument(ctx context.Context, kind domain.DocKind, id string) (domain.Record, error)
}

// ProductSource resolves a product reference to its record. Implementations
// may memoize; an unknown or empty id yields an empty record, not an error.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (domain.Record, error)
}

package holded

import (
	"context"
	"sync"

	"vendido/internal/domain"
	"vendido/internal/port"
)

// ProductCache is a read-through, per-run memoization of product lookups.
// Its lifetime is one processing run; it is never shared across runs.
// Concurrent line workers go through a single mutex on populate.
type ProductCache struct {
	source port.ProductSource

	mu    sync.Mutex
	byRef map[string]domain.Record
}

// NewProductCache wraps a ProductSource with per-run memoization.
func NewProductCache(source port.ProductSource) *ProductCache {
	return &ProductCache{
		source: source,
		byRef:  make(map[string]domain.Record),
	}
}

var _ port.ProductSource = (*ProductCache)(nil)

// GetProduct returns the cached product, populating the cache on first use.
// Only successful lookups are cached, so a transient upstream failure does
// not poison the run.
func (c *ProductCache) GetProduct(ctx context.Context, id string) (domain.Record, error) {
	if id == "" {
		return domain.Record{}, nil
	}

	c.mu.Lock()
	if prod, ok := c.byRef[id]; ok {
		c.mu.Unlock()
		return prod, nil
	}
	c.mu.Unlock()

	prod, err := c.source.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byRef[id] = prod
	c.mu.Unlock()
	return prod, nil
}

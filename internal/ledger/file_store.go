// Package ledger persists the deduplication ledger as full snapshots.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"vendido/internal/domain"
	"vendido/internal/port"
)

// FileStore keeps the ledger as a JSON array of document refs on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ port.LedgerStore = (*FileStore)(nil)

// Load reads the persisted snapshot. An absent or unparsable file yields an
// empty set; corruption is logged, never fatal.
func (s *FileStore) Load(_ context.Context) (domain.ProcessedSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ProcessedSet{}, nil
	}
	if err != nil {
		log.Printf("ledger.FileStore: reading %s: %v; starting with empty ledger", s.path, err)
		return domain.ProcessedSet{}, nil
	}

	var refs []string
	if err := json.Unmarshal(data, &refs); err != nil {
		log.Printf("ledger.FileStore: %s is not a valid snapshot: %v; starting with empty ledger", s.path, err)
		return domain.ProcessedSet{}, nil
	}
	return domain.NewProcessedSet(refs), nil
}

// Save rewrites the snapshot in full, as a sorted JSON array.
func (s *FileStore) Save(_ context.Context, set domain.ProcessedSet) error {
	data, err := json.MarshalIndent(set.Refs(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing ledger snapshot %s: %w", s.path, err)
	}
	return nil
}

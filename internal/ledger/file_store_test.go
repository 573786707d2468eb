package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendido/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	store := NewFileStore(path)
	ctx := context.Background()

	set := domain.NewProcessedSet([]string{"SO-2", "SO-1", "F-10"})
	require.NoError(t, store.Save(ctx, set))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, set.Refs(), loaded.Refs())
}

func TestFileStore_MissingFileLoadsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStore_CorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStore_SnapshotIsSortedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewProcessedSet([]string{"b", "a"})))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewProcessedSet([]string{"a"})))
	require.NoError(t, store.Save(ctx, domain.NewProcessedSet([]string{"a", "b"})))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, loaded.Refs())
}

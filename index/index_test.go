package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
	"github.com/poiesic/skumatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (storage.ItemRepository, func()) {
	backend, err := badger.OpenBackend("", true) // in-memory
	require.NoError(t, err)

	repo, err := badger.NewItemRepository(backend)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		backend.Close()
	}

	return repo, cleanup
}

func seedItems(t *testing.T, repo storage.ItemRepository) {
	ctx := context.Background()

	_, err := repo.UpsertItems(ctx,
		&core.CatalogItem{SKU: "A-1", Name: "x axis"},
		&core.CatalogItem{SKU: "B-2", Name: "y axis"},
		&core.CatalogItem{SKU: "C-3", Name: "pending item"},
	)
	require.NoError(t, err)
	require.NoError(t, repo.WriteEmbedding(ctx, "A-1", []float32{1, 0}))
	require.NoError(t, repo.WriteEmbedding(ctx, "B-2", []float32{0, 1}))
}

func TestNewIndex_RequiresRepo(t *testing.T) {
	_, err := NewIndex(nil)
	assert.ErrorIs(t, err, ErrItemRepositoryRequired)
}

func TestIndex_NotReady(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ix, err := NewIndex(repo)
	require.NoError(t, err)

	assert.False(t, ix.Ready())

	_, err = ix.Search([]float32{1, 0}, 3)
	assert.ErrorIs(t, err, ErrIndexNotReady)

	_, err = ix.Current()
	assert.ErrorIs(t, err, ErrIndexNotReady)
}

func TestIndex_Reload(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedItems(t, repo)

	ix, err := NewIndex(repo, WithDimension(2))
	require.NoError(t, err)

	n, err := ix.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n, "pending item is excluded")
	assert.True(t, ix.Ready())

	matches, err := ix.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "A-1", matches[0].SKU)
}

func TestIndex_ReloadPicksUpNewItems(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedItems(t, repo)
	ctx := context.Background()

	ix, err := NewIndex(repo, WithDimension(2))
	require.NoError(t, err)

	_, err = ix.Reload(ctx)
	require.NoError(t, err)

	before, err := ix.Current()
	require.NoError(t, err)

	// Embed the pending item and reload
	require.NoError(t, repo.WriteEmbedding(ctx, "C-3", []float32{1, 1}))
	n, err := ix.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// The old snapshot is untouched
	assert.Equal(t, 2, before.Len())

	after, err := ix.Current()
	require.NoError(t, err)
	assert.Equal(t, 3, after.Len())
}

func TestIndex_ConcurrentSearchDuringReload(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedItems(t, repo)
	ctx := context.Background()

	ix, err := NewIndex(repo, WithDimension(2))
	require.NoError(t, err)
	_, err = ix.Reload(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				matches, err := ix.Search([]float32{1, 0}, 2)
				if err != nil || len(matches) == 0 {
					t.Errorf("search failed during reload: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ix.Reload(ctx); err != nil {
				t.Errorf("reload failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestIndex_CacheRoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedItems(t, repo)
	ctx := context.Background()

	cachePath := filepath.Join(t.TempDir(), "vectors.cache")

	ix, err := NewIndex(repo, WithDimension(2), WithCachePath(cachePath))
	require.NoError(t, err)
	n, err := ix.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A fresh index on an empty repo loads the persisted snapshot
	emptyRepo, cleanup2 := setupTestDB(t)
	defer cleanup2()

	ix2, err := NewIndex(emptyRepo, WithDimension(2), WithCachePath(cachePath))
	require.NoError(t, err)

	n, err = ix2.LoadFromCache()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	matches, err := ix2.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "B-2", matches[0].SKU)
}

func TestIndex_LoadFromCache_NoPath(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ix, err := NewIndex(repo)
	require.NoError(t, err)

	_, err = ix.LoadFromCache()
	assert.Error(t, err)
}

func TestLoadCacheFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cache")
	require.NoError(t, os.WriteFile(path, []byte{0x05, 0x01}, 0644))

	_, err := LoadCacheFile(path)
	assert.ErrorIs(t, err, ErrCacheCorrupt)
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// Index serves vector similarity queries over the embedded catalog.
// Searches are lock-free; Reload and LoadFromCache swap in a fresh
// immutable snapshot.
type Index struct {
	repo      storage.ItemRepository
	dimension int
	cachePath string
	logger    *slog.Logger

	snapshot atomic.Pointer[Snapshot]
	reloadMu sync.Mutex // serializes Reload/LoadFromCache
}

// Option configures an Index.
type Option func(*Index) error

// WithDimension sets the expected vector length. Items whose stored vector
// has a different length are excluded from snapshots. Zero disables the
// check.
func WithDimension(dim int) Option {
	return func(ix *Index) error {
		ix.dimension = dim
		return nil
	}
}

// WithCachePath enables snapshot persistence at the given file path.
// Reload rewrites the file after every successful swap.
func WithCachePath(path string) Option {
	return func(ix *Index) error {
		ix.cachePath = path
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndex creates an index over the given item repository. The index is
// empty until the first Reload or LoadFromCache.
func NewIndex(repo storage.ItemRepository, opts ...Option) (*Index, error) {
	if repo == nil {
		return nil, ErrItemRepositoryRequired
	}

	ix := &Index{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	ix.logger = ix.logger.With("component", "vector-index")

	return ix, nil
}

// Ready reports whether a snapshot has been loaded.
func (ix *Index) Ready() bool {
	return ix.snapshot.Load() != nil
}

// Current returns the active snapshot.
// Returns ErrIndexNotReady before the first load.
func (ix *Index) Current() (*Snapshot, error) {
	snap := ix.snapshot.Load()
	if snap == nil {
		return nil, ErrIndexNotReady
	}
	return snap, nil
}

// Search returns the limit most similar items to the query vector.
// Returns ErrIndexNotReady before the first load.
func (ix *Index) Search(vector []float32, limit int) ([]core.SimilarityMatch, error) {
	snap, err := ix.Current()
	if err != nil {
		return nil, err
	}
	return snap.Search(vector, limit), nil
}

// Reload rebuilds the snapshot from storage and swaps it in atomically.
// Queries running against the previous snapshot are unaffected. Returns the
// number of searchable entries.
func (ix *Index) Reload(ctx context.Context) (int, error) {
	ix.reloadMu.Lock()
	defer ix.reloadMu.Unlock()

	items, err := ix.repo.EmbeddedItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load embedded items: %w", err)
	}

	snap := BuildSnapshot(items, ix.dimension)
	ix.snapshot.Store(snap)
	ix.logger.Info("vector index reloaded", "entries", snap.Len(), "candidates", len(items))

	if ix.cachePath != "" {
		if err := WriteCacheFile(ix.cachePath, snap.items()); err != nil {
			// The swap already happened, a stale cache only costs the
			// next restart a full reload
			ix.logger.Error("failed to write vector cache", "path", ix.cachePath, "err", err)
		} else {
			ix.logger.Debug("vector cache written", "path", ix.cachePath, "entries", snap.Len())
		}
	}

	return snap.Len(), nil
}

// LoadFromCache builds the snapshot from the persisted cache file instead of
// storage. Returns the number of searchable entries.
func (ix *Index) LoadFromCache() (int, error) {
	if ix.cachePath == "" {
		return 0, fmt.Errorf("no cache path configured")
	}

	ix.reloadMu.Lock()
	defer ix.reloadMu.Unlock()

	items, err := LoadCacheFile(ix.cachePath)
	if err != nil {
		return 0, err
	}

	snap := BuildSnapshot(items, ix.dimension)
	ix.snapshot.Store(snap)
	ix.logger.Info("vector index loaded from cache", "path", ix.cachePath, "entries", snap.Len())

	return snap.Len(), nil
}

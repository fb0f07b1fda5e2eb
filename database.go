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


package skumatch

import (
	"context"
	"log/slog"
	"os"

	"github.com/poiesic/skumatch/ai"
	"github.com/poiesic/skumatch/ai/openai"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/embedding"
	"github.com/poiesic/skumatch/index"
	"github.com/poiesic/skumatch/learn"
	"github.com/poiesic/skumatch/match"
	"github.com/poiesic/skumatch/storage"
	"github.com/poiesic/skumatch/storage/badger"
)

// Database wires the storage backend, the embedding provider, and the vector
// index behind a single entry point.
type Database struct {
	backend     *badger.Backend
	itemRepo    storage.ItemRepository
	mappingRepo storage.MappingHistoryRepository
	quoteRepo   storage.QuoteRepository
	embedder    ai.Embedder
	index       *index.Index
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig  *ai.Config
	embedder  ai.Embedder
	cachePath string
	inMemory  bool
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder replaces the default OpenAI-compatible embedder.
// Used by tests and alternate providers; WithAIConfig is ignored for
// embedder construction when set.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithCachePath enables the persisted vector cache at the given file path.
// When the file exists it is loaded at open, so suggestions work before the
// first index reload.
func WithCachePath(path string) DatabaseOption {
	return func(o *databaseOptions) {
		o.cachePath = path
	}
}

// WithInMemory opens the storage backend without a backing directory.
// Data is lost on Close.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create item repository
	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create mapping history repository
	mappingRepo, err := badger.NewMappingHistoryRepository(backend)
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create quote repository
	quoteRepo, err := badger.NewQuoteRepository(backend)
	if err != nil {
		mappingRepo.Close()
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings unless one was injected
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			quoteRepo.Close()
			mappingRepo.Close()
			itemRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	indexOpts := []index.Option{index.WithDimension(options.aiConfig.Dimension)}
	if options.cachePath != "" {
		indexOpts = append(indexOpts, index.WithCachePath(options.cachePath))
	}
	ix, err := index.NewIndex(itemRepo, indexOpts...)
	if err != nil {
		quoteRepo.Close()
		mappingRepo.Close()
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	db := &Database{
		backend:     backend,
		itemRepo:    itemRepo,
		mappingRepo: mappingRepo,
		quoteRepo:   quoteRepo,
		embedder:    embedder,
		index:       ix,
		logger:      slog.Default(),
	}

	// Warm the index from the persisted cache when one exists. Failure is
	// not fatal, the index just stays not-ready until the first reload.
	if options.cachePath != "" {
		if _, statErr := os.Stat(options.cachePath); statErr == nil {
			if _, loadErr := ix.LoadFromCache(); loadErr != nil {
				db.logger.Warn("failed to load vector cache", "path", options.cachePath, "err", loadErr)
			}
		}
	}

	return db, nil
}

func (db *Database) Close() error {
	// Close repositories
	if err := db.quoteRepo.Close(); err != nil {
		db.logger.Error("error closing quote repository", "err", err)
		return err
	}
	if err := db.mappingRepo.Close(); err != nil {
		db.logger.Error("error closing mapping history repository", "err", err)
		return err
	}
	if err := db.itemRepo.Close(); err != nil {
		db.logger.Error("error closing item repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ItemRepository() storage.ItemRepository {
	return db.itemRepo
}

func (db *Database) MappingHistoryRepository() storage.MappingHistoryRepository {
	return db.mappingRepo
}

func (db *Database) QuoteRepository() storage.QuoteRepository {
	return db.quoteRepo
}

func (db *Database) Index() *index.Index {
	return db.index
}

// ImportItems upserts catalog items from the source-of-record export.
// Items whose name changed lose their stored embedding and become pending.
func (db *Database) ImportItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error) {
	return db.itemRepo.UpsertItems(ctx, items...)
}

// ImportQuotes loads historical quotation lines used for suggestion
// enrichment.
func (db *Database) ImportQuotes(ctx context.Context, quotes ...*core.QuoteRecord) ([]*core.QuoteRecord, error) {
	return db.quoteRepo.AddQuotes(ctx, quotes...)
}

// ReloadIndex rebuilds the vector index from storage and rewrites the
// persisted cache when one is configured. Returns the number of searchable
// entries.
func (db *Database) ReloadIndex(ctx context.Context) (int, error) {
	return db.index.Reload(ctx)
}

func (db *Database) NewGenerator(opts ...embedding.Option) (*embedding.Generator, error) {
	return embedding.NewGenerator(db.itemRepo, db.embedder, opts...)
}

func (db *Database) NewMatcher(opts ...match.Option) (*match.Matcher, error) {
	return match.NewMatcher(db.itemRepo, db.mappingRepo, db.quoteRepo, db.embedder, db.index, opts...)
}

func (db *Database) NewRecorder(opts ...learn.Option) (*learn.Recorder, error) {
	return learn.NewRecorder(db.mappingRepo, opts...)
}

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


package storage

import (
	"context"

	"github.com/poiesic/skumatch/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ItemRepository provides operations for managing catalog items and their
// embedding vectors.
type ItemRepository interface {
	Repository
	// UpsertItems inserts or updates catalog items keyed by SKU.
	// Sets InsertedAt on first insert and UpdatedAt on every write.
	// When an existing item's Name changes, the stored embedding vector is
	// cleared so the item becomes pending again.
	// Returns the items with timestamps populated.
	UpsertItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error)

	// GetItem retrieves a single catalog item by SKU.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, sku string) (*core.CatalogItem, error)

	// GetItems retrieves multiple catalog items by SKU.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, skus ...string) ([]*core.CatalogItem, error)

	// PendingItems retrieves items awaiting an embedding, ordered by SKU.
	// With includeEmbedded set, every item is returned regardless of
	// embedding state (used to regenerate all vectors).
	PendingItems(ctx context.Context, includeEmbedded bool) ([]*core.CatalogItem, error)

	// EmbeddedItems retrieves all items that carry an embedding vector,
	// ordered by SKU. This is the index load path.
	EmbeddedItems(ctx context.Context) ([]*core.CatalogItem, error)

	// WriteEmbedding stores the embedding vector for a SKU.
	// Returns ErrNotFound if the item doesn't exist and ErrConflict if a
	// concurrent write invalidated the transaction.
	WriteEmbedding(ctx context.Context, sku string, vector []float32) error

	// CountItems returns the total number of items and the number still
	// pending an embedding.
	CountItems(ctx context.Context) (total, pending int, err error)
}

// MappingHistoryRepository provides operations for the requirement-to-SKU
// selection history.
type MappingHistoryRepository interface {
	Repository
	// IncrementMapping atomically increments the selection counter for the
	// (requirement, sku) pair, creating the record with Frequency 1 when it
	// doesn't exist. The requirement text is normalized before lookup.
	// Safe for concurrent callers; no increment is ever lost.
	IncrementMapping(ctx context.Context, requirement, sku string) (*core.MappingRecord, error)

	// LookupMappings retrieves all mapping records for a requirement,
	// ordered by SKU. The requirement text is normalized before lookup.
	// Returns an empty slice when the requirement has no history.
	LookupMappings(ctx context.Context, requirement string) ([]*core.MappingRecord, error)

	// GetMapping retrieves a single mapping record.
	// Returns ErrNotFound if no record exists for the pair.
	GetMapping(ctx context.Context, requirement, sku string) (*core.MappingRecord, error)
}

// QuoteRepository provides operations for historical quotation lines.
type QuoteRepository interface {
	Repository
	// AddQuotes appends quote records. For records with Id=0, generates new
	// IDs from sequence. Returns the records with IDs populated.
	AddQuotes(ctx context.Context, quotes ...*core.QuoteRecord) ([]*core.QuoteRecord, error)

	// LastQuotes retrieves the most recently added quotes for a SKU, newest
	// first, up to limit results.
	LastQuotes(ctx context.Context, sku string, limit int) ([]*core.QuoteRecord, error)
}

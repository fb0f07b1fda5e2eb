package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	return &ItemRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ItemRepository has no resources to release.
func (r *ItemRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ItemRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertItems inserts or updates catalog items keyed by SKU.
func (r *ItemRepository) UpsertItems(ctx context.Context, items ...*core.CatalogItem) ([]*core.CatalogItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, item := range items {
			if err := core.ValidateItem(item, 0); err != nil {
				return err
			}

			key := makeItemKey(item.SKU)
			old, err := readItem(tx, key)
			if err != nil {
				return err
			}

			if old == nil {
				item.InsertedAt = now
			} else {
				item.InsertedAt = old.InsertedAt
				if old.Name == item.Name {
					// Name unchanged, keep the existing embedding
					if len(item.Vector) == 0 {
						item.Vector = old.Vector
					}
				} else {
					// Name changed, stored embedding no longer describes
					// the item
					item.Vector = nil
				}
			}
			item.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalCatalogItem(item)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// GetItem retrieves a single catalog item by SKU.
func (r *ItemRepository) GetItem(ctx context.Context, sku string) (*core.CatalogItem, error) {
	var result *core.CatalogItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readItem(tx, makeItemKey(sku))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves multiple catalog items by SKU.
func (r *ItemRepository) GetItems(ctx context.Context, skus ...string) ([]*core.CatalogItem, error) {
	var result []*core.CatalogItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, sku := range skus {
			item, err := readItem(tx, makeItemKey(sku))
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// PendingItems retrieves items awaiting an embedding, ordered by SKU.
func (r *ItemRepository) PendingItems(ctx context.Context, includeEmbedded bool) ([]*core.CatalogItem, error) {
	return r.scanItems(func(item *core.CatalogItem) bool {
		return includeEmbedded || item.Pending()
	})
}

// EmbeddedItems retrieves all items that carry an embedding vector, ordered
// by SKU.
func (r *ItemRepository) EmbeddedItems(ctx context.Context) ([]*core.CatalogItem, error) {
	return r.scanItems(func(item *core.CatalogItem) bool {
		return !item.Pending()
	})
}

// WriteEmbedding stores the embedding vector for a SKU.
func (r *ItemRepository) WriteEmbedding(ctx context.Context, sku string, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeItemKey(sku)
		item, err := readItem(tx, key)
		if err != nil {
			return err
		}
		if item == nil {
			return storage.ErrNotFound
		}

		item.Vector = vector
		item.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalCatalogItem(item)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// CountItems returns the total number of items and the number still pending
// an embedding.
func (r *ItemRepository) CountItems(ctx context.Context) (total, pending int, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(itemRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var item *core.CatalogItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalCatalogItem(val)
				return err
			})
			if err != nil {
				return err
			}
			total++
			if item.Pending() {
				pending++
			}
		}
		return nil
	}, false)
	return total, pending, err
}

// scanItems iterates all item records in key (SKU) order, keeping those that
// pass the filter.
func (r *ItemRepository) scanItems(keep func(*core.CatalogItem) bool) ([]*core.CatalogItem, error) {
	var results []*core.CatalogItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(itemRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var item *core.CatalogItem
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalCatalogItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if item != nil && keep(item) {
				results = append(results, item)
			}
		}
		return nil
	}, false)
	return results, err
}

// readItem reads a catalog item from the transaction.
func readItem(tx *badger.Txn, key []byte) (*core.CatalogItem, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CatalogItem
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalCatalogItem(val)
		return err
	})
	return record, err
}

package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// incrementRetries bounds the commit-retry loop on transaction conflicts.
// Conflicts only occur when two callers increment the same (requirement, sku)
// pair at the same moment, so a handful of retries is enough.
const incrementRetries = 10

// MappingHistoryRepository implements storage.MappingHistoryRepository for
// BadgerDB.
type MappingHistoryRepository struct {
	backend *Backend
}

var _ storage.MappingHistoryRepository = (*MappingHistoryRepository)(nil)

// NewMappingHistoryRepository creates a new MappingHistoryRepository.
func NewMappingHistoryRepository(backend *Backend) (*MappingHistoryRepository, error) {
	return &MappingHistoryRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MappingHistoryRepository has no resources to release.
func (r *MappingHistoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MappingHistoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// IncrementMapping atomically increments the selection counter for the
// (requirement, sku) pair, creating the record when it doesn't exist.
//
// The read-modify-write runs inside a single serializable transaction, so a
// conflicting concurrent increment fails at commit and is retried on a fresh
// read. Increments are never lost.
func (r *MappingHistoryRepository) IncrementMapping(ctx context.Context, requirement, sku string) (*core.MappingRecord, error) {
	normalized := core.NormalizeRequirement(requirement)
	if normalized == "" {
		return nil, core.ErrEmptyRequirement
	}
	if sku == "" {
		return nil, core.ErrEmptySKU
	}

	key := makeMappingKey(core.IDFromContent(normalized), sku)

	var result *core.MappingRecord
	var err error
	for attempt := 0; attempt < incrementRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		err = r.backend.WithTx(func(tx *badger.Txn) error {
			record, err := readMapping(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				record = &core.MappingRecord{
					Requirement: normalized,
					SKU:         sku,
				}
			}
			record.Frequency++
			record.LastObserved = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalMappingRecord(record)); err != nil {
				return err
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			result = record
			return nil
		}, true)

		if err == nil {
			return result, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}
	}
	return nil, err
}

// LookupMappings retrieves all mapping records for a requirement, ordered by
// SKU.
func (r *MappingHistoryRepository) LookupMappings(ctx context.Context, requirement string) ([]*core.MappingRecord, error) {
	normalized := core.NormalizeRequirement(requirement)
	if normalized == "" {
		return nil, core.ErrEmptyRequirement
	}

	var results []*core.MappingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialMappingKey(core.IDFromContent(normalized))
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var record *core.MappingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalMappingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			// Hash prefixes can collide across requirements, the record
			// itself is authoritative
			if record != nil && record.Requirement == normalized {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetMapping retrieves a single mapping record.
func (r *MappingHistoryRepository) GetMapping(ctx context.Context, requirement, sku string) (*core.MappingRecord, error) {
	normalized := core.NormalizeRequirement(requirement)
	if normalized == "" {
		return nil, core.ErrEmptyRequirement
	}

	var result *core.MappingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMapping(tx, makeMappingKey(core.IDFromContent(normalized), sku))
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

// readMapping reads a mapping record from the transaction.
func readMapping(tx *badger.Txn, key []byte) (*core.MappingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.MappingRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalMappingRecord(val)
		return err
	})
	return record, err
}

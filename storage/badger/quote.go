package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// QuoteRepository implements storage.QuoteRepository for BadgerDB.
type QuoteRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.QuoteRepository = (*QuoteRepository)(nil)

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(backend *Backend) (*QuoteRepository, error) {
	idSeq, err := backend.GetSequence(quoteIDSeq)
	if err != nil {
		return nil, err
	}

	return &QuoteRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *QuoteRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *QuoteRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddQuotes appends quote records.
func (r *QuoteRepository) AddQuotes(ctx context.Context, quotes ...*core.QuoteRecord) ([]*core.QuoteRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, quote := range quotes {
			if quote.SKU == "" {
				return core.ErrEmptySKU
			}

			if quote.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				quote.Id = core.ID(nextID)
			}

			key := makeQuoteKey(quote.SKU, quote.Id)
			if err := tx.Set(key, storage.MarshalQuoteRecord(quote)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return quotes, err
}

// LastQuotes retrieves the most recently added quotes for a SKU, newest
// first, up to limit results.
func (r *QuoteRepository) LastQuotes(ctx context.Context, sku string, limit int) ([]*core.QuoteRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.QuoteRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialQuoteKey(sku)
		// Reverse iteration needs a seek key past the last entry of the prefix
		seek := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seek); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			var quote *core.QuoteRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				quote, err = storage.UnmarshalQuoteRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if quote != nil {
				results = append(results, quote)
			}
		}
		return nil
	}, false)

	return results, err
}

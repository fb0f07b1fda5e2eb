package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/skumatch/ai"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// writeRetries bounds the per-item retry loop when a concurrent writer
// invalidates the embedding write transaction.
const writeRetries = 5

// BatchProcessor handles embedding generation for batches of catalog items.
type BatchProcessor struct {
	repo           storage.ItemRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ItemRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of items and writes them to
// storage. Vectors are normalized after embedding so cosine similarity
// reduces to a dot product.
//
// A provider failure aborts the whole batch and is returned as the error.
// Per-item write failures do not: the remaining items still get their
// embeddings and the failures come back in itemFailures.
func (bp *BatchProcessor) Process(ctx context.Context, items []*core.CatalogItem) (succeeded int, itemFailures []ItemFailure, err error) {
	if len(items) == 0 {
		return 0, nil, nil
	}

	// Item names are the embedded text
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Name
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err = RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return 0, nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(items) {
		return 0, nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(items), len(embeddings))
	}

	// Write each item's vector, isolating failures to the item
	for i, item := range items {
		vector := core.NormalizeVector(embeddings[i])
		if err := bp.writeEmbedding(ctx, item.SKU, vector); err != nil {
			itemFailures = append(itemFailures, ItemFailure{SKU: item.SKU, Err: err})
			continue
		}
		succeeded++
	}

	return succeeded, itemFailures, nil
}

// writeEmbedding stores a vector, retrying on transaction conflicts with a
// linearly growing delay capped at two seconds.
func (bp *BatchProcessor) writeEmbedding(ctx context.Context, sku string, vector []float32) error {
	var err error
	for attempt := 1; attempt <= writeRetries; attempt++ {
		err = bp.repo.WriteEmbedding(ctx, sku, vector)
		if err == nil || !errors.Is(err, storage.ErrConflict) {
			return err
		}

		if attempt == writeRetries {
			break
		}

		delay := time.Duration(attempt) * 200 * time.Millisecond
		if delay > 2*time.Second {
			delay = 2 * time.Second
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

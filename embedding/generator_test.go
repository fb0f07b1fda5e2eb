package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/skumatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_Validation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewGenerator(nil, &mockEmbedder{})
	assert.ErrorIs(t, err, ErrItemRepositoryRequired)

	_, err = NewGenerator(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestGenerator_Run(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	items := make([]*core.CatalogItem, 25)
	for i := range items {
		items[i] = &core.CatalogItem{
			SKU:  fmt.Sprintf("SKU-%03d", i),
			Name: fmt.Sprintf("Catalog item %d", i),
		}
	}
	_, err := repo.UpsertItems(ctx, items...)
	require.NoError(t, err)

	var progress bytes.Buffer
	gen, err := NewGenerator(repo, &mockEmbedder{},
		WithConfig(&Config{
			BatchSize:      10,
			Workers:        3,
			ReportInterval: 10,
			MaxRetries:     2,
			RetryDelay:     time.Millisecond,
		}),
		WithProgress(&progress),
	)
	require.NoError(t, err)
	defer gen.Release()

	report, err := gen.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 25, report.Processed)
	assert.Equal(t, 25, report.Succeeded)
	assert.Zero(t, report.FailureCount())
	assert.Contains(t, progress.String(), "Embedding complete")

	pending, err := repo.PendingItems(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, pending, "all items should be embedded")
}

func TestGenerator_Run_NothingPending(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	var progress bytes.Buffer
	gen, err := NewGenerator(repo, &mockEmbedder{}, WithProgress(&progress))
	require.NoError(t, err)
	defer gen.Release()

	report, err := gen.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Processed)
	assert.Contains(t, progress.String(), "No items")
}

func TestGenerator_Run_BatchFailureIsolation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	items := make([]*core.CatalogItem, 20)
	for i := range items {
		items[i] = &core.CatalogItem{
			SKU:  fmt.Sprintf("SKU-%03d", i),
			Name: fmt.Sprintf("Catalog item %d", i),
		}
	}
	_, err := repo.UpsertItems(ctx, items...)
	require.NoError(t, err)

	// Fail every batch containing the poison item, succeed otherwise
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			for _, text := range texts {
				if strings.Contains(text, "item 3") {
					return nil, errors.New("poison batch")
				}
			}
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{1, 2, 2}
			}
			return result, nil
		},
	}

	gen, err := NewGenerator(repo, embedder,
		WithConfig(&Config{
			BatchSize:      10,
			Workers:        2,
			ReportInterval: 100,
			MaxRetries:     1,
			RetryDelay:     time.Millisecond,
		}),
	)
	require.NoError(t, err)
	defer gen.Release()

	report, err := gen.Run(ctx)
	require.NoError(t, err, "a failed batch must not fail the run")

	assert.Equal(t, 20, report.Processed)
	assert.Equal(t, 10, report.Succeeded)
	require.Len(t, report.FailedBatches, 1)
	assert.Len(t, report.FailedBatches[0].SKUs, 10)
	assert.Equal(t, 10, report.FailureCount())

	// The healthy batch is fully embedded
	pending, err := repo.PendingItems(ctx, false)
	require.NoError(t, err)
	assert.Len(t, pending, 10)
}

func TestGenerator_Run_Overwrite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := repo.UpsertItems(ctx, &core.CatalogItem{SKU: "A-1", Name: "Hex bolt M8"})
	require.NoError(t, err)
	require.NoError(t, repo.WriteEmbedding(ctx, "A-1", []float32{1, 0}))

	var calls atomic.Int32
	embedder := &mockEmbedder{
		embedTextsFunc: func(ctx context.Context, texts []string) ([][]float32, error) {
			calls.Add(int32(len(texts)))
			result := make([][]float32, len(texts))
			for i := range texts {
				result[i] = []float32{0, 1}
			}
			return result, nil
		},
	}

	// Without overwrite the embedded item is skipped
	gen, err := NewGenerator(repo, embedder)
	require.NoError(t, err)
	report, err := gen.Run(ctx)
	require.NoError(t, err)
	gen.Release()
	assert.Zero(t, report.Processed)
	assert.Zero(t, calls.Load())

	// With overwrite it is regenerated
	gen, err = NewGenerator(repo, embedder, WithOverwrite(true))
	require.NoError(t, err)
	report, err = gen.Run(ctx)
	require.NoError(t, err)
	gen.Release()
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, int32(1), calls.Load())

	item, err := repo.GetItem(ctx, "A-1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, item.Vector)
}

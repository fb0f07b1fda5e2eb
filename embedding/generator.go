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


package embedding

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/skumatch/ai"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// Config holds configuration for the embedding generation run.
type Config struct {
	// BatchSize is the number of items sent to the provider per call
	BatchSize int

	// Workers is the number of batches processed concurrently
	Workers int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for provider calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Overwrite regenerates embeddings for every item, not just pending ones
	Overwrite bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		Workers:        5,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// ItemFailure records a single item whose embedding could not be stored.
type ItemFailure struct {
	SKU string
	Err error
}

// BatchFailure records a batch whose provider call failed after retries.
type BatchFailure struct {
	SKUs []string
	Err  error
}

// Report summarizes an embedding generation run.
type Report struct {
	// Processed is the number of items picked up by the run.
	Processed int

	// Succeeded is the number of items whose embedding was stored.
	Succeeded int

	// Failed lists items that embedded but could not be written.
	Failed []ItemFailure

	// FailedBatches lists batches skipped after provider failures.
	FailedBatches []BatchFailure
}

// FailureCount returns the total number of items that did not get an
// embedding.
func (r *Report) FailureCount() int {
	n := len(r.Failed)
	for _, b := range r.FailedBatches {
		n += len(b.SKUs)
	}
	return n
}

// Generator orchestrates embedding generation for the whole catalog.
type Generator struct {
	repo      storage.ItemRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(g *Generator) error {
		if config != nil {
			g.config = config
		}
		return nil
	}
}

// WithWorkers sets the number of concurrent batch workers.
// Default is 5, with a minimum of 1.
func WithWorkers(workers int) Option {
	return func(g *Generator) error {
		if workers < 1 {
			workers = 1
		}
		g.config.Workers = workers
		return nil
	}
}

// WithOverwrite regenerates embeddings for items that already have one.
func WithOverwrite(overwrite bool) Option {
	return func(g *Generator) error {
		g.config.Overwrite = overwrite
		return nil
	}
}

// WithProgress sets where progress output is written (typically os.Stderr).
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(g *Generator) error {
		if w != nil {
			g.progress = w
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGenerator creates a new embedding generator.
func NewGenerator(repo storage.ItemRepository, embedder ai.Embedder, opts ...Option) (*Generator, error) {
	if repo == nil {
		return nil, ErrItemRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	g := &Generator{
		repo:     repo,
		embedder: embedder,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(g.config.Workers)
	if err != nil {
		return nil, err
	}
	g.pool = pool

	g.processor = NewBatchProcessor(repo, embedder, g.config.MaxRetries, g.config.RetryDelay)
	g.logger = g.logger.With("component", "embedding-generator")

	return g, nil
}

// Release releases the worker pool.
// The generator should not be used after calling Release.
func (g *Generator) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}

// Run embeds all pending catalog items and returns a run report.
//
// Batches run concurrently on the worker pool. A provider failure skips only
// its batch; a storage failure skips only its item. Run returns a non-nil
// error only when the catalog scan itself fails or the context is canceled.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	items, err := g.repo.PendingItems(ctx, g.config.Overwrite)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending items: %w", err)
	}

	report := &Report{Processed: len(items)}
	if len(items) == 0 {
		fmt.Fprintf(g.progress, "No items awaiting embeddings (0 items)\n")
		return report, nil
	}

	fmt.Fprintf(g.progress, "Starting embedding of %d items (batch size: %d, workers: %d)\n",
		len(items), g.config.BatchSize, g.config.Workers)
	g.logger.Info("starting embedding run", "items", len(items), "overwrite", g.config.Overwrite)

	tracker := NewProgressTracker(g.progress, len(items), g.config.ReportInterval)
	tracker.Start()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, batch := range partition(items, g.config.BatchSize) {
		if ctx.Err() != nil {
			break
		}

		batch := batch
		wg.Add(1)
		submitErr := g.pool.Submit(func() {
			defer wg.Done()

			succeeded, itemFailures, err := g.processor.Process(ctx, batch)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				g.logger.Error("batch failed", "items", len(batch), "err", err)
				report.FailedBatches = append(report.FailedBatches, BatchFailure{
					SKUs: skus(batch),
					Err:  err,
				})
			} else {
				report.Succeeded += succeeded
				report.Failed = append(report.Failed, itemFailures...)
				for _, f := range itemFailures {
					g.logger.Error("item write failed", "sku", f.SKU, "err", f.Err)
				}
			}
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.FailedBatches = append(report.FailedBatches, BatchFailure{
				SKUs: skus(batch),
				Err:  submitErr,
			})
			mu.Unlock()
		}
	}

	wg.Wait()

	if ctx.Err() != nil {
		return report, ctx.Err()
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(g.progress, "Embedding complete. %d succeeded, %d failed in %v (%.1f items/sec)\n",
		report.Succeeded, report.FailureCount(), elapsed.Round(time.Second),
		float64(report.Processed)/elapsed.Seconds())
	g.logger.Info("embedding run complete",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.FailureCount())

	return report, nil
}

// partition splits items into batches of at most size elements.
func partition(items []*core.CatalogItem, size int) [][]*core.CatalogItem {
	if size < 1 {
		size = 1
	}
	var batches [][]*core.CatalogItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// skus extracts the SKUs of a batch for failure reporting.
func skus(items []*core.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.SKU
	}
	return out
}

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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/skumatch"
	"github.com/poiesic/skumatch/ai"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/embedding"
	"github.com/poiesic/skumatch/match"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "skumatch",
		Usage: "Hybrid requirement-to-SKU matching for procurement quotes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import catalog items and historical quotes from JSON exports",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "items",
						Usage: "Path to a JSON file with catalog items",
					},
					&cli.StringFlag{
						Name:  "quotes",
						Usage: "Path to a JSON file with historical quote lines",
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Generate embeddings for pending catalog items and reload the index",
				Action: embedCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to the persisted vector cache file",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Regenerate embeddings for items that already have one",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches processed concurrently",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "suggest",
				Usage:     "Suggest catalog items for a free-text requirement",
				ArgsUsage: "REQUIREMENT TEXT",
				Action:    suggestCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to the persisted vector cache file",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of suggestions to return",
						Value: 3,
					},
				),
			},
			{
				Name:   "learn",
				Usage:  "Record a finalized requirement-to-SKU selection",
				Action: learnCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "requirement",
						Usage:    "Free-text requirement that was quoted",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "sku",
						Usage:    "SKU the requirement was finalized against",
						Required: true,
					},
				},
			},
			{
				Name:   "rebuild-cache",
				Usage:  "Rebuild the persisted vector cache from storage",
				Action: rebuildCacheCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "cache",
						Usage:    "Path to the persisted vector cache file",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// embeddingFlags are the provider flags shared by commands that embed text.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Expected embedding vector length",
			Value: 768,
		},
	}
}

// openDatabase builds a Database from the shared CLI flags.
func openDatabase(c *cli.Context) (*skumatch.Database, error) {
	// Commands without provider flags fall back to the defaults
	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if dim := c.Int("dimension"); dim > 0 {
		configOpts = append(configOpts, ai.WithDimension(dim))
	}
	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []skumatch.DatabaseOption{skumatch.WithAIConfig(aiConfig)}
	if cache := c.String("cache"); cache != "" {
		opts = append(opts, skumatch.WithCachePath(cache))
	}

	db, err := skumatch.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	itemsPath := c.String("items")
	quotesPath := c.String("quotes")
	if itemsPath == "" && quotesPath == "" {
		return fmt.Errorf("at least one of --items or --quotes is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if itemsPath != "" {
		var items []*core.CatalogItem
		if err := readJSONFile(itemsPath, &items); err != nil {
			return fmt.Errorf("failed to read items file: %w", err)
		}

		imported, err := db.ImportItems(ctx, items...)
		if err != nil {
			return fmt.Errorf("failed to import items: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Imported %d catalog items\n", len(imported))
	}

	if quotesPath != "" {
		var quotes []*core.QuoteRecord
		if err := readJSONFile(quotesPath, &quotes); err != nil {
			return fmt.Errorf("failed to read quotes file: %w", err)
		}

		imported, err := db.ImportQuotes(ctx, quotes...)
		if err != nil {
			return fmt.Errorf("failed to import quotes: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Imported %d quote records\n", len(imported))
	}

	total, pending, err := db.ItemRepository().CountItems(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Catalog now holds %d items, %d awaiting embeddings\n", total, pending)

	return nil
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	// Create generation config
	config := &embedding.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Overwrite:      c.Bool("overwrite"),
	}

	// Validate config
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	generator, err := db.NewGenerator(
		embedding.WithConfig(config),
		embedding.WithProgress(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	defer generator.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	report, err := generator.Run(ctx)
	if err != nil {
		return fmt.Errorf("embedding generation failed: %w", err)
	}
	if report.FailureCount() > 0 {
		fmt.Fprintf(os.Stderr, "%d items did not get an embedding; rerun embed to retry them\n",
			report.FailureCount())
	}

	// Make the new vectors searchable
	entries, err := db.ReloadIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload index: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Vector index reloaded with %d entries\n", entries)

	return nil
}

func suggestCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("requirement text is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	// Without a warm cache the index has to be built from storage
	if !db.Index().Ready() {
		if _, err := db.ReloadIndex(ctx); err != nil {
			return fmt.Errorf("failed to load index: %w", err)
		}
	}

	matcher, err := db.NewMatcher(match.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}

	suggestions, err := matcher.SuggestOne(ctx, text)
	if err != nil {
		return fmt.Errorf("suggestion failed: %w", err)
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions found")
		return nil
	}

	for i, s := range suggestions {
		fmt.Printf("%d. %s  %s\n", i+1, s.SKU, s.ItemName)
		fmt.Printf("   score %.3f (%s)  similarity %.3f  history %.3f (%d selections)\n",
			s.Score, s.Confidence, s.VectorSimilarity, s.HistoryScore, s.HistoryFrequency)
		if s.Price != 0 {
			fmt.Printf("   price %.2f\n", s.Price)
		}
		for _, q := range s.LastQuotes {
			fmt.Printf("   quoted %.2f x%.0f for %s\n", q.Price, q.Quantity, q.Customer)
		}
	}

	return nil
}

func learnCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	recorder, err := db.NewRecorder()
	if err != nil {
		return fmt.Errorf("failed to create recorder: %w", err)
	}

	record, err := recorder.RecordSelection(ctx, c.String("requirement"), c.String("sku"))
	if err != nil {
		return fmt.Errorf("failed to record selection: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recorded %q -> %s (seen %d times)\n",
		record.Requirement, record.SKU, record.Frequency)

	return nil
}

func rebuildCacheCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.ReloadIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to rebuild cache: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Vector cache rebuilt with %d entries at %s\n", entries, c.String("cache"))

	return nil
}

// readJSONFile decodes a JSON file into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

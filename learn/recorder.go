package learn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage"
)

// Recorder writes finalized selections into the mapping history.
type Recorder struct {
	history storage.MappingHistoryRepository
	logger  *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRecorder creates a new selection recorder.
func NewRecorder(history storage.MappingHistoryRepository, opts ...Option) (*Recorder, error) {
	if history == nil {
		return nil, ErrMappingRepositoryRequired
	}

	r := &Recorder{
		history: history,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "learn-recorder")

	return r, nil
}

// RecordSelection increments the mapping counter for one finalized
// (requirement, sku) pair. The requirement text is normalized before the
// write; an empty normalization is rejected with core.ErrEmptyRequirement.
func (r *Recorder) RecordSelection(ctx context.Context, requirement, sku string) (*core.MappingRecord, error) {
	record, err := r.history.IncrementMapping(ctx, requirement, sku)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("selection recorded",
		"requirement", record.Requirement,
		"sku", record.SKU,
		"frequency", record.Frequency)
	return record, nil
}

// RecordSelections applies one increment per finalized line. Lines absent
// from selections are left alone. A failed line does not block the rest;
// the returned count is the number of increments applied and the error
// joins all per-line failures.
func (r *Recorder) RecordSelections(ctx context.Context, lines []*core.RequirementLine, selections map[int64]string) (int, error) {
	applied := 0
	var errs []error

	for _, line := range lines {
		if line == nil {
			continue
		}
		sku, ok := selections[line.Id]
		if !ok {
			continue
		}

		if _, err := r.RecordSelection(ctx, line.Text, sku); err != nil {
			r.logger.Error("failed to record selection", "lineId", line.Id, "sku", sku, "err", err)
			errs = append(errs, fmt.Errorf("line %d: %w", line.Id, err))
			continue
		}
		applied++
	}

	return applied, errors.Join(errs...)
}

package learn

import (
	"context"
	"testing"

	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRecorder(t *testing.T) (*Recorder, *badger.MemoryRepositories) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	recorder, err := NewRecorder(repos.Mappings)
	require.NoError(t, err)

	return recorder, repos
}

func TestNewRecorder_RequiresRepository(t *testing.T) {
	_, err := NewRecorder(nil)
	assert.ErrorIs(t, err, ErrMappingRepositoryRequired)
}

func TestRecordSelection(t *testing.T) {
	recorder, repos := setupRecorder(t)
	ctx := context.Background()

	record, err := recorder.RecordSelection(ctx, "Hex  Bolt M8", "A-1")
	require.NoError(t, err)
	assert.Equal(t, "hex bolt m8", record.Requirement)
	assert.Equal(t, uint64(1), record.Frequency)

	// A repeated submission legitimately counts again
	record, err = recorder.RecordSelection(ctx, "hex bolt m8", "A-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), record.Frequency)

	stored, err := repos.Mappings.GetMapping(ctx, "hex bolt m8", "A-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored.Frequency)
}

func TestRecordSelection_EmptyRequirement(t *testing.T) {
	recorder, _ := setupRecorder(t)

	_, err := recorder.RecordSelection(context.Background(), "   ", "A-1")
	assert.ErrorIs(t, err, core.ErrEmptyRequirement)
}

func TestRecordSelections(t *testing.T) {
	recorder, repos := setupRecorder(t)
	ctx := context.Background()

	lines := []*core.RequirementLine{
		{Id: 1, Text: "hex bolt m8"},
		{Id: 2, Text: "washer m8"},
		{Id: 3, Text: "lock nut m8"},
	}
	selections := map[int64]string{
		1: "A-1",
		3: "C-3",
		// line 2 was never finalized
	}

	applied, err := recorder.RecordSelections(ctx, lines, selections)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	record, err := repos.Mappings.GetMapping(ctx, "hex bolt m8", "A-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), record.Frequency)

	_, err = repos.Mappings.GetMapping(ctx, "washer m8", "A-1")
	assert.Error(t, err)
}

func TestRecordSelections_PartialFailure(t *testing.T) {
	recorder, repos := setupRecorder(t)
	ctx := context.Background()

	lines := []*core.RequirementLine{
		{Id: 1, Text: "   "}, // normalizes to empty, rejected
		{Id: 2, Text: "washer m8"},
	}
	selections := map[int64]string{
		1: "A-1",
		2: "B-2",
	}

	applied, err := recorder.RecordSelections(ctx, lines, selections)
	assert.ErrorIs(t, err, core.ErrEmptyRequirement)
	assert.Equal(t, 1, applied)

	// The valid line still landed
	record, lookupErr := repos.Mappings.GetMapping(ctx, "washer m8", "B-2")
	require.NoError(t, lookupErr)
	assert.Equal(t, uint64(1), record.Frequency)
}

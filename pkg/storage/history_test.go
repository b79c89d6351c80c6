package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragstack/rageval/pkg/config"
	"github.com/ragstack/rageval/pkg/errors"
	"github.com/ragstack/rageval/pkg/logger"
	"github.com/ragstack/rageval/pkg/types"
)

func openTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := OpenHistoryStore(&config.HistoryConfig{
		Enabled: true,
		Path:    filepath.Join(t.TempDir(), "history.db"),
	}, logger.NewTestLogger())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult(runID string) *types.EvaluationResult {
	return &types.EvaluationResult{
		RunID:   runID,
		Success: true,
		AggregateMetrics: types.AggregateMetrics{
			ContextPrecision: types.Float64Ptr(0.75),
			ContextRecall:    types.Float64Ptr(1.0),
			TotalSamples:     4,
		},
		Diagnostics: types.Diagnostics{SkippedSamples: 1},
		EvaluatedAt: time.Now().UTC(),
	}
}

func TestOpenHistoryStoreDisabled(t *testing.T) {
	store, err := OpenHistoryStore(nil, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = OpenHistoryStore(&config.HistoryConfig{Enabled: false}, logger.NewTestLogger())
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestStoreAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := sampleResult("run-abc")
	require.NoError(t, store.Store(ctx, result))

	run, err := store.Get(ctx, "run-abc")
	require.NoError(t, err)
	assert.True(t, run.Success)
	assert.Equal(t, 4, run.TotalSamples)
	assert.Equal(t, 1, run.SkippedSamples)
	require.NotNil(t, run.ContextPrecision)
	assert.Equal(t, 0.75, *run.ContextPrecision)

	decoded, err := run.Result()
	require.NoError(t, err)
	assert.Equal(t, result.RunID, decoded.RunID)
	assert.Equal(t, *result.ContextRecall, *decoded.ContextRecall)
}

func TestGetMissingRun(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestRecentOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		r := sampleResult(id)
		r.EvaluatedAt = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Store(ctx, r))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].RunID)
	assert.Equal(t, "run-2", runs[1].RunID)
}

func TestStoreRejectsDuplicateRunID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, sampleResult("run-dup")))
	err := store.Store(ctx, sampleResult("run-dup"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorageError))
}

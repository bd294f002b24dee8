package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/internal/errors"
)

func TestJobStoreRoundTrip(t *testing.T) {
	store := NewJobStore(time.Hour)
	ctx := context.Background()

	job := analysis.NewJob(core.DatasetID(core.NewID()))
	require.NoError(t, store.Put(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, analysis.StatusQueued, got.Status)
	assert.Equal(t, analysis.PhaseInitializing, got.CurrentPhase)
}

func TestJobStoreSnapshotIsolation(t *testing.T) {
	store := NewJobStore(time.Hour)
	ctx := context.Background()

	job := analysis.NewJob(core.DatasetID(core.NewID()))
	require.NoError(t, store.Put(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)

	// Mutating the live job must not leak into an already-read snapshot
	job.Status = analysis.StatusProcessing
	job.Progress = 30
	assert.Equal(t, analysis.StatusQueued, got.Status)
	assert.Equal(t, 0, got.Progress)
}

func TestJobStoreExpiry(t *testing.T) {
	store := NewJobStore(time.Hour)
	ctx := context.Background()

	job := analysis.NewJob(core.DatasetID(core.NewID()))
	require.NoError(t, store.Put(ctx, job))

	now := time.Now()
	store.kv.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, err := store.Get(ctx, job.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeJobNotFound, errors.GetCode(err))
}

func TestJobStoreUnknownID(t *testing.T) {
	store := NewJobStore(time.Hour)

	_, err := store.Get(context.Background(), core.JobID(core.NewID()))
	require.Error(t, err)
	assert.Equal(t, errors.CodeJobNotFound, errors.GetCode(err))
}

func sampleResult(datasetID core.DatasetID) *analysis.Result {
	return &analysis.Result{
		DatasetID: datasetID,
		Profile: &analysis.Profile{
			DatasetID: datasetID,
			Rows:      100,
			Columns:   4,
		},
		Statistics: &analysis.Statistics{
			DatasetID: datasetID,
			Numeric: map[string]analysis.NumericSummary{
				"age": {Count: 100, Mean: 42},
			},
		},
		Quality: &analysis.Quality{
			DatasetID: datasetID,
			Score:     95.5,
		},
		Correlations: &analysis.Correlations{
			DatasetID: datasetID,
			Type:      "pearson",
			Threshold: 0.3,
		},
		AnalyzedAt: time.Now().UTC(),
	}
}

func TestResultStoreCommitAndGet(t *testing.T) {
	store := NewResultStore(24 * time.Hour)
	ctx := context.Background()

	datasetID := core.DatasetID(core.NewID())
	require.NoError(t, store.Commit(ctx, sampleResult(datasetID)))

	profile, err := store.GetProfile(ctx, datasetID)
	require.NoError(t, err)
	assert.Equal(t, 100, profile.Rows)

	stats, err := store.GetStatistics(ctx, datasetID)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, stats.Numeric["age"].Mean, 1e-9)

	quality, err := store.GetQuality(ctx, datasetID)
	require.NoError(t, err)
	assert.InDelta(t, 95.5, quality.Score, 1e-9)

	corr, err := store.GetCorrelations(ctx, datasetID)
	require.NoError(t, err)
	assert.Equal(t, "pearson", corr.Type)
}

func TestResultStoreNotAnalyzed(t *testing.T) {
	store := NewResultStore(24 * time.Hour)
	ctx := context.Background()
	datasetID := core.DatasetID(core.NewID())

	for name, get := range map[string]func() error{
		"profile":      func() error { _, err := store.GetProfile(ctx, datasetID); return err },
		"statistics":   func() error { _, err := store.GetStatistics(ctx, datasetID); return err },
		"quality":      func() error { _, err := store.GetQuality(ctx, datasetID); return err },
		"correlations": func() error { _, err := store.GetCorrelations(ctx, datasetID); return err },
	} {
		err := get()
		require.Error(t, err, name)
		assert.Equal(t, errors.CodeNotAnalyzed, errors.GetCode(err), name)
	}
}

func TestResultStoreReanalysisOverwrites(t *testing.T) {
	store := NewResultStore(24 * time.Hour)
	ctx := context.Background()
	datasetID := core.DatasetID(core.NewID())

	first := sampleResult(datasetID)
	require.NoError(t, store.Commit(ctx, first))

	second := sampleResult(datasetID)
	second.Profile.Rows = 250
	require.NoError(t, store.Commit(ctx, second))

	profile, err := store.GetProfile(ctx, datasetID)
	require.NoError(t, err)
	assert.Equal(t, 250, profile.Rows)
}

func TestResultStoreExpiry(t *testing.T) {
	store := NewResultStore(24 * time.Hour)
	ctx := context.Background()
	datasetID := core.DatasetID(core.NewID())
	require.NoError(t, store.Commit(ctx, sampleResult(datasetID)))

	now := time.Now()
	store.kv.now = func() time.Time { return now.Add(25 * time.Hour) }

	_, err := store.GetProfile(ctx, datasetID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotAnalyzed, errors.GetCode(err))
}

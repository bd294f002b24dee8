// Package jobs owns the analysis job lifecycle: submission, background
// execution through the pipeline phases, and status polling. The manager
// is the only writer of job records; everything else reads snapshots.
package jobs

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/domain/table"
	"edakit/internal"
	"edakit/internal/correlation"
	"edakit/internal/errors"
	"edakit/internal/profiling"
	"edakit/internal/quality"
	"edakit/internal/statistics"
	"edakit/ports"
)

// Progress checkpoints reported as the pipeline advances
const (
	progressInitializing = 0
	progressLoading      = 10
	progressProfiling    = 30
	progressStatistics   = 55
	progressQuality      = 70
	progressCorrelation  = 90
	progressComplete     = 100
)

// Options tunes the manager
type Options struct {
	Workers              int
	CorrelationThreshold float64
	Statistics           statistics.Options
	ExecTimeout          time.Duration
}

// DefaultOptions returns single-worker defaults
func DefaultOptions() Options {
	return Options{
		Workers:              1,
		CorrelationThreshold: correlation.DefaultThreshold,
		Statistics:           statistics.DefaultOptions(),
		ExecTimeout:          10 * time.Minute,
	}
}

// Manager runs analysis jobs in the background and tracks their state
type Manager struct {
	registry ports.DatasetRegistry
	loader   ports.DatasetLoader
	jobs     ports.JobStore
	results  ports.ResultStore

	profiler   *profiling.Profiler
	statistics *statistics.Analyzer
	quality    *quality.Scorer
	corr       *correlation.Analyzer

	workers *semaphore.Weighted
	opts    Options
	logger  *internal.Logger

	// background is the context jobs run under, detached from the
	// submitting request
	background context.Context
}

// NewManager wires the pipeline stages behind a bounded worker pool
func NewManager(
	registry ports.DatasetRegistry,
	loader ports.DatasetLoader,
	jobs ports.JobStore,
	results ports.ResultStore,
	opts Options,
	logger *internal.Logger,
) *Manager {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Manager{
		registry:   registry,
		loader:     loader,
		jobs:       jobs,
		results:    results,
		profiler:   profiling.NewProfiler(),
		statistics: statistics.NewAnalyzer(opts.Statistics),
		quality:    quality.NewScorer(),
		corr:       correlation.NewAnalyzer(),
		workers:    semaphore.NewWeighted(int64(opts.Workers)),
		opts:       opts,
		logger:     logger.WithComponent("jobs"),
		background: context.Background(),
	}
}

// Submit validates the dataset reference, records a queued job, and
// schedules it for background execution. The returned snapshot is safe
// to serialize immediately.
func (m *Manager) Submit(ctx context.Context, datasetID core.DatasetID) (*analysis.Job, error) {
	if datasetID.IsEmpty() {
		return nil, errors.InvalidParameter("dataset ID is required")
	}
	if _, err := m.registry.Resolve(ctx, datasetID); err != nil {
		return nil, err
	}

	job := analysis.NewJob(datasetID)
	if err := m.jobs.Put(ctx, job); err != nil {
		return nil, err
	}

	snapshot := *job
	go m.run(job)

	m.logger.Info("job %s queued for dataset %s", job.ID, datasetID)
	return &snapshot, nil
}

// Poll returns the current snapshot of a job
func (m *Manager) Poll(ctx context.Context, id core.JobID) (*analysis.Job, error) {
	return m.jobs.Get(ctx, id)
}

// run acquires a worker slot and executes the job. Queued jobs hold
// their initial record until a slot frees up.
func (m *Manager) run(job *analysis.Job) {
	ctx, cancel := context.WithTimeout(m.background, m.opts.ExecTimeout)
	defer cancel()

	if err := m.workers.Acquire(ctx, 1); err != nil {
		m.fail(ctx, job, fmt.Sprintf("timed out waiting for a worker: %v", err))
		return
	}
	defer m.workers.Release(1)

	m.Execute(ctx, job)
}

// Execute drives one job through the full pipeline. It never returns an
// error; every failure path lands the job in the failed state instead.
func (m *Manager) Execute(ctx context.Context, job *analysis.Job) {
	defer func() {
		if r := recover(); r != nil {
			m.fail(ctx, job, fmt.Sprintf("analysis panicked: %v", r))
		}
	}()

	start := time.Now()

	// The job stays queued until the dataset is in hand: a load failure
	// moves it straight to failed without passing through processing.
	tbl, err := m.loader.Load(ctx, job.DatasetID)
	if err != nil {
		m.fail(ctx, job, err.Error())
		return
	}
	m.advance(ctx, job, analysis.PhaseDataLoading, progressLoading)

	profile := m.profilePhase(ctx, job, tbl)
	stats := m.statisticsPhase(ctx, job, tbl)
	qualityDoc := m.qualityPhase(ctx, job, profile, tbl)
	corr := m.correlationPhase(ctx, job, tbl)

	result := &analysis.Result{
		DatasetID:    job.DatasetID,
		Profile:      profile,
		Statistics:   stats,
		Quality:      qualityDoc,
		Correlations: corr,
		AnalyzedAt:   time.Now().UTC(),
	}
	if err := m.results.Commit(ctx, result); err != nil {
		m.fail(ctx, job, fmt.Sprintf("failed to store results: %v", err))
		return
	}

	job.Status = analysis.StatusCompleted
	job.CurrentPhase = analysis.PhaseComplete
	job.Progress = progressComplete
	job.UpdatedAt = time.Now().UTC()
	if err := m.jobs.Put(ctx, job); err != nil {
		m.logger.Error("job %s completed but status write failed: %v", job.ID, err)
		return
	}

	m.logger.Info("job %s completed in %s (%d rows, %d columns)",
		job.ID, time.Since(start).Round(time.Millisecond), tbl.Rows(), tbl.Cols())
}

func (m *Manager) profilePhase(ctx context.Context, job *analysis.Job, tbl *table.Table) *analysis.Profile {
	m.advance(ctx, job, analysis.PhaseProfiling, progressProfiling)
	return m.profiler.Profile(job.DatasetID, tbl)
}

func (m *Manager) statisticsPhase(ctx context.Context, job *analysis.Job, tbl *table.Table) *analysis.Statistics {
	m.advance(ctx, job, analysis.PhaseStatistics, progressStatistics)
	return m.statistics.Analyze(job.DatasetID, tbl)
}

func (m *Manager) qualityPhase(ctx context.Context, job *analysis.Job, profile *analysis.Profile, tbl *table.Table) *analysis.Quality {
	m.advance(ctx, job, analysis.PhaseQuality, progressQuality)
	return m.quality.Score(profile, tbl)
}

func (m *Manager) correlationPhase(ctx context.Context, job *analysis.Job, tbl *table.Table) *analysis.Correlations {
	m.advance(ctx, job, analysis.PhaseCorrelation, progressCorrelation)
	return m.corr.Analyze(job.DatasetID, tbl, m.opts.CorrelationThreshold)
}

// advance moves the job to the next phase. Processing begins on the
// first advance out of the queued state.
func (m *Manager) advance(ctx context.Context, job *analysis.Job, phase string, progress int) {
	job.Status = analysis.StatusProcessing
	job.CurrentPhase = phase
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC()
	if err := m.jobs.Put(ctx, job); err != nil {
		m.logger.Warn("job %s progress write failed at %s: %v", job.ID, phase, err)
	}
}

// fail lands the job in the failed terminal state with progress reset
func (m *Manager) fail(ctx context.Context, job *analysis.Job, message string) {
	job.Status = analysis.StatusFailed
	job.CurrentPhase = analysis.PhaseFailed
	job.Progress = 0
	job.Error = message
	job.UpdatedAt = time.Now().UTC()
	if err := m.jobs.Put(ctx, job); err != nil {
		m.logger.Error("job %s failed and status write also failed: %v", job.ID, err)
	}
	m.logger.Warn("job %s failed: %s", job.ID, message)
}

package ports

import (
	"context"

	"edakit/domain/analysis"
	"edakit/domain/core"
)

// JobStore persists job records under deterministic keys with a bounded
// time-to-live. A job evicted by expiry is indistinguishable from one
// that never existed.
type JobStore interface {
	Put(ctx context.Context, job *analysis.Job) error
	Get(ctx context.Context, id core.JobID) (*analysis.Job, error)
}

// ResultStore holds the four analysis documents keyed by dataset.
// Commit replaces the dataset's entry wholesale; concurrent writers for
// the same dataset must never interleave partial documents.
type ResultStore interface {
	Commit(ctx context.Context, res *analysis.Result) error
	GetProfile(ctx context.Context, id core.DatasetID) (*analysis.Profile, error)
	GetStatistics(ctx context.Context, id core.DatasetID) (*analysis.Statistics, error)
	GetQuality(ctx context.Context, id core.DatasetID) (*analysis.Quality, error)
	GetCorrelations(ctx context.Context, id core.DatasetID) (*analysis.Correlations, error)
}

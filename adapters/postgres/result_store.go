package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/internal/errors"
)

const (
	jobKeyPrefix          = "eda:job:"
	summaryKeyPrefix      = "eda:summary:"
	statisticsKeyPrefix   = "eda:statistics:"
	qualityKeyPrefix      = "eda:quality:"
	correlationsKeyPrefix = "eda:correlations:"
)

// JobStore persists job records in the keyed document table
type JobStore struct {
	db  *sqlx.DB
	ttl time.Duration
}

// NewJobStore creates a job store whose entries expire after ttl
func NewJobStore(db *sqlx.DB, ttl time.Duration) *JobStore {
	return &JobStore{db: db, ttl: ttl}
}

// Put stores a snapshot of the job, refreshing its expiry
func (s *JobStore) Put(ctx context.Context, job *analysis.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.StoreError("failed to encode job", err)
	}
	return upsertDocument(ctx, s.db, jobKeyPrefix+job.ID.String(), payload, time.Now().Add(s.ttl))
}

// Get returns the job or a JOB_NOT_FOUND error once it has expired
func (s *JobStore) Get(ctx context.Context, id core.JobID) (*analysis.Job, error) {
	payload, err := getDocument(ctx, s.db, jobKeyPrefix+id.String())
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.JobNotFound(id.String())
	}
	var job analysis.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, errors.StoreError("failed to decode job", err)
	}
	return &job, nil
}

// ResultStore persists the four analysis documents per dataset
type ResultStore struct {
	db  *sqlx.DB
	ttl time.Duration
}

// NewResultStore creates a result store whose entries expire after ttl
func NewResultStore(db *sqlx.DB, ttl time.Duration) *ResultStore {
	return &ResultStore{db: db, ttl: ttl}
}

// Commit writes all four documents of a run inside one transaction, so a
// reader either sees the full previous result or the full new one
func (s *ResultStore) Commit(ctx context.Context, res *analysis.Result) error {
	docs := map[string]interface{}{
		summaryKeyPrefix + res.DatasetID.String():      res.Profile,
		statisticsKeyPrefix + res.DatasetID.String():   res.Statistics,
		qualityKeyPrefix + res.DatasetID.String():      res.Quality,
		correlationsKeyPrefix + res.DatasetID.String(): res.Correlations,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.StoreError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	expires := time.Now().Add(s.ttl)
	for key, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return errors.StoreError(fmt.Sprintf("failed to encode %s", key), err)
		}
		if err := upsertDocument(ctx, tx, key, payload, expires); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StoreError("failed to commit result", err)
	}
	return nil
}

// GetProfile returns the stored profile or a NOT_ANALYZED error
func (s *ResultStore) GetProfile(ctx context.Context, id core.DatasetID) (*analysis.Profile, error) {
	var doc analysis.Profile
	if err := s.getDoc(ctx, summaryKeyPrefix+id.String(), id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetStatistics returns the stored statistics or a NOT_ANALYZED error
func (s *ResultStore) GetStatistics(ctx context.Context, id core.DatasetID) (*analysis.Statistics, error) {
	var doc analysis.Statistics
	if err := s.getDoc(ctx, statisticsKeyPrefix+id.String(), id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetQuality returns the stored quality report or a NOT_ANALYZED error
func (s *ResultStore) GetQuality(ctx context.Context, id core.DatasetID) (*analysis.Quality, error) {
	var doc analysis.Quality
	if err := s.getDoc(ctx, qualityKeyPrefix+id.String(), id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetCorrelations returns the stored correlation document or a NOT_ANALYZED error
func (s *ResultStore) GetCorrelations(ctx context.Context, id core.DatasetID) (*analysis.Correlations, error) {
	var doc analysis.Correlations
	if err := s.getDoc(ctx, correlationsKeyPrefix+id.String(), id, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *ResultStore) getDoc(ctx context.Context, key string, id core.DatasetID, out interface{}) error {
	payload, err := getDocument(ctx, s.db, key)
	if err != nil {
		return err
	}
	if payload == nil {
		return errors.NotAnalyzed(id.String())
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.StoreError(fmt.Sprintf("failed to decode %s", key), err)
	}
	return nil
}

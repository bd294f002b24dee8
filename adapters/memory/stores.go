// Package memory provides in-process implementations of the job and
// result stores. Entries are stored as JSON under the same keys the
// Postgres adapters use, so the two backends are interchangeable.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/internal/errors"
	"edakit/ports"
)

// Key scheme shared by every store backend
const (
	jobKeyPrefix          = "eda:job:"
	summaryKeyPrefix      = "eda:summary:"
	statisticsKeyPrefix   = "eda:statistics:"
	qualityKeyPrefix      = "eda:quality:"
	correlationsKeyPrefix = "eda:correlations:"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// kv is an expiring key-value map. Expired entries are dropped lazily on
// read and wholesale on write of a new key.
type kv struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func newKV(ttl time.Duration) *kv {
	return &kv{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *kv) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.StoreError(fmt.Sprintf("failed to encode %s", key), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// setAll stores several keys under one lock so readers never observe a
// partially written group
func (s *kv) setAll(pairs map[string]interface{}) error {
	encoded := make(map[string][]byte, len(pairs))
	for key, value := range pairs {
		data, err := json.Marshal(value)
		if err != nil {
			return errors.StoreError(fmt.Sprintf("failed to encode %s", key), err)
		}
		encoded[key] = data
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expires := s.now().Add(s.ttl)
	for key, data := range encoded {
		s.entries[key] = entry{data: data, expiresAt: expires}
	}
	return nil
}

func (s *kv) get(key string, out interface{}) (bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.data, out); err != nil {
		return false, errors.StoreError(fmt.Sprintf("failed to decode %s", key), err)
	}
	return true, nil
}

// JobStore keeps job records in memory with a bounded lifetime
type JobStore struct {
	kv *kv
}

// NewJobStore creates a job store whose entries expire after ttl
func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{kv: newKV(ttl)}
}

// Put stores a snapshot of the job, refreshing its expiry
func (s *JobStore) Put(_ context.Context, job *analysis.Job) error {
	return s.kv.set(jobKeyPrefix+job.ID.String(), job)
}

// Get returns the job or a JOB_NOT_FOUND error once it has expired
func (s *JobStore) Get(_ context.Context, id core.JobID) (*analysis.Job, error) {
	var job analysis.Job
	ok, err := s.kv.get(jobKeyPrefix+id.String(), &job)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.JobNotFound(id.String())
	}
	return &job, nil
}

// ResultStore keeps the four analysis documents in memory per dataset
type ResultStore struct {
	kv *kv
}

// NewResultStore creates a result store whose entries expire after ttl
func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{kv: newKV(ttl)}
}

// Commit stores all four documents of a run as one atomic group
func (s *ResultStore) Commit(_ context.Context, res *analysis.Result) error {
	id := res.DatasetID.String()
	return s.kv.setAll(map[string]interface{}{
		summaryKeyPrefix + id:      res.Profile,
		statisticsKeyPrefix + id:   res.Statistics,
		qualityKeyPrefix + id:      res.Quality,
		correlationsKeyPrefix + id: res.Correlations,
	})
}

// GetProfile returns the stored profile or a NOT_ANALYZED error
func (s *ResultStore) GetProfile(_ context.Context, id core.DatasetID) (*analysis.Profile, error) {
	var doc analysis.Profile
	ok, err := s.kv.get(summaryKeyPrefix+id.String(), &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotAnalyzed(id.String())
	}
	return &doc, nil
}

// GetStatistics returns the stored statistics or a NOT_ANALYZED error
func (s *ResultStore) GetStatistics(_ context.Context, id core.DatasetID) (*analysis.Statistics, error) {
	var doc analysis.Statistics
	ok, err := s.kv.get(statisticsKeyPrefix+id.String(), &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotAnalyzed(id.String())
	}
	return &doc, nil
}

// GetQuality returns the stored quality report or a NOT_ANALYZED error
func (s *ResultStore) GetQuality(_ context.Context, id core.DatasetID) (*analysis.Quality, error) {
	var doc analysis.Quality
	ok, err := s.kv.get(qualityKeyPrefix+id.String(), &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotAnalyzed(id.String())
	}
	return &doc, nil
}

// GetCorrelations returns the stored correlation document or a NOT_ANALYZED error
func (s *ResultStore) GetCorrelations(_ context.Context, id core.DatasetID) (*analysis.Correlations, error) {
	var doc analysis.Correlations
	ok, err := s.kv.get(correlationsKeyPrefix+id.String(), &doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotAnalyzed(id.String())
	}
	return &doc, nil
}

// Registry is an in-memory dataset registry for tests and single-process
// deployments
type Registry struct {
	mu      sync.RWMutex
	records map[core.DatasetID]ports.DatasetRecord
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{records: make(map[core.DatasetID]ports.DatasetRecord)}
}

// Register stores the record, replacing any previous one for the same ID
func (r *Registry) Register(_ context.Context, rec *ports.DatasetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

// Resolve returns the record or a DATASET_NOT_FOUND error
func (r *Registry) Resolve(_ context.Context, id core.DatasetID) (*ports.DatasetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, errors.DatasetNotFound(id.String())
	}
	return &rec, nil
}

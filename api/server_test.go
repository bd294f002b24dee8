package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edakit/adapters/memory"
	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/internal"
	"edakit/internal/jobs"
	"edakit/internal/testkit"
)

type testEnv struct {
	server  *Server
	results *memory.ResultStore
	manager *jobs.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	jobStore := memory.NewJobStore(time.Hour)
	results := memory.NewResultStore(time.Hour)
	manager := jobs.NewManager(
		testkit.StubRegistry{},
		&testkit.StubLoader{Table: testkit.SyntheticTable(100, 11)},
		jobStore,
		results,
		jobs.DefaultOptions(),
		internal.NewLogger(internal.LogLevelError),
	)
	server := NewServer(gin.TestMode, manager, results, map[string]HealthCheck{
		"job_store":    func(context.Context) error { return nil },
		"result_store": func(context.Context) error { return nil },
	}, internal.NewLogger(internal.LogLevelError))
	return &testEnv{server: server, results: results, manager: manager}
}

func (e *testEnv) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

// analyze runs a dataset through the whole pipeline so the result
// endpoints have something to serve
func (e *testEnv) analyze(t *testing.T) core.DatasetID {
	t.Helper()
	datasetID := core.DatasetID(core.NewID())

	rec := e.do(http.MethodPost, fmt.Sprintf("/api/eda/dataset/%s/analyze", datasetID))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp struct {
		JobID           string `json:"job_id"`
		Status          string `json:"status"`
		PollingEndpoint string `json:"polling_endpoint"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp.Status)
	assert.Equal(t, "/api/eda/jobs/"+resp.JobID, resp.PollingEndpoint)

	require.Eventually(t, func() bool {
		poll := e.do(http.MethodGet, resp.PollingEndpoint)
		if poll.Code != http.StatusOK {
			return false
		}
		var job analysis.Job
		if err := json.Unmarshal(poll.Body.Bytes(), &job); err != nil {
			return false
		}
		return job.Status == analysis.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond, "job never completed")

	return datasetID
}

func TestAnalyzeAndPollLifecycle(t *testing.T) {
	env := newTestEnv(t)
	datasetID := env.analyze(t)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/eda/%s/summary", datasetID))
	require.Equal(t, http.StatusOK, rec.Code)

	var profile analysis.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, 100, profile.Rows)
	assert.Equal(t, 5, profile.Columns)
}

func TestResultEndpointsServeStoredDocuments(t *testing.T) {
	env := newTestEnv(t)
	datasetID := env.analyze(t)

	for _, path := range []string{
		"statistics",
		"quality-report",
		"correlations",
		"correlations/vif",
		"correlations/heatmap-data",
		"correlations/clustering",
		"correlations/relationship-insights",
		"correlations/warnings",
		"correlations/complete",
	} {
		rec := env.do(http.MethodGet, fmt.Sprintf("/api/eda/%s/%s", datasetID, path))
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s: %s", path, rec.Body.String())
	}
}

func TestResultsBeforeAnalysisAre404(t *testing.T) {
	env := newTestEnv(t)
	datasetID := core.DatasetID(core.NewID())

	for _, path := range []string{"summary", "statistics", "quality-report", "correlations"} {
		rec := env.do(http.MethodGet, fmt.Sprintf("/api/eda/%s/%s", datasetID, path))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NOT_ANALYZED", body["code"], path)
	}
}

func TestUnknownJobIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/eda/jobs/"+core.NewID().String())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "JOB_NOT_FOUND", body["code"])
}

func TestCorrelationThresholdValidation(t *testing.T) {
	env := newTestEnv(t)
	datasetID := env.analyze(t)

	for _, bad := range []string{"1.5", "-0.1", "abc"} {
		rec := env.do(http.MethodGet,
			fmt.Sprintf("/api/eda/%s/correlations?threshold=%s", datasetID, bad))
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	// Validation fires before the store is consulted
	rec := env.do(http.MethodGet,
		fmt.Sprintf("/api/eda/%s/correlations?threshold=2", core.DatasetID(core.NewID())))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrelationThresholdRefiltersPairs(t *testing.T) {
	env := newTestEnv(t)
	datasetID := env.analyze(t)

	loose := env.do(http.MethodGet,
		fmt.Sprintf("/api/eda/%s/correlations?threshold=0.0", datasetID))
	require.Equal(t, http.StatusOK, loose.Code)
	var looseDoc analysis.Correlations
	require.NoError(t, json.Unmarshal(loose.Body.Bytes(), &looseDoc))

	strict := env.do(http.MethodGet,
		fmt.Sprintf("/api/eda/%s/correlations?threshold=0.99", datasetID))
	require.Equal(t, http.StatusOK, strict.Code)
	var strictDoc analysis.Correlations
	require.NoError(t, json.Unmarshal(strict.Body.Bytes(), &strictDoc))

	assert.GreaterOrEqual(t, len(looseDoc.Pairs), len(strictDoc.Pairs))
	for _, p := range strictDoc.Pairs {
		assert.GreaterOrEqual(t, absFloat(p.Correlation), 0.99)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/eda/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status     string                       `json:"status"`
		Components map[string]map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Components["job_store"]["status"])
	assert.Equal(t, "healthy", body.Components["result_store"]["status"])
}

func TestHealthReportsUnhealthyComponent(t *testing.T) {
	jobStore := memory.NewJobStore(time.Hour)
	results := memory.NewResultStore(time.Hour)
	manager := jobs.NewManager(testkit.StubRegistry{}, &testkit.StubLoader{},
		jobStore, results, jobs.DefaultOptions(), internal.NewLogger(internal.LogLevelError))
	server := NewServer(gin.TestMode, manager, results, map[string]HealthCheck{
		"database": func(context.Context) error { return fmt.Errorf("connection refused") },
	}, internal.NewLogger(internal.LogLevelError))

	req := httptest.NewRequest(http.MethodGet, "/api/eda/health", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

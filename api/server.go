// Package api exposes the analysis engine over HTTP. The layer is
// deliberately thin: parse and validate inputs, delegate to the job
// manager and result store, map error codes to status codes.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"edakit/internal"
	"edakit/internal/errors"
	"edakit/internal/jobs"
	"edakit/ports"
)

// HealthCheck probes one named component
type HealthCheck func(ctx context.Context) error

// Server hosts the analysis API
type Server struct {
	router  *gin.Engine
	manager *jobs.Manager
	results ports.ResultStore
	checks  map[string]HealthCheck
	logger  *internal.Logger
}

// NewServer wires the routes. ginMode should be one of gin.DebugMode,
// gin.ReleaseMode, or gin.TestMode.
func NewServer(ginMode string, manager *jobs.Manager, results ports.ResultStore, checks map[string]HealthCheck, logger *internal.Logger) *Server {
	gin.SetMode(ginMode)

	s := &Server{
		router:  gin.New(),
		manager: manager,
		results: results,
		checks:  checks,
		logger:  logger.WithComponent("api"),
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	eda := s.router.Group("/api/eda")
	{
		eda.POST("/dataset/:dataset_id/analyze", s.handleAnalyze)
		eda.GET("/jobs/:job_id", s.handleJobStatus)
		eda.GET("/health", s.handleHealth)

		eda.GET("/:dataset_id/summary", s.handleSummary)
		eda.GET("/:dataset_id/statistics", s.handleStatistics)
		eda.GET("/:dataset_id/quality-report", s.handleQualityReport)
		eda.GET("/:dataset_id/correlations", s.handleCorrelations)
		eda.GET("/:dataset_id/correlations/vif", s.handleVIF)
		eda.GET("/:dataset_id/correlations/heatmap-data", s.handleHeatmap)
		eda.GET("/:dataset_id/correlations/clustering", s.handleClustering)
		eda.GET("/:dataset_id/correlations/relationship-insights", s.handleInsights)
		eda.GET("/:dataset_id/correlations/warnings", s.handleWarnings)
		eda.GET("/:dataset_id/correlations/complete", s.handleCorrelationsComplete)
	}
}

// Router exposes the underlying engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the server on the given address
func (s *Server) Run(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// respondError maps application error codes to HTTP status codes
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidParameter:
		status = http.StatusBadRequest
	case errors.CodeDatasetNotFound, errors.CodeJobNotFound, errors.CodeNotAnalyzed:
		status = http.StatusNotFound
	case errors.CodeDatasetUnreadable:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}

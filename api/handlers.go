package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/internal/correlation"
	"edakit/internal/errors"
)

// handleAnalyze submits an analysis job for a dataset and returns 202
// with a polling endpoint
func (s *Server) handleAnalyze(c *gin.Context) {
	datasetID, err := core.ParseDatasetID(c.Param("dataset_id"))
	if err != nil {
		s.respondError(c, errors.InvalidParameter(err.Error()))
		return
	}

	job, err := s.manager.Submit(c.Request.Context(), datasetID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":           job.ID,
		"status":           job.Status,
		"dataset_id":       job.DatasetID,
		"created_at":       job.CreatedAt,
		"polling_endpoint": fmt.Sprintf("/api/eda/jobs/%s", job.ID),
	})
}

// handleJobStatus returns the current snapshot of a job
func (s *Server) handleJobStatus(c *gin.Context) {
	jobID, err := core.ParseJobID(c.Param("job_id"))
	if err != nil {
		s.respondError(c, errors.InvalidParameter(err.Error()))
		return
	}

	job, err := s.manager.Poll(c.Request.Context(), jobID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) datasetID(c *gin.Context) (core.DatasetID, bool) {
	id, err := core.ParseDatasetID(c.Param("dataset_id"))
	if err != nil {
		s.respondError(c, errors.InvalidParameter(err.Error()))
		return "", false
	}
	return id, true
}

func (s *Server) handleSummary(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	doc, err := s.results.GetProfile(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleStatistics(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	doc, err := s.results.GetStatistics(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleQualityReport(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	doc, err := s.results.GetQuality(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// handleCorrelations returns the correlation document, optionally
// re-filtering the pair list at a caller-supplied threshold
func (s *Server) handleCorrelations(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}

	threshold, hasThreshold, err := parseThreshold(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	doc, err := s.results.GetCorrelations(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if hasThreshold && threshold != doc.Threshold && len(doc.Columns) >= 2 {
		filtered := *doc
		filtered.Threshold = threshold
		filtered.Pairs = correlation.PairsFromMatrix(doc.Columns, doc.Matrix, threshold)
		doc = &filtered
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleVIF(c *gin.Context) {
	s.correlationSection(c, func(doc *analysis.Correlations) gin.H {
		return gin.H{
			"dataset_id": doc.DatasetID,
			"vif":        doc.VIF,
			"message":    doc.Message,
		}
	})
}

func (s *Server) handleHeatmap(c *gin.Context) {
	s.correlationSection(c, func(doc *analysis.Correlations) gin.H {
		return gin.H{
			"dataset_id": doc.DatasetID,
			"heatmap":    doc.Heatmap,
			"message":    doc.Message,
		}
	})
}

func (s *Server) handleClustering(c *gin.Context) {
	s.correlationSection(c, func(doc *analysis.Correlations) gin.H {
		return gin.H{
			"dataset_id":           doc.DatasetID,
			"clusters":             doc.Clusters,
			"independent_features": doc.Independent,
			"message":              doc.Message,
		}
	})
}

func (s *Server) handleInsights(c *gin.Context) {
	s.correlationSection(c, func(doc *analysis.Correlations) gin.H {
		return gin.H{
			"dataset_id": doc.DatasetID,
			"insights":   doc.Insights,
			"message":    doc.Message,
		}
	})
}

func (s *Server) handleWarnings(c *gin.Context) {
	s.correlationSection(c, func(doc *analysis.Correlations) gin.H {
		return gin.H{
			"dataset_id":         doc.DatasetID,
			"warnings":           doc.Warnings,
			"overall_assessment": doc.Assessment,
			"message":            doc.Message,
		}
	})
}

// handleCorrelationsComplete returns the full stored document untouched
func (s *Server) handleCorrelationsComplete(c *gin.Context) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	doc, err := s.results.GetCorrelations(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// correlationSection serves one projection of the correlation document
func (s *Server) correlationSection(c *gin.Context, project func(*analysis.Correlations) gin.H) {
	id, ok := s.datasetID(c)
	if !ok {
		return
	}
	doc, err := s.results.GetCorrelations(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project(doc))
}

// handleHealth probes each registered component
func (s *Server) handleHealth(c *gin.Context) {
	components := gin.H{}
	healthy := true
	for name, check := range s.checks {
		if err := check(c.Request.Context()); err != nil {
			components[name] = gin.H{"status": "unhealthy", "error": err.Error()}
			healthy = false
		} else {
			components[name] = gin.H{"status": "healthy"}
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}

// parseThreshold reads the optional threshold query parameter, rejecting
// values outside [0,1] before any store access
func parseThreshold(c *gin.Context) (float64, bool, error) {
	raw, present := c.GetQuery("threshold")
	if !present {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.InvalidParameter(fmt.Sprintf("threshold %q is not a number", raw))
	}
	if v < 0 || v > 1 {
		return 0, false, errors.InvalidParameter("threshold must be within [0,1]")
	}
	return v, true, nil
}

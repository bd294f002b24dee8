// Package quality derives completeness, uniqueness and consistency
// metrics and a composite quality score from the profile and the raw
// table.
package quality

import (
	"fmt"
	"math"

	"edakit/domain/analysis"
	"edakit/domain/table"
)

// Scorer computes the quality document
type Scorer struct{}

// NewScorer creates a new quality scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score builds the quality document from a profile and, when available,
// the raw table for per-column distinctness. A zero-row dataset scores
// 100 on every axis by convention (vacuously complete and unique).
func (s *Scorer) Score(profile *analysis.Profile, t *table.Table) *analysis.Quality {
	completeness := clampPct(100 - profile.MissingValues.Percent)
	uniqueness := s.uniqueness(profile, t)

	// Consistency is constant for a single tabular source: the columnar
	// model guarantees uniform row width. Extension point for
	// schema-conformance checks over heterogeneous sources.
	consistency := 100.0

	score := roundTo((completeness+uniqueness+consistency)/3, 2)

	q := &analysis.Quality{
		DatasetID:     profile.DatasetID,
		Completeness:  completeness,
		Uniqueness:    uniqueness,
		Consistency:   consistency,
		Score:         score,
		MissingCells:  profile.MissingValues.Count,
		DuplicateRows: profile.Duplicates.Count,
	}
	q.Checks = buildChecks(q, profile)
	q.Recommendations = buildRecommendations(q, profile)
	return q
}

// uniqueness averages each numeric column's distinct-value ratio. With
// no numeric columns it falls back to the duplicate-row complement.
func (s *Scorer) uniqueness(profile *analysis.Profile, t *table.Table) float64 {
	if profile.Rows == 0 {
		return 100
	}

	if t != nil && len(profile.NumericColumns) > 0 {
		var total float64
		counted := 0
		for _, name := range profile.NumericColumns {
			col, ok := t.Column(name)
			if !ok {
				continue
			}
			distinct := make(map[float64]struct{})
			for _, v := range col.Values {
				if f, present := v.Float(); present {
					distinct[f] = struct{}{}
				}
			}
			total += float64(len(distinct)) / float64(profile.Rows) * 100
			counted++
		}
		if counted > 0 {
			return clampPct(roundTo(total/float64(counted), 2))
		}
	}

	return clampPct(100 - profile.Duplicates.Percent)
}

// checkStatus maps a score to a pass/warn/fail label
func checkStatus(score float64) string {
	switch {
	case score >= 90:
		return "pass"
	case score >= 70:
		return "warn"
	default:
		return "fail"
	}
}

func buildChecks(q *analysis.Quality, profile *analysis.Profile) []analysis.QualityCheck {
	return []analysis.QualityCheck{
		{
			Name:    "Completeness",
			Status:  checkStatus(q.Completeness),
			Score:   q.Completeness,
			Details: fmt.Sprintf("%d missing cells (%.2f%% of the dataset)", q.MissingCells, profile.MissingValues.Percent),
		},
		{
			Name:    "Uniqueness",
			Status:  checkStatus(q.Uniqueness),
			Score:   q.Uniqueness,
			Details: fmt.Sprintf("%d duplicate rows (%.2f%%)", q.DuplicateRows, profile.Duplicates.Percent),
		},
		{
			Name:    "Consistency",
			Status:  checkStatus(q.Consistency),
			Score:   q.Consistency,
			Details: "uniform column count across all rows",
		},
	}
}

func buildRecommendations(q *analysis.Quality, profile *analysis.Profile) []string {
	var recs []string
	if q.Completeness < 95 {
		recs = append(recs, fmt.Sprintf("Impute or drop missing values: %.2f%% of cells are empty", profile.MissingValues.Percent))
	}
	if q.DuplicateRows > 0 {
		recs = append(recs, fmt.Sprintf("Remove %d duplicate rows before modeling", q.DuplicateRows))
	}
	if q.Uniqueness < 50 {
		recs = append(recs, "Low value diversity in numeric columns; verify the data covers the expected range")
	}
	return recs
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

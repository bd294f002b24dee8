package profiling

import (
	"math"
	"time"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/domain/table"
)

// Profiler computes the shape/quality overview of a dataset
type Profiler struct{}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Profile builds the profile document for a table. It tolerates zero-row
// and zero-column inputs; every percentage degenerates to 0 in that case.
func (p *Profiler) Profile(datasetID core.DatasetID, t *table.Table) *analysis.Profile {
	profile := &analysis.Profile{
		DatasetID:          datasetID,
		Rows:               t.Rows(),
		Columns:            t.Cols(),
		MemoryMB:           roundTo(float64(t.MemoryBytes())/(1024*1024), 2),
		DataTypes:          countDataTypes(t),
		MissingValues:      missingReport(t),
		Duplicates:         duplicateReport(t),
		NumericColumns:     t.NumericColumns(),
		CategoricalColumns: t.CategoricalColumns(),
		TemporalColumns:    t.TemporalColumns(),
		GeneratedAt:        time.Now().UTC(),
	}
	return profile
}

// countDataTypes tallies columns by inferred type
func countDataTypes(t *table.Table) map[string]int {
	counts := make(map[string]int)
	for _, col := range t.Columns() {
		counts[string(col.Type)]++
	}
	return counts
}

// missingReport counts missing cells overall and per column
func missingReport(t *table.Table) analysis.MissingReport {
	report := analysis.MissingReport{
		ByColumn:        make(map[string]int),
		ByColumnPercent: make(map[string]float64),
	}

	rows := t.Rows()
	for _, col := range t.Columns() {
		missing := col.MissingCount()
		report.Count += missing
		report.ByColumn[col.Name] = missing
		if rows > 0 {
			report.ByColumnPercent[col.Name] = roundTo(float64(missing)/float64(rows)*100, 2)
		} else {
			report.ByColumnPercent[col.Name] = 0
		}
	}

	totalCells := rows * t.Cols()
	if totalCells > 0 {
		report.Percent = roundTo(float64(report.Count)/float64(totalCells)*100, 2)
	}
	return report
}

// duplicateReport counts rows whose every column value repeats an earlier row
func duplicateReport(t *table.Table) analysis.DuplicateReport {
	report := analysis.DuplicateReport{}
	rows := t.Rows()
	if rows == 0 || t.Cols() == 0 {
		return report
	}

	seen := make(map[string]struct{}, rows)
	for i := 0; i < rows; i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			report.Count++
		} else {
			seen[key] = struct{}{}
		}
	}
	report.Percent = roundTo(float64(report.Count)/float64(rows)*100, 2)
	return report
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

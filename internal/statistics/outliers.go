package statistics

import (
	"sort"

	"edakit/domain/analysis"
)

// maxOutlierIndices caps the reported row indices per column
const maxOutlierIndices = 100

// detectOutliers applies the IQR rule: values beyond Q1-1.5*IQR or
// Q3+1.5*IQR are flagged. Columns with fewer than 4 non-missing values
// are skipped, there is not enough data to estimate quartiles.
func detectOutliers(column string, values []float64, rows []int) (analysis.OutlierReport, bool) {
	if len(values) < 4 {
		return analysis.OutlierReport{}, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	report := analysis.OutlierReport{
		Column:     column,
		LowerBound: lower,
		UpperBound: upper,
		IQR:        iqr,
	}

	var minOut, maxOut float64
	for i, v := range values {
		if v < lower || v > upper {
			if report.Count == 0 || v < minOut {
				minOut = v
			}
			if report.Count == 0 || v > maxOut {
				maxOut = v
			}
			report.Count++
			if len(report.Indices) < maxOutlierIndices {
				report.Indices = append(report.Indices, rows[i])
			}
		}
	}

	report.Percent = roundTo(float64(report.Count)/float64(len(values))*100, 2)
	if report.Count > 0 {
		report.MinOutlier = &minOut
		report.MaxOutlier = &maxOut
	}
	return report, true
}

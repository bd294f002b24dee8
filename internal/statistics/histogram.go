package statistics

import (
	"fmt"
	"math"
	"strconv"

	"edakit/domain/analysis"
)

// buildHistogram bins non-missing values into fixed-width bins over the
// observed [min, max] range. Bin labels are the human-readable range
// rounded to two decimals; the final bin is closed on the right so the
// maximum lands in it.
func buildHistogram(column string, values []float64, bins int) (analysis.Histogram, bool) {
	if len(values) == 0 || bins < 1 {
		return analysis.Histogram{}, false
	}

	summary, _ := numericSummary(values)

	min, max := summary.Min, summary.Max
	width := (max - min) / float64(bins)
	if width == 0 {
		// Constant column: a single degenerate bin holds everything
		edges := []float64{min, max}
		return analysis.Histogram{
			Column:      column,
			Bins:        []string{binLabel(min, max)},
			Frequencies: []int{len(values)},
			BinEdges:    edges,
			TotalCount:  len(values),
			Summary:     summary,
		}, true
	}

	edges := make([]float64, bins+1)
	for i := 0; i <= bins; i++ {
		edges[i] = min + float64(i)*width
	}
	edges[bins] = max

	frequencies := make([]int, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		frequencies[idx]++
	}

	labels := make([]string, bins)
	for i := 0; i < bins; i++ {
		labels[i] = binLabel(edges[i], edges[i+1])
	}

	return analysis.Histogram{
		Column:      column,
		Bins:        labels,
		Frequencies: frequencies,
		BinEdges:    edges,
		TotalCount:  len(values),
		Summary:     summary,
	}, true
}

func binLabel(start, end float64) string {
	return fmt.Sprintf("%s-%s", trimZeros(start), trimZeros(end))
}

func trimZeros(v float64) string {
	rounded := math.Round(v*100) / 100
	// Fixed notation: large edges must read "1000000", never "1e+06"
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

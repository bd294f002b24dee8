package statistics

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"edakit/domain/analysis"
)

// numericSummary computes descriptive statistics for non-missing values.
// Standard deviation is the unbiased sample estimate; quartiles use
// linear interpolation at position (n-1)*p, matching how the rest of the
// document (histograms, outlier fences) positions its quantiles.
func numericSummary(values []float64) (analysis.NumericSummary, bool) {
	if len(values) == 0 {
		return analysis.NumericSummary{}, false
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	stdDev, _ := stats.StandardDeviationSample(values)
	if len(values) == 1 {
		stdDev = 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return analysis.NumericSummary{
		Count:  len(values),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Q1:     quantile(sorted, 0.25),
		Q3:     quantile(sorted, 0.75),
	}, true
}

// quantile linearly interpolates the p-quantile of sorted data
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// calculateSkewness computes the adjusted Fisher-Pearson skewness coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations * n / ((n - 1) * (n - 2))
	return skewness
}

// calculateKurtosis computes the bias-corrected excess kurtosis
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumFourthDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumFourthDeviations += deviation * deviation * deviation * deviation
	}

	term := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3))
	correction := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return term*sumFourthDeviations - correction
}

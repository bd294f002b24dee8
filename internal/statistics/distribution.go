package statistics

import (
	"math"

	"github.com/montanaflynn/stats"

	"edakit/domain/analysis"
)

// Distribution classification boundaries on skewness and excess kurtosis
const shapeBoundary = 0.5

// minDistributionSamples is the smallest column worth classifying
const minDistributionSamples = 10

// classifyDistribution derives the distribution shape of a column from
// its skewness and excess kurtosis
func classifyDistribution(column string, values []float64) (analysis.DistributionShape, bool) {
	if len(values) < minDistributionSamples {
		return analysis.DistributionShape{}, false
	}

	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationSample(values)
	if stdDev == 0 || math.IsNaN(stdDev) {
		return analysis.DistributionShape{}, false
	}

	skewness := calculateSkewness(values, mean, stdDev)
	kurtosis := calculateKurtosis(values, mean, stdDev)

	var skewLabel string
	switch {
	case math.Abs(skewness) < shapeBoundary:
		skewLabel = "Approximately Symmetric"
	case skewness > 0:
		skewLabel = "Right-skewed (Positive skew)"
	default:
		skewLabel = "Left-skewed (Negative skew)"
	}

	var kurtosisLabel string
	switch {
	case math.Abs(kurtosis) < shapeBoundary:
		kurtosisLabel = "Mesokurtic (normal-like)"
	case kurtosis > 0:
		kurtosisLabel = "Leptokurtic (heavy tails)"
	default:
		kurtosisLabel = "Platykurtic (light tails)"
	}

	return analysis.DistributionShape{
		Column:        column,
		Skewness:      skewness,
		Kurtosis:      kurtosis,
		SkewLabel:     skewLabel,
		KurtosisLabel: kurtosisLabel,
	}, true
}

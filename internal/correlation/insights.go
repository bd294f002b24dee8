package correlation

import (
	"math"

	"edakit/domain/analysis"
)

// Insight list sizes and the near-zero band for "uncorrelated"
const (
	insightTopK       = 5
	nearZeroThreshold = 0.1
)

// buildInsights surfaces the strongest positive and negative pairs, the
// effectively uncorrelated pairs, and a per-column connectivity count of
// pairs that clear the caller's threshold
func buildInsights(pairs []analysis.CorrelationPair, threshold float64) analysis.Insights {
	insights := analysis.Insights{
		TopPositive:  []analysis.CorrelationPair{},
		TopNegative:  []analysis.CorrelationPair{},
		Uncorrelated: []analysis.CorrelationPair{},
		Connectivity: make(map[string]int),
	}

	// pairs arrive sorted by descending |r|, so a single pass collects
	// each list in order
	for _, p := range pairs {
		switch {
		case p.Correlation > 0 && len(insights.TopPositive) < insightTopK && math.Abs(p.Correlation) >= nearZeroThreshold:
			insights.TopPositive = append(insights.TopPositive, p)
		case p.Correlation < 0 && len(insights.TopNegative) < insightTopK && math.Abs(p.Correlation) >= nearZeroThreshold:
			insights.TopNegative = append(insights.TopNegative, p)
		}
		if math.Abs(p.Correlation) < nearZeroThreshold {
			insights.Uncorrelated = append(insights.Uncorrelated, p)
		}
		if math.Abs(p.Correlation) >= threshold {
			insights.Connectivity[p.Column1]++
			insights.Connectivity[p.Column2]++
		}
	}

	return insights
}

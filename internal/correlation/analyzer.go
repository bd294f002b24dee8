// Package correlation computes the multi-faceted correlation document:
// the pairwise Pearson matrix with significance, threshold-filtered pair
// lists, VIF multicollinearity scores, heatmap data, correlation-based
// feature clustering, relationship insights and multicollinearity
// warnings.
package correlation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/domain/table"
)

// DefaultThreshold is the service default for the filtered pair list
const DefaultThreshold = 0.3

// minPairSamples is the smallest aligned sample a pair can be computed on
const minPairSamples = 3

// Analyzer computes the correlation document for a dataset
type Analyzer struct{}

// NewAnalyzer creates a correlation analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze builds the full correlation document. Fewer than 2 numeric
// columns yields an empty annotated result rather than an error.
func (a *Analyzer) Analyze(datasetID core.DatasetID, t *table.Table, threshold float64) *analysis.Correlations {
	doc := &analysis.Correlations{
		DatasetID:            datasetID,
		Type:                 "pearson",
		Threshold:            threshold,
		StrengthDistribution: make(map[string]int),
	}

	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		doc.Message = "Need at least 2 numeric columns"
		return doc
	}
	doc.Columns = numeric

	// Full pairwise pass: every unordered pair, aligned on rows where
	// both columns are non-missing
	index := make(map[string]int, len(numeric))
	for i, name := range numeric {
		index[name] = i
	}

	matrix := identityMatrix(len(numeric))
	var allPairs []analysis.CorrelationPair

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			colX, _ := t.Column(numeric[i])
			colY, _ := t.Column(numeric[j])

			pair, err := pearsonPair(numeric[i], numeric[j], colX, colY)
			if err != nil {
				doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
					Column:   fmt.Sprintf("%s/%s", numeric[i], numeric[j]),
					Analysis: "pearson",
					Reason:   err.Error(),
				})
				continue
			}

			matrix[i][j] = pair.Correlation
			matrix[j][i] = pair.Correlation
			allPairs = append(allPairs, pair)
			doc.StrengthDistribution[pair.Strength]++
		}
	}

	doc.Matrix = matrix
	doc.Heatmap = buildHeatmap(numeric, matrix)

	sortByAbsCorrelation(allPairs)
	doc.Pairs = filterPairs(allPairs, threshold)
	doc.HighPairs = filterPairs(allPairs, 0.7)
	doc.VeryHighPairs = filterPairs(allPairs, 0.9)

	doc.VIF = computeVIF(t, numeric, doc)
	doc.Clusters, doc.Independent = clusterFeatures(numeric, matrix)
	doc.Insights = buildInsights(allPairs, threshold)
	doc.Warnings, doc.Assessment = buildWarnings(doc.VIF, allPairs)

	return doc
}

// PairsFromMatrix rebuilds a threshold-filtered pair list from a stored
// correlation matrix. Significance is not recoverable from the matrix
// alone, so the rebuilt pairs carry no p-values.
func PairsFromMatrix(columns []string, matrix [][]float64, threshold float64) []analysis.CorrelationPair {
	var pairs []analysis.CorrelationPair
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			r := matrix[i][j]
			pairs = append(pairs, analysis.CorrelationPair{
				Column1:     columns[i],
				Column2:     columns[j],
				Correlation: r,
				Strength:    StrengthLabel(r),
			})
		}
	}
	sortByAbsCorrelation(pairs)
	return filterPairs(pairs, threshold)
}

// pearsonPair computes the Pearson correlation and its two-tailed
// significance for one column pair
func pearsonPair(nameX, nameY string, colX, colY *table.Column) (analysis.CorrelationPair, error) {
	x, y := alignedValues(colX, colY)
	if len(x) < minPairSamples {
		return analysis.CorrelationPair{}, fmt.Errorf("need %d aligned samples, have %d", minPairSamples, len(x))
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return analysis.CorrelationPair{}, fmt.Errorf("undefined correlation, zero variance")
	}
	// Guard against accumulation error pushing |r| past 1
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	pair := analysis.CorrelationPair{
		Column1:     nameX,
		Column2:     nameY,
		Correlation: roundTo(r, 4),
		Strength:    StrengthLabel(r),
	}

	if p, ok := pearsonPValue(r, len(x)); ok {
		rounded := roundTo(p, 4)
		pair.PValue = &rounded
		pair.Significant = p < 0.05
	}
	return pair, nil
}

// alignedValues returns the rows where both columns hold numeric values
func alignedValues(colX, colY *table.Column) ([]float64, []float64) {
	var x, y []float64
	n := len(colX.Values)
	if len(colY.Values) < n {
		n = len(colY.Values)
	}
	for i := 0; i < n; i++ {
		fx, okX := colX.Values[i].Float()
		fy, okY := colY.Values[i].Float()
		if okX && okY {
			x = append(x, fx)
			y = append(y, fy)
		}
	}
	return x, y
}

// pearsonPValue computes the two-tailed p-value via the t-distribution
// with n-2 degrees of freedom
func pearsonPValue(r float64, n int) (float64, bool) {
	if n < 3 {
		return 0, false
	}
	if math.Abs(r) >= 1 {
		return 0, true
	}
	tStat := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - dist.CDF(math.Abs(tStat)))
	if p < 0 {
		p = 0
	}
	return p, true
}

// StrengthLabel maps absolute correlation magnitude to a label
func StrengthLabel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs >= 0.8:
		return "Very Strong"
	case abs >= 0.6:
		return "Strong"
	case abs >= 0.4:
		return "Moderate"
	case abs >= 0.2:
		return "Weak"
	default:
		return "Very Weak"
	}
}

// filterPairs keeps pairs with |r| at or above the threshold. Input must
// already be sorted by absolute correlation.
func filterPairs(pairs []analysis.CorrelationPair, threshold float64) []analysis.CorrelationPair {
	out := []analysis.CorrelationPair{}
	for _, p := range pairs {
		if math.Abs(p.Correlation) >= threshold {
			out = append(out, p)
		}
	}
	return out
}

// sortByAbsCorrelation orders pairs by descending |r|, breaking ties by
// column names for determinism
func sortByAbsCorrelation(pairs []analysis.CorrelationPair) {
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].Correlation), math.Abs(pairs[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		if pairs[i].Column1 != pairs[j].Column1 {
			return pairs[i].Column1 < pairs[j].Column1
		}
		return pairs[i].Column2 < pairs[j].Column2
	})
}

// buildHeatmap packages the matrix with its column ordering and range
func buildHeatmap(columns []string, matrix [][]float64) analysis.Heatmap {
	min, max := 1.0, 1.0
	for i := range matrix {
		for j := range matrix[i] {
			if i == j {
				continue
			}
			if matrix[i][j] < min {
				min = matrix[i][j]
			}
			if matrix[i][j] > max {
				max = matrix[i][j]
			}
		}
	}
	return analysis.Heatmap{
		Columns: columns,
		Matrix:  matrix,
		Min:     min,
		Max:     max,
	}
}

func identityMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

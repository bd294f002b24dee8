// Package statistics computes the per-column descriptive statistics
// document: numeric and categorical summaries, histogram binning, IQR
// outlier detection, Shapiro-Wilk normality testing and distribution
// classification. Every per-column computation is best-effort; a column
// that cannot be analyzed is recorded as skipped with a reason and never
// aborts the rest of the document.
package statistics

import (
	"fmt"
	"math"

	"edakit/domain/analysis"
	"edakit/domain/core"
	"edakit/domain/table"
)

// Options control histogram and categorical output sizes
type Options struct {
	HistogramBins   int
	CategoricalTopN int
}

// DefaultOptions returns the service defaults
func DefaultOptions() Options {
	return Options{HistogramBins: 10, CategoricalTopN: 10}
}

// Analyzer computes the statistics document for a dataset
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates an analyzer with the given options; zero-valued
// options fall back to defaults
func NewAnalyzer(opts Options) *Analyzer {
	if opts.HistogramBins < 1 {
		opts.HistogramBins = DefaultOptions().HistogramBins
	}
	if opts.CategoricalTopN < 1 {
		opts.CategoricalTopN = DefaultOptions().CategoricalTopN
	}
	return &Analyzer{opts: opts}
}

// Analyze builds the full statistics document for a table
func (a *Analyzer) Analyze(datasetID core.DatasetID, t *table.Table) *analysis.Statistics {
	doc := &analysis.Statistics{
		DatasetID:     datasetID,
		Numeric:       make(map[string]analysis.NumericSummary),
		Categorical:   make(map[string]analysis.CategoricalSummary),
		Histograms:    make(map[string]analysis.Histogram),
		Outliers:      make(map[string]analysis.OutlierReport),
		Normality:     make(map[string]analysis.NormalityTest),
		Distributions: make(map[string]analysis.DistributionShape),
	}

	for _, name := range t.NumericColumns() {
		col, _ := t.Column(name)
		a.analyzeNumeric(doc, col)
	}

	for _, name := range t.CategoricalColumns() {
		col, _ := t.Column(name)
		doc.Categorical[name] = categoricalSummary(col, t.Rows(), a.opts.CategoricalTopN)
	}

	return doc
}

// analyzeNumeric runs every numeric sub-analysis for one column,
// recording skips instead of failing
func (a *Analyzer) analyzeNumeric(doc *analysis.Statistics, col *table.Column) {
	values, rows := col.Floats()

	if summary, ok := numericSummary(values); ok {
		doc.Numeric[col.Name] = summary
	} else {
		doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
			Column: col.Name, Analysis: "summary", Reason: "no non-missing values",
		})
		return
	}

	if hist, ok := buildHistogram(col.Name, values, a.opts.HistogramBins); ok {
		doc.Histograms[col.Name] = hist
	}

	if outliers, ok := detectOutliers(col.Name, values, rows); ok {
		doc.Outliers[col.Name] = outliers
	} else {
		doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
			Column: col.Name, Analysis: "outliers",
			Reason: fmt.Sprintf("need at least 4 non-missing values, have %d", len(values)),
		})
	}

	a.testNormality(doc, col.Name, values)

	if shape, ok := classifyDistribution(col.Name, values); ok {
		doc.Distributions[col.Name] = shape
	} else {
		doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
			Column: col.Name, Analysis: "distribution",
			Reason: "fewer than 10 values or zero variance",
		})
	}
}

// testNormality runs Shapiro-Wilk, subsampling oversized columns with a
// fixed seed so repeated runs agree
func (a *Analyzer) testNormality(doc *analysis.Statistics, column string, values []float64) {
	if len(values) < shapiroMinSamples {
		doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
			Column: column, Analysis: "normality",
			Reason: fmt.Sprintf("need at least %d values, have %d", shapiroMinSamples, len(values)),
		})
		return
	}

	sample := subsample(values, shapiroMaxSamples)
	w, p, err := shapiroWilk(sample)
	if err != nil {
		doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
			Column: column, Analysis: "normality", Reason: err.Error(),
		})
		return
	}

	isNormal := p > 0.05
	interpretation := "Not normally distributed"
	if isNormal {
		interpretation = "Approximately normal"
	}

	doc.Normality[column] = analysis.NormalityTest{
		Column:         column,
		Test:           "Shapiro-Wilk",
		Statistic:      w,
		PValue:         p,
		IsNormal:       isNormal,
		Interpretation: interpretation,
		SampleSize:     len(sample),
	}
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

package correlation

import (
	"testing"

	"edakit/domain/analysis"
)

func TestClusterFeaturesGroupsCorrelatedBlock(t *testing.T) {
	columns := []string{"a", "b", "c", "d"}
	// a/b/c mutually correlated at 0.9; d independent
	matrix := [][]float64{
		{1, 0.9, 0.9, 0.05},
		{0.9, 1, 0.9, 0.05},
		{0.9, 0.9, 1, 0.05},
		{0.05, 0.05, 0.05, 1},
	}

	clusters, independent := clusterFeatures(columns, matrix)

	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	cluster := clusters[0]
	if cluster.ID != 1 {
		t.Errorf("cluster ID = %d, want 1", cluster.ID)
	}
	if len(cluster.Columns) != 3 {
		t.Fatalf("cluster size = %d, want 3", len(cluster.Columns))
	}
	for i, want := range []string{"a", "b", "c"} {
		if cluster.Columns[i] != want {
			t.Errorf("cluster member %d = %q, want %q", i, cluster.Columns[i], want)
		}
	}
	if !almostEqual(cluster.AvgCorrelation, 0.9, 1e-9) {
		t.Errorf("AvgCorrelation = %f, want 0.9", cluster.AvgCorrelation)
	}

	if len(independent) != 1 || independent[0] != "d" {
		t.Errorf("independent = %v, want [d]", independent)
	}
}

func TestClusterFeaturesNegativeCorrelationCounts(t *testing.T) {
	// Clustering works on |r|, so a perfect inverse pair clusters together
	columns := []string{"up", "down"}
	matrix := [][]float64{
		{1, -0.95},
		{-0.95, 1},
	}

	clusters, independent := clusterFeatures(columns, matrix)

	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if len(independent) != 0 {
		t.Errorf("independent = %v, want none", independent)
	}
	if !almostEqual(clusters[0].AvgCorrelation, 0.95, 1e-9) {
		t.Errorf("AvgCorrelation = %f, want 0.95 (absolute value)", clusters[0].AvgCorrelation)
	}
}

func TestClusterFeaturesAllIndependent(t *testing.T) {
	columns := []string{"a", "b", "c"}
	matrix := [][]float64{
		{1, 0.1, 0.2},
		{0.1, 1, 0.15},
		{0.2, 0.15, 1},
	}

	clusters, independent := clusterFeatures(columns, matrix)

	if len(clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(clusters))
	}
	if len(independent) != 3 {
		t.Errorf("independent count = %d, want 3", len(independent))
	}
}

func TestClusterFeaturesTooFewColumns(t *testing.T) {
	clusters, independent := clusterFeatures([]string{"only"}, [][]float64{{1}})
	if clusters != nil || independent != nil {
		t.Error("single column yields no clustering output")
	}
}

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestBuildInsightsSeparatesDirections(t *testing.T) {
	pairs := []analysis.CorrelationPair{
		{Column1: "a", Column2: "b", Correlation: 0.95},
		{Column1: "a", Column2: "c", Correlation: -0.85},
		{Column1: "b", Column2: "c", Correlation: 0.45},
		{Column1: "c", Column2: "d", Correlation: 0.05},
	}

	insights := buildInsights(pairs, 0.3)

	if len(insights.TopPositive) != 2 {
		t.Errorf("TopPositive = %d entries, want 2", len(insights.TopPositive))
	}
	if len(insights.TopNegative) != 1 {
		t.Errorf("TopNegative = %d entries, want 1", len(insights.TopNegative))
	}
	if len(insights.Uncorrelated) != 1 || insights.Uncorrelated[0].Column2 != "d" {
		t.Errorf("Uncorrelated = %v, want the c/d pair", insights.Uncorrelated)
	}

	// Connectivity counts pairs at or above the threshold per column
	if insights.Connectivity["a"] != 2 {
		t.Errorf("Connectivity[a] = %d, want 2", insights.Connectivity["a"])
	}
	if insights.Connectivity["c"] != 2 {
		t.Errorf("Connectivity[c] = %d, want 2", insights.Connectivity["c"])
	}
	if insights.Connectivity["d"] != 0 {
		t.Errorf("Connectivity[d] = %d, want 0", insights.Connectivity["d"])
	}
}

func TestBuildWarningsFromVIFAndPairs(t *testing.T) {
	high := 12.5
	moderate := 7.0
	vif := []analysis.VIFScore{
		{Column: "x", Score: &high, Severity: "high"},
		{Column: "y", Score: &moderate, Severity: "moderate"},
		{Column: "z", Infinite: true, Severity: "high"},
	}
	pairs := []analysis.CorrelationPair{
		{Column1: "x", Column2: "w", Correlation: 0.95},
		{Column1: "y", Column2: "w", Correlation: 0.5},
	}

	warnings, overall := buildWarnings(vif, pairs)

	// high VIF + infinite VIF + moderate VIF + one pair above 0.9
	if len(warnings) != 4 {
		t.Fatalf("got %d warnings, want 4", len(warnings))
	}

	highCount := 0
	for _, w := range warnings {
		if w.Severity == "high" {
			highCount++
		}
		if w.Recommendation == "" || w.Detail == "" {
			t.Error("warnings must carry detail and recommendation text")
		}
	}
	if highCount != 3 {
		t.Errorf("high-severity count = %d, want 3", highCount)
	}

	if overall != "High multicollinearity detected (3 high-severity findings); address before regression modeling" {
		t.Errorf("assessment = %q", overall)
	}
}

func TestBuildWarningsCleanData(t *testing.T) {
	low := 1.2
	vif := []analysis.VIFScore{{Column: "x", Score: &low, Severity: "acceptable"}}
	pairs := []analysis.CorrelationPair{{Column1: "x", Column2: "y", Correlation: 0.4}}

	warnings, overall := buildWarnings(vif, pairs)

	if len(warnings) != 0 {
		t.Errorf("got %d warnings, want 0", len(warnings))
	}
	if overall != "No concerning multicollinearity detected" {
		t.Errorf("assessment = %q", overall)
	}
}

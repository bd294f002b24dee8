package statistics

import "testing"

func TestDetectOutliersFindsExtremes(t *testing.T) {
	values := []float64{10, 12, 11, 13, 12, 11, 10, 12, 100}
	rows := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}

	report, ok := detectOutliers("x", values, rows)
	if !ok {
		t.Fatal("expected an outlier report")
	}

	if report.Count != 1 {
		t.Fatalf("Count = %d, want 1", report.Count)
	}
	if len(report.Indices) != 1 || report.Indices[0] != 8 {
		t.Errorf("Indices = %v, want [8]", report.Indices)
	}
	if report.MinOutlier == nil || *report.MinOutlier != 100 {
		t.Error("MinOutlier should be 100")
	}
	if report.MaxOutlier == nil || *report.MaxOutlier != 100 {
		t.Error("MaxOutlier should be 100")
	}
	if report.IQR <= 0 {
		t.Errorf("IQR = %f, want > 0", report.IQR)
	}
	if !almostEqual(report.Percent, 11.11, 0.01) {
		t.Errorf("Percent = %f, want about 11.11", report.Percent)
	}
}

func TestDetectOutliersCleanData(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	rows := []int{0, 1, 2, 3, 4, 5, 6, 7}

	report, ok := detectOutliers("x", values, rows)
	if !ok {
		t.Fatal("expected a report")
	}
	if report.Count != 0 {
		t.Errorf("Count = %d, want 0 for uniform spread", report.Count)
	}
	if report.MinOutlier != nil || report.MaxOutlier != nil {
		t.Error("min/max outlier should be absent when nothing is flagged")
	}
}

func TestDetectOutliersNeedsFourValues(t *testing.T) {
	if _, ok := detectOutliers("x", []float64{1, 2, 3}, []int{0, 1, 2}); ok {
		t.Error("expected skip with fewer than 4 values")
	}
}

func TestDetectOutliersIndexCap(t *testing.T) {
	// 120 extreme values around a tight core: indices must cap at 100
	// while the count keeps the true total
	values := make([]float64, 0, 520)
	rows := make([]int, 0, 520)
	for i := 0; i < 400; i++ {
		values = append(values, 50+float64(i%3))
		rows = append(rows, i)
	}
	for i := 0; i < 120; i++ {
		values = append(values, 100000)
		rows = append(rows, 400+i)
	}

	report, ok := detectOutliers("x", values, rows)
	if !ok {
		t.Fatal("expected a report")
	}
	if report.Count != 120 {
		t.Errorf("Count = %d, want 120", report.Count)
	}
	if len(report.Indices) != 100 {
		t.Errorf("len(Indices) = %d, want capped at 100", len(report.Indices))
	}
}

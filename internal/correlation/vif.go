package correlation

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"edakit/domain/analysis"
	"edakit/domain/table"
)

// VIF severity boundaries
const (
	vifModerate = 5.0
	vifHigh     = 10.0
)

// computeVIF scores every numeric column by regressing it against all
// others over rows complete across the numeric block. A column the
// others predict perfectly is reported as infinite with severity
// "high"; collinearity among the predictors never aborts or inflates
// the scores of the remaining columns.
func computeVIF(t *table.Table, numeric []string, doc *analysis.Correlations) []analysis.VIFScore {
	if len(numeric) < 2 {
		return nil
	}

	data, ok := completeRows(t, numeric)
	if !ok || len(data) <= len(numeric)+1 {
		doc.Skipped = append(doc.Skipped, analysis.ColumnSkip{
			Column:   "*",
			Analysis: "vif",
			Reason:   "not enough complete rows to fit the regressions",
		})
		return nil
	}

	scores := make([]analysis.VIFScore, 0, len(numeric))
	for j := range numeric {
		score := vifForColumn(data, j)
		score.Column = numeric[j]
		scores = append(scores, score)
	}
	return scores
}

// completeRows extracts the rows where every numeric column has a value,
// as row-major float slices
func completeRows(t *table.Table, numeric []string) ([][]float64, bool) {
	cols := make([]*table.Column, len(numeric))
	for i, name := range numeric {
		col, ok := t.Column(name)
		if !ok {
			return nil, false
		}
		cols[i] = col
	}

	var data [][]float64
	for r := 0; r < t.Rows(); r++ {
		row := make([]float64, len(cols))
		complete := true
		for i, col := range cols {
			f, ok := col.Values[r].Float()
			if !ok {
				complete = false
				break
			}
			row[i] = f
		}
		if complete {
			data = append(data, row)
		}
	}
	return data, len(data) > 0
}

// vifForColumn regresses column j on an intercept plus every other
// non-constant column and converts the fit to a variance inflation
// factor. Constant predictors are excluded, they duplicate the
// intercept and would make every regression singular.
func vifForColumn(data [][]float64, j int) analysis.VIFScore {
	n := len(data)

	var predictors []int
	for idx := range data[0] {
		if idx == j {
			continue
		}
		if !isConstant(data, idx) {
			predictors = append(predictors, idx)
		}
	}
	if len(predictors) == 0 {
		one := 1.0
		return analysis.VIFScore{Score: &one, Severity: "acceptable"}
	}

	design := mat.NewDense(n, len(predictors)+1, nil)
	response := mat.NewVecDense(n, nil)
	for r, row := range data {
		design.Set(r, 0, 1)
		for c, idx := range predictors {
			design.Set(r, c+1, row[idx])
		}
		response.SetVec(r, row[j])
	}

	var mean float64
	for r := 0; r < n; r++ {
		mean += response.AtVec(r)
	}
	mean /= float64(n)

	var sst float64
	for r := 0; r < n; r++ {
		d := response.AtVec(r) - mean
		sst += d * d
	}
	if sst == 0 {
		// Constant column: no variance to inflate
		return infiniteVIF()
	}

	// Solve through the SVD so a rank-deficient design matrix (two
	// collinear predictors elsewhere in the block) still yields the
	// least-squares projection for this column instead of an error.
	var svd mat.SVD
	if !svd.Factorize(design, mat.SVDThin) {
		return infiniteVIF()
	}
	sv := svd.Values(nil)
	tol := 1e-10 * sv[0]
	rank := 0
	for _, v := range sv {
		if v > tol {
			rank++
		}
	}
	if rank == 0 {
		return infiniteVIF()
	}
	var coef mat.VecDense
	svd.SolveVecTo(&coef, response, rank)

	var fitted mat.VecDense
	fitted.MulVec(design, &coef)

	var ssr float64
	for r := 0; r < n; r++ {
		d := response.AtVec(r) - fitted.AtVec(r)
		ssr += d * d
	}

	r2 := 1 - ssr/sst
	if r2 >= 1-1e-10 {
		return infiniteVIF()
	}
	if r2 < 0 {
		r2 = 0
	}

	vif := 1 / (1 - r2)
	if math.IsInf(vif, 0) || math.IsNaN(vif) {
		return infiniteVIF()
	}

	rounded := roundTo(vif, 2)
	return analysis.VIFScore{
		Score:    &rounded,
		Severity: vifSeverity(vif),
	}
}

func isConstant(data [][]float64, idx int) bool {
	first := data[0][idx]
	for _, row := range data[1:] {
		if row[idx] != first {
			return false
		}
	}
	return true
}

func infiniteVIF() analysis.VIFScore {
	return analysis.VIFScore{Infinite: true, Severity: "high"}
}

// vifSeverity maps a VIF score to its interpretation band
func vifSeverity(vif float64) string {
	switch {
	case vif > vifHigh:
		return "high"
	case vif >= vifModerate:
		return "moderate"
	default:
		return "acceptable"
	}
}

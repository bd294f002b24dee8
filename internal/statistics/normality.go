package statistics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Shapiro-Wilk sample-size limits. Above the upper limit columns are
// deterministically subsampled before testing; below the lower limit
// the test is skipped.
const (
	shapiroMinSamples = 3
	shapiroMaxSamples = 5000
	subsampleSeed     = 42
)

var unitNormal = distuv.Normal{Mu: 0, Sigma: 1}

// shapiroWilk runs the Shapiro-Wilk normality test using Royston's
// AS R94 approximation. Valid for 3 <= n <= 5000.
func shapiroWilk(values []float64) (w, pValue float64, err error) {
	n := len(values)
	if n < shapiroMinSamples {
		return 0, 0, fmt.Errorf("need at least %d samples, got %d", shapiroMinSamples, n)
	}
	if n > shapiroMaxSamples {
		return 0, 0, fmt.Errorf("at most %d samples supported, got %d", shapiroMaxSamples, n)
	}

	x := make([]float64, n)
	copy(x, values)
	sort.Float64s(x)

	if x[n-1]-x[0] == 0 {
		return 0, 0, fmt.Errorf("zero range, all values identical")
	}

	// Expected values of normal order statistics (Blom scores)
	m := make([]float64, n)
	var ssM float64
	for i := 0; i < n; i++ {
		m[i] = unitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		ssM += m[i] * m[i]
	}

	// Royston's polynomial-adjusted coefficients
	a := make([]float64, n)
	rsn := 1 / math.Sqrt(float64(n))
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		a[2] = -a[0]
	} else {
		an := polyval([]float64{-2.706056, 4.434685, -2.071190, -0.147981, 0.221157, 0}, rsn) + m[n-1]/math.Sqrt(ssM)
		var phi float64
		if n > 5 {
			an1 := polyval([]float64{-3.582633, 5.682633, -1.752461, -0.293762, 0.042981, 0}, rsn) + m[n-2]/math.Sqrt(ssM)
			phi = (ssM - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) / (1 - 2*an*an - 2*an1*an1)
			a[n-1], a[0] = an, -an
			a[n-2], a[1] = an1, -an1
			for i := 2; i < n-2; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
		} else {
			phi = (ssM - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
			a[n-1], a[0] = an, -an
			for i := 1; i < n-1; i++ {
				a[i] = m[i] / math.Sqrt(phi)
			}
		}
	}

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var num, den float64
	for i, v := range x {
		num += a[i] * v
		den += (v - mean) * (v - mean)
	}
	if den == 0 {
		return 0, 0, fmt.Errorf("zero variance")
	}
	w = num * num / den

	pValue = shapiroPValue(w, n)
	return w, pValue, nil
}

// shapiroPValue maps the W statistic to a p-value via Royston's
// normalizing transforms
func shapiroPValue(w float64, n int) float64 {
	switch {
	case n == 3:
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return clamp01(p)
	case n <= 11:
		fn := float64(n)
		gamma := -2.273 + 0.459*fn
		if gamma-math.Log(1-w) <= 0 {
			return 0
		}
		lw := -math.Log(gamma - math.Log(1-w))
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		return clamp01(1 - unitNormal.CDF((lw-mu)/sigma))
	default:
		ln := math.Log(float64(n))
		lw := math.Log(1 - w)
		mu := -1.5861 - 0.31082*ln - 0.083751*ln*ln + 0.0038915*ln*ln*ln
		sigma := math.Exp(-0.4803 - 0.082676*ln + 0.0030302*ln*ln)
		return clamp01(1 - unitNormal.CDF((lw-mu)/sigma))
	}
}

// subsample deterministically draws k values without replacement
func subsample(values []float64, k int) []float64 {
	if len(values) <= k {
		return values
	}
	rng := rand.New(rand.NewSource(subsampleSeed))
	perm := rng.Perm(len(values))
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		out[i] = values[perm[i]]
	}
	return out
}

func polyval(coeffs []float64, x float64) float64 {
	// coeffs ordered highest degree first
	result := 0.0
	for _, c := range coeffs {
		result = result*x + c
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

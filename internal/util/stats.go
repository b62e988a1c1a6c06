package util

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalQuantile returns the two-sided z value for the given confidence
// level, e.g. 1.9599… for 0.95.
func NormalQuantile(confidenceLevel float64) float64 {
	return stdNormal.Quantile(1 - (1-confidenceLevel)/2)
}

// TwoSidedP converts a z score into a two-sided p-value.
func TwoSidedP(z float64) float64 {
	return 2 * stdNormal.CDF(-math.Abs(z))
}

// WilsonInterval computes the Wilson score interval of a weighted binomial
// proportion. count and total are weighted sums; total acts as the
// effective sample size. Returns lower ≤ p̂ ≤ upper clamped to [0, 1].
func WilsonInterval(count, total, z float64) (lower, upper float64) {
	if total <= 0 {
		return 0, 0
	}
	p := count / total
	z2 := z * z
	denom := 1 + z2/total
	center := (p + z2/(2*total)) / denom
	margin := z / denom * math.Sqrt(p*(1-p)/total+z2/(4*total*total))
	return math.Max(0, center-margin), math.Min(1, center+margin)
}

// WLSLine is a weighted least squares fit of y on x.
type WLSLine struct {
	Intercept float64
	Slope     float64
	SlopeSE   float64
}

func (l WLSLine) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitWLS fits y = a + b·x with the given weights via gonum's weighted
// linear regression, and derives the slope's standard error from the
// weighted residual sum of squares. len(x) must be ≥ 2 and weights must be
// non-negative with a positive sum.
func FitWLS(x, y, weights []float64) WLSLine {
	alpha, beta := stat.LinearRegression(x, y, weights, false)

	meanX := stat.Mean(x, weights)
	var rss, sxx float64
	for i := range x {
		r := y[i] - (alpha + beta*x[i])
		rss += weights[i] * r * r
		sxx += weights[i] * (x[i] - meanX) * (x[i] - meanX)
	}

	var slopeSE float64
	n := len(x)
	if n > 2 && sxx > 0 {
		slopeSE = math.Sqrt(rss / float64(n-2) / sxx)
	}

	if math.IsNaN(alpha) || math.IsNaN(beta) {
		// degenerate input, e.g. all x identical; callers gate on bucket
		// counts so this is unexpected
		log.Error().Floats64("x", x).Msg("weighted least squares produced NaN coefficients")
	}

	return WLSLine{Intercept: alpha, Slope: beta, SlopeSE: slopeSE}
}

// Bonferroni adjusts a p-value for m comparisons, capped at 1.
func Bonferroni(p float64, m int) float64 {
	return math.Min(1, p*float64(m))
}

// BenjaminiHochberg returns FDR-adjusted p-values in the input order,
// using the step-up procedure with enforced monotonicity.
func BenjaminiHochberg(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	// ascending by p-value
	for i := 1; i < m; i++ {
		for j := i; j > 0 && pvalues[order[j]] < pvalues[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	adjusted := make([]float64, m)
	running := 1.0
	for rank := m; rank >= 1; rank-- {
		idx := order[rank-1]
		adj := math.Min(running, pvalues[idx]*float64(m)/float64(rank))
		running = adj
		adjusted[idx] = adj
	}
	return adjusted
}

// RoundFloat64 rounds f to n decimal digits.
func RoundFloat64(f float64, n int) float64 {
	pow := math.Pow10(n)
	return math.Round(f*pow) / pow
}

package constant

const (
	// GapPolicyInterpolate linearly interpolates interior empty buckets and
	// marks every synthesized point as interpolated, never as observed data.
	GapPolicyInterpolate = "interpolate"
	// GapPolicyGap leaves empty buckets out of the fitted series entirely.
	GapPolicyGap = "gap"

	StatisticRatio      = "ratio"
	StatisticDifference = "difference"

	AdjustmentNone       = "none"
	AdjustmentBonferroni = "bonferroni"
	AdjustmentFDR        = "fdr"

	// CIMethodWilson is the per-bucket Wilson score interval on weighted
	// binomial proportions. It is the single interval method of a run and is
	// recorded in every result set so cross-stratum comparisons stay valid.
	CIMethodWilson = "wilson"
)

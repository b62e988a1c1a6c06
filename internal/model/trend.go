package model

// TrendPoint is one time-ordered entry of a fitted trend.
// Invariant: Lower ≤ Estimate ≤ Upper.
type TrendPoint struct {
	Period   Period  `json:"period"`
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`

	// Interpolated marks points synthesized by the gap policy; they are
	// never presented as observed data.
	Interpolated bool `json:"interpolated,omitempty"`

	// Fitted is the regression value at this period's midpoint.
	Fitted float64 `json:"fitted"`
}

// TrendSeries is the fitted trend of one (exposure, subtype) stratum.
// Points are time-ordered over non-overlapping periods.
type TrendSeries struct {
	Exposure string       `json:"exposure"`
	Subtype  string       `json:"subtype"`
	Points   []TrendPoint `json:"points"`

	// CIMethod is the per-point interval method, identical across all
	// series of a run.
	CIMethod string `json:"ciMethod"`

	// Slope and Intercept describe the weighted least squares fit of
	// prevalence on period midpoint; SlopeSE is the slope's standard error.
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	SlopeSE   float64 `json:"slopeSE"`

	// NonEmptyBuckets is the number of observed (non-interpolated) points
	// the fit is based on.
	NonEmptyBuckets int `json:"nonEmptyBuckets"`
}

package model

import "gopkg.in/guregu/null.v3"

// AssociationResult is one cross-stratum comparison: the prevalence of one
// subtype in an exposure category against the same subtype in the reference
// category, at one shared period.
type AssociationResult struct {
	Subtype   string `json:"subtype"`
	Period    Period `json:"period"`
	Exposure  string `json:"exposure"`
	Reference string `json:"reference"`

	// Statistic is "ratio" or "difference", fixed per run.
	Statistic string `json:"statistic"`

	Estimate float64 `json:"estimate"`
	Variance float64 `json:"variance"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`

	// PValue tests ratio=1 (or difference=0); AdjustedP carries the
	// multiple-comparison adjusted value when the policy is not "none".
	PValue    float64    `json:"pValue"`
	AdjustedP null.Float `json:"adjustedP,omitempty"`

	// Adjustment records which multiple-comparison policy produced
	// AdjustedP.
	Adjustment string `json:"adjustment"`
}

package types

import (
	"github.com/histotrend/backend/internal/model"
)

// SourceBatch is one declared source's worth of raw records.
type SourceBatch struct {
	Source  string            `json:"source" validate:"required,max=64"`
	Records []model.RawRecord `json:"records" validate:"required,min=1"`
}

// RunOverrides are per-request overrides of the engine configuration
// surface. Zero values fall back to the configured defaults.
type RunOverrides struct {
	BucketWidthYears   int    `json:"bucketWidthYears" validate:"omitempty,min=1,max=25"`
	GapPolicy          string `json:"gapPolicy" validate:"omitempty,caseinsensitiveoneof=interpolate gap"`
	MinNonEmptyBuckets int    `json:"minNonEmptyBuckets" validate:"omitempty,min=2"`
	Statistic          string `json:"statistic" validate:"omitempty,caseinsensitiveoneof=ratio difference"`
	Reference          string `json:"reference" validate:"omitempty,max=64"`
	Adjustment         string `json:"adjustment" validate:"omitempty,caseinsensitiveoneof=none bonferroni fdr"`

	// Period restricts association comparisons to one period ("2000" or
	// "1998-2002"); empty compares at every shared period.
	Period string `json:"period" validate:"omitempty,max=16"`
}

// AnalyzeRequest is the payload of POST /result/analyze.
type AnalyzeRequest struct {
	Batches   []SourceBatch `json:"batches" validate:"required,min=1,dive"`
	Overrides RunOverrides  `json:"overrides"`
}

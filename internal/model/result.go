package model

import "time"

// ResultSet is the complete output of one engine invocation: the full
// bucket set, every fitted trend series, every association result, and the
// diagnostics report. Partial results are never exposed.
type ResultSet struct {
	// RunID is a ULID assigned to the invocation.
	RunID string `json:"runId"`

	GeneratedAt time.Time `json:"generatedAt"`

	// Disclosed per-run methodology, fixed across all strata.
	CIMethod        string  `json:"ciMethod"`
	ConfidenceLevel float64 `json:"confidenceLevel"`
	Statistic       string  `json:"statistic"`
	Reference       string  `json:"reference"`
	Adjustment      string  `json:"adjustment"`
	GapPolicy       string  `json:"gapPolicy"`

	Buckets      *BucketSet           `json:"buckets"`
	Trends       []*TrendSeries       `json:"trends"`
	Associations []*AssociationResult `json:"associations"`

	Diagnostics *Diagnostics `json:"diagnostics"`
}

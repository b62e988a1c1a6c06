package model

import (
	"gopkg.in/guregu/null.v3"
)

// RawRecord is one unvalidated entry from a survey or registry export: a
// flat key/value mapping with stable field names per declared source.
// Loaders produce it; only the normalizer consumes it.
type RawRecord map[string]any

// NormalizedRecord is the uniform record every source is mapped onto.
// The set of normalized records is immutable once normalization finishes.
type NormalizedRecord struct {
	// SubjectID is absent for aggregate-only registry rows.
	SubjectID null.String `json:"subjectId,omitempty"`

	Period   Period `json:"period"`
	Exposure string `json:"exposure"`
	Subtype  string `json:"subtype"`

	// Weight is the sampling (or standardisation) weight, ≥ 0; defaults
	// to 1 when the source carries none.
	Weight float64 `json:"weight"`

	// Source is the declared source name the record was normalized from.
	Source string `json:"source"`
}

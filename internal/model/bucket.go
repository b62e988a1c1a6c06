package model

// StratumKey identifies one (exposureCategory, subtype) stratum analyzed
// across time.
type StratumKey struct {
	Exposure string `json:"exposure"`
	Subtype  string `json:"subtype"`
}

func (k StratumKey) String() string {
	return k.Exposure + "/" + k.Subtype
}

// CohortBucket holds the aggregated weighted numerator and denominator of
// one (period, exposure, subtype) cell. Total is the weighted cohort size
// of (period, exposure) regardless of subtype, so prevalence = Count/Total.
//
// A bucket with Total == 0 is retained with NoData set instead of being
// reported as zero prevalence.
type CohortBucket struct {
	Period   Period  `json:"period"`
	Exposure string  `json:"exposure"`
	Subtype  string  `json:"subtype"`
	Count    float64 `json:"count"`
	Total    float64 `json:"total"`
	NoData   bool    `json:"noData,omitempty"`
}

func (b *CohortBucket) Stratum() StratumKey {
	return StratumKey{Exposure: b.Exposure, Subtype: b.Subtype}
}

// Prevalence returns Count/Total and false when the bucket has no data.
func (b *CohortBucket) Prevalence() (float64, bool) {
	if b.NoData || b.Total <= 0 {
		return 0, false
	}
	return b.Count / b.Total, true
}

// BucketSet is the derived, immutable bucket collection of one run. It is
// recomputed wholesale on any input change.
type BucketSet struct {
	Buckets []*CohortBucket `json:"buckets"`

	// Periods are every bucketed period of the run, ascending.
	Periods []Period `json:"periods"`

	// Exposures and Subtypes are the vocabulary slices the grid was built
	// from, in vocabulary order. Subtypes excludes the unknown value.
	Exposures []string `json:"exposures"`
	Subtypes  []string `json:"subtypes"`

	byStratum map[StratumKey][]*CohortBucket
}

// Strata enumerates every (exposure, subtype) stratum of the grid in
// vocabulary order.
func (s *BucketSet) Strata() []StratumKey {
	keys := make([]StratumKey, 0, len(s.Exposures)*len(s.Subtypes))
	for _, exposure := range s.Exposures {
		for _, subtype := range s.Subtypes {
			keys = append(keys, StratumKey{Exposure: exposure, Subtype: subtype})
		}
	}
	return keys
}

// ByStratum returns the stratum's buckets in ascending period order.
func (s *BucketSet) ByStratum(key StratumKey) []*CohortBucket {
	return s.byStratum[key]
}

// Lookup returns the bucket of one grid cell, or nil when the cell is not
// part of the grid. A single-year period also matches the bucket containing
// that year, so callers can query with a raw year regardless of the bucket
// width the set was built with.
func (s *BucketSet) Lookup(key StratumKey, period Period) *CohortBucket {
	for _, b := range s.byStratum[key] {
		if b.Period == period {
			return b
		}
		if period.StartYear == period.EndYear && b.Period.Includes(period.StartYear) {
			return b
		}
	}
	return nil
}

// Reindex rebuilds the per-stratum index. Aggregation calls it once after
// the bucket slice is final; it is also needed after JSON decoding.
func (s *BucketSet) Reindex() {
	s.byStratum = make(map[StratumKey][]*CohortBucket)
	for _, b := range s.Buckets {
		key := b.Stratum()
		s.byStratum[key] = append(s.byStratum[key], b)
	}
}

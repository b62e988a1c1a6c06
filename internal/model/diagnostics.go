package model

// Rejection aggregates skipped records of one (source, code, reason) kind.
type Rejection struct {
	Source string `json:"source"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// RejectionReport accompanies every normalization result; callers must
// surface it, never discard it.
type RejectionReport struct {
	Accepted   int          `json:"accepted"`
	Rejected   int          `json:"rejected"`
	Rejections []*Rejection `json:"rejections"`
}

func (r *RejectionReport) Add(source, code, reason string) {
	r.Rejected++
	for _, rej := range r.Rejections {
		if rej.Source == source && rej.Code == code && rej.Reason == reason {
			rej.Count++
			return
		}
	}
	r.Rejections = append(r.Rejections, &Rejection{
		Source: source,
		Code:   code,
		Reason: reason,
		Count:  1,
	})
}

func (r *RejectionReport) Merge(other *RejectionReport) {
	if other == nil {
		return
	}
	r.Accepted += other.Accepted
	for _, rej := range other.Rejections {
		for i := 0; i < rej.Count; i++ {
			r.Add(rej.Source, rej.Code, rej.Reason)
		}
	}
}

// OmittedStratum flags a stratum whose trend fit was skipped; the run
// continues for the other strata.
type OmittedStratum struct {
	Exposure string `json:"exposure"`
	Subtype  string `json:"subtype"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// OmittedPair flags a comparison that could not be computed.
type OmittedPair struct {
	Exposure  string `json:"exposure"`
	Reference string `json:"reference"`
	Subtype   string `json:"subtype"`
	Period    Period `json:"period"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Diagnostics is the structured report returned alongside the primary
// result. Nothing is silently swallowed: every skip and omission of a run
// accumulates here.
type Diagnostics struct {
	RejectionReport `json:"rejectionReport"`

	OmittedStrata []*OmittedStratum `json:"omittedStrata"`
	OmittedPairs  []*OmittedPair    `json:"omittedPairs"`
}

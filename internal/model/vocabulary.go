package model

// Vocabulary is the fixed, explicitly enumerated category vocabulary of a
// run. Values outside it are rejected during normalization, never silently
// dropped.
type Vocabulary struct {
	// Exposures in rank order; the order drives deterministic output
	// ordering and the default reference category (first entry).
	Exposures []string `json:"exposures"`

	// Subtypes holds the specific histological subtypes. UnknownSubtype is
	// the defined unknown/unspecified value and is not listed in Subtypes.
	Subtypes       []string `json:"subtypes"`
	UnknownSubtype string   `json:"unknownSubtype"`
}

func (v Vocabulary) HasExposure(exposure string) bool {
	return v.ExposureRank(exposure) >= 0
}

// ExposureRank returns the position of exposure in the ordered vocabulary,
// or -1 when it is not part of it.
func (v Vocabulary) ExposureRank(exposure string) int {
	for i, e := range v.Exposures {
		if e == exposure {
			return i
		}
	}
	return -1
}

func (v Vocabulary) HasSubtype(subtype string) bool {
	if subtype == v.UnknownSubtype {
		return true
	}
	for _, s := range v.Subtypes {
		if s == subtype {
			return true
		}
	}
	return false
}

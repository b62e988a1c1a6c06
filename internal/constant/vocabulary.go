package constant

// Exposure categories form an ordered vocabulary: the position in
// ExposureCategories is the category's rank, used for deterministic output
// ordering and for picking the default reference category.
const (
	ExposureNever   = "never"
	ExposureFormer  = "former"
	ExposureCurrent = "current"
)

var ExposureCategories = []string{
	ExposureNever,
	ExposureFormer,
	ExposureCurrent,
}

// Histological subtype vocabulary. SubtypeUnknown is the defined
// "unknown/unspecified" value: records carrying it count towards stratum
// denominators but never towards a specific-subtype numerator.
const (
	SubtypeLUAD    = "LUAD"
	SubtypeLUSC    = "LUSC"
	SubtypeOther   = "other"
	SubtypeUnknown = "unknown"
)

// Subtypes lists the specific subtypes only; SubtypeUnknown is kept apart
// because it contributes to denominators but never forms a stratum.
var Subtypes = []string{
	SubtypeLUAD,
	SubtypeLUSC,
	SubtypeOther,
}

package constant

const (
	ContextKeyRequestID = "requestid"

	// DefaultMinNonEmptyBuckets is the smallest number of non-empty time
	// buckets a stratum must have before a trend fit is attempted.
	DefaultMinNonEmptyBuckets = 2

	// DefaultBucketWidthYears buckets records per calendar year.
	DefaultBucketWidthYears = 1

	// DefaultConfidenceLevel for all intervals in a run.
	DefaultConfidenceLevel = 0.95

	// StatDigits is the number of decimal digits results are rounded to on
	// the API surface.
	StatDigits = 6
)

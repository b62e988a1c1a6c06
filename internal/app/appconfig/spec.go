package appconfig

import (
	"time"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9030"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic.
	DevMode bool `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// engine configuration surface

	// BucketWidthYears is the time-bucket width records are aggregated into.
	BucketWidthYears int `split_words:"true" default:"1"`

	// GapPolicy decides how periods without data are treated when fitting a
	// trend. Valid values are: interpolate, gap.
	GapPolicy string `split_words:"true" default:"gap"`

	// MinNonEmptyBuckets is the least number of non-empty time buckets a
	// stratum needs before a trend is fitted at all.
	MinNonEmptyBuckets int `split_words:"true" default:"2"`

	// ComparisonStatistic is the cross-stratum statistic. Valid values are:
	// ratio, difference.
	ComparisonStatistic string `split_words:"true" default:"ratio"`

	// ReferenceCategory is the exposure category every other category is
	// compared against. It is fixed for the whole run.
	ReferenceCategory string `split_words:"true" default:"never"`

	// MultipleComparisonPolicy adjusts p-values when several subtypes are
	// compared in one run. Valid values are: none, bonferroni, fdr.
	MultipleComparisonPolicy string `split_words:"true" default:"none"`

	// ConfidenceLevel of every interval in a run.
	ConfidenceLevel float64 `split_words:"true" default:"0.95"`

	// ExposureCategories is the ordered exposure vocabulary.
	ExposureCategories []string `split_words:"true" default:"never,former,current"`

	// Subtypes is the histological subtype vocabulary, excluding the
	// unknown value.
	Subtypes []string `split_words:"true" default:"LUAD,LUSC,other"`

	// UnknownSubtype is the defined unknown/unspecified subtype value.
	UnknownSubtype string `split_words:"true" default:"unknown"`

	// SourceMappingsPath points at a JSON file with additional per-source
	// field mappings, merged over the built-in brfss/seer mappings.
	SourceMappingsPath string `split_words:"true"`

	// RejectRulesPath points at a JSON file with expr reject rules applied
	// to raw records before schema mapping.
	RejectRulesPath string `split_words:"true"`

	// StrataConcurrency bounds parallel per-stratum computation;
	// 0 means one worker per CPU.
	StrataConcurrency int `split_words:"true" default:"0"`
}

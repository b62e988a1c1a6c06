package service

import (
	"github.com/histotrend/backend/internal/app/appconfig"
	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			BucketWidthYears:         1,
			GapPolicy:                "gap",
			MinNonEmptyBuckets:       2,
			ComparisonStatistic:      "ratio",
			ReferenceCategory:        "never",
			MultipleComparisonPolicy: "none",
			ConfidenceLevel:          0.95,
			ExposureCategories:       constant.ExposureCategories,
			Subtypes:                 constant.Subtypes,
			UnknownSubtype:           constant.SubtypeUnknown,
		},
		SourceMappings: appconfig.BuiltinSourceMappings(),
	}
}

// cohortRecord builds a pre-normalized record the way the cohort mapping
// would produce it.
func cohortRecord(year int, exposure, subtype string, weight float64) model.NormalizedRecord {
	return model.NormalizedRecord{
		Period:   model.Year(year),
		Exposure: exposure,
		Subtype:  subtype,
		Weight:   weight,
		Source:   "cohort",
	}
}

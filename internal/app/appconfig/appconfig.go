package appconfig

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/histotrend/backend/internal/app/appcontext"
	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
)

func Parse(ctx appcontext.Ctx) (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	var spec ConfigSpec
	err = envconfig.Process("histotrend", &spec)
	if err != nil {
		_ = envconfig.Usage("histotrend", &spec)
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	config := &Config{
		ConfigSpec:     spec,
		AppContext:     ctx,
		SourceMappings: BuiltinSourceMappings(),
	}

	if spec.SourceMappingsPath != "" {
		extra, err := loadJSONFile[map[string]*model.SourceMapping](spec.SourceMappingsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load source mappings from %s: %w", spec.SourceMappingsPath, err)
		}
		for source, mapping := range *extra {
			config.SourceMappings[source] = mapping
		}
	}

	if spec.RejectRulesPath != "" {
		rules, err := loadJSONFile[[]model.RejectRule](spec.RejectRulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load reject rules from %s: %w", spec.RejectRulesPath, err)
		}
		config.RejectRules = *rules
	}

	return config, nil
}

func loadJSONFile[T any](path string) (*T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuiltinSourceMappings declares the two sources the repository ships
// loaders for: BRFSS-shaped survey count rows and per-subject cohort rows.
func BuiltinSourceMappings() map[string]*model.SourceMapping {
	return map[string]*model.SourceMapping{
		"brfss": {
			Fields: map[string]string{
				model.FieldPeriod:   "year",
				model.FieldExposure: "smoking_status",
				model.FieldWeight:   "count",
			},
			Relabels: map[string]map[string]string{
				model.FieldExposure: {
					"Never smoker":   constant.ExposureNever,
					"Former smoker":  constant.ExposureFormer,
					"Current smoker": constant.ExposureCurrent,
				},
			},
			Defaults: map[string]string{
				model.FieldSubtype: constant.SubtypeUnknown,
			},
		},
		"cohort": {
			Fields: map[string]string{
				model.FieldSubjectID: "subject_id",
				model.FieldPeriod:    "year_of_diagnosis",
				model.FieldExposure:  "smoking_status",
				model.FieldSubtype:   "histology",
				model.FieldWeight:    "weight",
			},
			Relabels: map[string]map[string]string{
				model.FieldSubtype: {
					"adenocarcinoma": constant.SubtypeLUAD,
					"squamous":       constant.SubtypeLUSC,
					"NSCLC_other":    constant.SubtypeOther,
					"unspecified":    constant.SubtypeUnknown,
				},
			},
		},
	}
}

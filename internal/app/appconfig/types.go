package appconfig

import (
	"github.com/histotrend/backend/internal/app/appcontext"
	"github.com/histotrend/backend/internal/model"
)

type Config struct {
	ConfigSpec

	AppContext appcontext.Ctx

	// SourceMappings holds the built-in field mappings merged with the
	// file at SourceMappingsPath, keyed by declared source name.
	SourceMappings map[string]*model.SourceMapping

	// RejectRules are the expr rules loaded from RejectRulesPath, if any.
	RejectRules []model.RejectRule
}

// Vocabulary assembles the configured category vocabulary.
func (c *Config) Vocabulary() model.Vocabulary {
	return model.Vocabulary{
		Exposures:      c.ExposureCategories,
		Subtypes:       c.Subtypes,
		UnknownSubtype: c.UnknownSubtype,
	}
}

package service

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"gopkg.in/guregu/null.v3"

	"github.com/histotrend/backend/internal/app/appconfig"
	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/pkg/epierr"
	"github.com/histotrend/backend/internal/util"
)

// Association computes cross-stratum comparison statistics: the prevalence
// of a subtype under one exposure category against the fixed reference
// category, at a shared period. Ratios use the log-ratio delta-method
// variance, differences the binomial delta-method variance.
type Association struct {
	vocab model.Vocabulary
}

type AssociationConfig struct {
	// Reference is the exposure category every comparison is made against;
	// fixed across the whole run.
	Reference string

	// Statistic is constant.StatisticRatio or constant.StatisticDifference.
	Statistic string

	// Adjustment is the multiple-comparison policy applied when several
	// subtypes are compared in one run.
	Adjustment string

	ConfidenceLevel float64

	// Period restricts comparisons to one bucketed period; nil compares at
	// every period of the grid.
	Period *model.Period
}

func (c AssociationConfig) withDefaults(vocab model.Vocabulary) AssociationConfig {
	if c.Reference == "" && len(vocab.Exposures) > 0 {
		c.Reference = vocab.Exposures[0]
	}
	if c.Statistic == "" {
		c.Statistic = constant.StatisticRatio
	}
	if c.Adjustment == "" {
		c.Adjustment = constant.AdjustmentNone
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		c.ConfidenceLevel = constant.DefaultConfidenceLevel
	}
	return c
}

func NewAssociation(conf *appconfig.Config) *Association {
	return &Association{vocab: conf.Vocabulary()}
}

// Compare computes one comparison. Zero totals (including grid cells that
// never saw data) are a reported ZERO_DENOMINATOR condition, never a NaN
// leaking downstream.
func (s *Association) Compare(ctx context.Context, set *model.BucketSet, subtype string, period model.Period, exposure, reference, statistic string, confidenceLevel float64) (*model.AssociationResult, error) {
	exposed := set.Lookup(model.StratumKey{Exposure: exposure, Subtype: subtype}, period)
	ref := set.Lookup(model.StratumKey{Exposure: reference, Subtype: subtype}, period)
	if exposed == nil || ref == nil {
		return nil, epierr.ErrNotFound.Msg("no bucket for subtype %q at period %s", subtype, period)
	}

	p1, ok := exposed.Prevalence()
	if !ok {
		return nil, epierr.ErrZeroDenominator.Msg("exposure %q has zero total at period %s", exposure, period)
	}
	p0, ok := ref.Prevalence()
	if !ok {
		return nil, epierr.ErrZeroDenominator.Msg("reference %q has zero total at period %s", reference, period)
	}

	result := &model.AssociationResult{
		Subtype:   subtype,
		Period:    period,
		Exposure:  exposure,
		Reference: reference,
		Statistic: statistic,
	}
	z := util.NormalQuantile(confidenceLevel)

	switch statistic {
	case constant.StatisticRatio:
		if p0 == 0 || p1 == 0 {
			return nil, epierr.ErrZeroDenominator.Msg(
				"prevalence is zero for subtype %q at period %s; ratio is undefined", subtype, period)
		}
		estimate := p1 / p0
		// delta-method variance of log(p1/p0)
		variance := (1-p1)/(exposed.Total*p1) + (1-p0)/(ref.Total*p0)
		se := math.Sqrt(variance)
		result.Estimate = estimate
		result.Variance = variance
		result.Lower = math.Exp(math.Log(estimate) - z*se)
		result.Upper = math.Exp(math.Log(estimate) + z*se)
		result.PValue = util.TwoSidedP(math.Log(estimate) / se)

	case constant.StatisticDifference:
		estimate := p1 - p0
		variance := p1*(1-p1)/exposed.Total + p0*(1-p0)/ref.Total
		se := math.Sqrt(variance)
		result.Estimate = estimate
		result.Variance = variance
		result.Lower = estimate - z*se
		result.Upper = estimate + z*se
		if se > 0 {
			result.PValue = util.TwoSidedP(estimate / se)
		} else {
			result.PValue = 1
		}

	default:
		return nil, epierr.ErrInvalidReq.Msg("unknown comparison statistic %q", statistic)
	}

	result.Estimate = util.RoundFloat64(result.Estimate, constant.StatDigits)
	result.Variance = util.RoundFloat64(result.Variance, constant.StatDigits)
	result.Lower = util.RoundFloat64(result.Lower, constant.StatDigits)
	result.Upper = util.RoundFloat64(result.Upper, constant.StatDigits)
	result.PValue = util.RoundFloat64(result.PValue, constant.StatDigits)

	return result, nil
}

// CompareAll runs every (exposure ≠ reference) × subtype × period
// comparison, applies the configured multiple-comparison policy across the
// whole run, and reports undefined pairs as omissions.
func (s *Association) CompareAll(ctx context.Context, set *model.BucketSet, config AssociationConfig) ([]*model.AssociationResult, []*model.OmittedPair, error) {
	config = config.withDefaults(s.vocab)

	if !s.vocab.HasExposure(config.Reference) {
		return nil, nil, epierr.ErrInvalidReq.Msg("reference category %q is not in the exposure vocabulary", config.Reference)
	}

	periods := set.Periods
	if config.Period != nil {
		periods = []model.Period{*config.Period}
	}

	results := make([]*model.AssociationResult, 0)
	omitted := make([]*model.OmittedPair, 0)
	for _, exposure := range s.vocab.Exposures {
		if exposure == config.Reference {
			continue
		}
		for _, subtype := range s.vocab.Subtypes {
			for _, period := range periods {
				result, err := s.Compare(ctx, set, subtype, period, exposure, config.Reference, config.Statistic, config.ConfidenceLevel)
				if err != nil {
					var e *epierr.Error
					if errors.As(err, &e) && e.ErrorCode == epierr.CodeZeroDenominator {
						omitted = append(omitted, &model.OmittedPair{
							Exposure:  exposure,
							Reference: config.Reference,
							Subtype:   subtype,
							Period:    period,
							Code:      e.ErrorCode,
							Message:   e.Message,
						})
						continue
					}
					return nil, nil, err
				}
				results = append(results, result)
			}
		}
	}

	s.adjust(results, config.Adjustment)

	slices.SortFunc(results, func(a, b *model.AssociationResult) bool {
		ra, rb := s.vocab.ExposureRank(a.Exposure), s.vocab.ExposureRank(b.Exposure)
		if ra != rb {
			return ra < rb
		}
		if a.Subtype != b.Subtype {
			return a.Subtype < b.Subtype
		}
		return a.Period.Before(b.Period)
	})

	if len(omitted) > 0 {
		log.Ctx(ctx).Info().
			Int("computed", len(results)).
			Int("omitted", len(omitted)).
			Msg("some comparisons were omitted")
	}

	return results, omitted, nil
}

// adjust applies the multiple-comparison policy in place and records the
// policy on every result, so downstream consumers can tell which correction
// produced the adjusted values.
func (s *Association) adjust(results []*model.AssociationResult, policy string) {
	for _, r := range results {
		r.Adjustment = policy
	}

	switch policy {
	case constant.AdjustmentBonferroni:
		m := len(results)
		for _, r := range results {
			r.AdjustedP = null.FloatFrom(util.RoundFloat64(util.Bonferroni(r.PValue, m), constant.StatDigits))
		}
	case constant.AdjustmentFDR:
		pvalues := lo.Map(results, func(r *model.AssociationResult, _ int) float64 { return r.PValue })
		adjusted := util.BenjaminiHochberg(pvalues)
		for i, r := range results {
			r.AdjustedP = null.FloatFrom(util.RoundFloat64(adjusted[i], constant.StatDigits))
		}
	}
}

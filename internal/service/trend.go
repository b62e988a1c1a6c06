package service

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/histotrend/backend/internal/app/appconfig"
	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/pkg/async"
	"github.com/histotrend/backend/internal/pkg/epierr"
	"github.com/histotrend/backend/internal/util"
)

// Trend fits per-stratum prevalence trends over time. Intervals are Wilson
// score intervals on each bucket's weighted proportion; the fitted line is
// a weighted least squares regression of prevalence on period midpoint with
// bucket totals as weights. Both methods are fixed for the whole run.
type Trend struct {
	vocab       model.Vocabulary
	concurrency int
}

type TrendConfig struct {
	// GapPolicy is constant.GapPolicyInterpolate or constant.GapPolicyGap.
	GapPolicy string

	// MinNonEmptyBuckets gates the fit; strata below it fail with
	// INSUFFICIENT_DATA instead of producing a misleading single-point fit.
	MinNonEmptyBuckets int

	ConfidenceLevel float64
}

func (c TrendConfig) withDefaults() TrendConfig {
	if c.GapPolicy == "" {
		c.GapPolicy = constant.GapPolicyGap
	}
	if c.MinNonEmptyBuckets <= 0 {
		c.MinNonEmptyBuckets = constant.DefaultMinNonEmptyBuckets
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		c.ConfidenceLevel = constant.DefaultConfidenceLevel
	}
	return c
}

func NewTrend(conf *appconfig.Config) *Trend {
	concurrency := conf.StrataConcurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Trend{
		vocab:       conf.Vocabulary(),
		concurrency: concurrency,
	}
}

// FitStratum fits the trend of one (exposure, subtype) stratum.
func (s *Trend) FitStratum(ctx context.Context, set *model.BucketSet, key model.StratumKey, config TrendConfig) (*model.TrendSeries, error) {
	config = config.withDefaults()
	if config.MinNonEmptyBuckets < constant.DefaultMinNonEmptyBuckets {
		// a single-point fit has no defined slope, so the floor is hard
		return nil, epierr.ErrInvalidReq.Msg(
			"minNonEmptyBuckets must be at least %d, got %d",
			constant.DefaultMinNonEmptyBuckets, config.MinNonEmptyBuckets)
	}

	buckets := set.ByStratum(key)
	if len(buckets) == 0 {
		return nil, epierr.ErrNotFound.Msg("stratum %s has no buckets", key)
	}

	observed := make([]*model.CohortBucket, 0, len(buckets))
	for _, b := range buckets {
		if _, ok := b.Prevalence(); ok {
			observed = append(observed, b)
		}
	}
	if len(observed) < config.MinNonEmptyBuckets {
		return nil, epierr.ErrInsufficientData.Msg(
			"stratum %s has %d non-empty buckets, need at least %d",
			key, len(observed), config.MinNonEmptyBuckets)
	}

	x := make([]float64, len(observed))
	y := make([]float64, len(observed))
	w := make([]float64, len(observed))
	for i, b := range observed {
		p, _ := b.Prevalence()
		x[i] = b.Period.Midpoint()
		y[i] = p
		w[i] = b.Total
	}
	line := util.FitWLS(x, y, w)

	z := util.NormalQuantile(config.ConfidenceLevel)
	points := make([]model.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		p, ok := b.Prevalence()
		if !ok {
			continue
		}
		lower, upper := util.WilsonInterval(b.Count, b.Total, z)
		points = append(points, model.TrendPoint{
			Period:   b.Period,
			Estimate: util.RoundFloat64(p, constant.StatDigits),
			Lower:    util.RoundFloat64(lower, constant.StatDigits),
			Upper:    util.RoundFloat64(upper, constant.StatDigits),
			Fitted:   util.RoundFloat64(line.At(b.Period.Midpoint()), constant.StatDigits),
		})
	}

	if config.GapPolicy == constant.GapPolicyInterpolate {
		points = interpolateGaps(points, buckets, line)
	}

	// a series with overlapping periods would double-count time on the
	// fitted axis; the bucket grid guarantees disjointness, so hitting
	// this means the set was assembled outside the aggregator
	for i := 1; i < len(points); i++ {
		if points[i-1].Period.Overlaps(points[i].Period) {
			return nil, epierr.ErrInternalError.Msg(
				"stratum %s has overlapping periods %s and %s",
				key, points[i-1].Period, points[i].Period)
		}
	}

	return &model.TrendSeries{
		Exposure:        key.Exposure,
		Subtype:         key.Subtype,
		Points:          points,
		CIMethod:        constant.CIMethodWilson,
		Slope:           line.Slope,
		Intercept:       line.Intercept,
		SlopeSE:         line.SlopeSE,
		NonEmptyBuckets: len(observed),
	}, nil
}

// interpolateGaps synthesizes points for interior no-data buckets by linear
// interpolation between the nearest observed neighbours. Leading and
// trailing gaps stay gaps: there is nothing defensible to anchor them on.
func interpolateGaps(points []model.TrendPoint, buckets []*model.CohortBucket, line util.WLSLine) []model.TrendPoint {
	if len(points) == 0 {
		return points
	}

	first, last := points[0].Period, points[len(points)-1].Period
	out := make([]model.TrendPoint, 0, len(buckets))
	observedIdx := 0
	for _, b := range buckets {
		if b.Period.Before(first) || last.Before(b.Period) {
			continue
		}
		if observedIdx < len(points) && points[observedIdx].Period == b.Period {
			out = append(out, points[observedIdx])
			observedIdx++
			continue
		}

		prev := out[len(out)-1]
		next := points[observedIdx]
		xm := b.Period.Midpoint()
		out = append(out, model.TrendPoint{
			Period:       b.Period,
			Estimate:     util.RoundFloat64(util.Interpolate(prev.Period.Midpoint(), prev.Estimate, next.Period.Midpoint(), next.Estimate, xm), constant.StatDigits),
			Lower:        util.RoundFloat64(util.Interpolate(prev.Period.Midpoint(), prev.Lower, next.Period.Midpoint(), next.Lower, xm), constant.StatDigits),
			Upper:        util.RoundFloat64(util.Interpolate(prev.Period.Midpoint(), prev.Upper, next.Period.Midpoint(), next.Upper, xm), constant.StatDigits),
			Interpolated: true,
			Fitted:       util.RoundFloat64(line.At(xm), constant.StatDigits),
		})
	}
	return out
}

// FitAll fits every stratum of the grid in parallel and assembles the
// results deterministically. Strata failing the minimum-data gate are
// returned as omissions, not errors: the run continues without them.
func (s *Trend) FitAll(ctx context.Context, set *model.BucketSet, config TrendConfig) ([]*model.TrendSeries, []*model.OmittedStratum, error) {
	type fitOutcome struct {
		series  *model.TrendSeries
		omitted *model.OmittedStratum
	}

	outcomes, err := async.Map(set.Strata(), s.concurrency, func(key model.StratumKey) (fitOutcome, error) {
		series, err := s.FitStratum(ctx, set, key, config)
		if err != nil {
			var e *epierr.Error
			if errors.As(err, &e) && e.ErrorCode == epierr.CodeInsufficientData {
				return fitOutcome{omitted: &model.OmittedStratum{
					Exposure: key.Exposure,
					Subtype:  key.Subtype,
					Code:     e.ErrorCode,
					Message:  e.Message,
				}}, nil
			}
			return fitOutcome{}, err
		}
		return fitOutcome{series: series}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	series := make([]*model.TrendSeries, 0, len(outcomes))
	omitted := make([]*model.OmittedStratum, 0)
	for _, o := range outcomes {
		if o.series != nil {
			series = append(series, o.series)
		}
		if o.omitted != nil {
			omitted = append(omitted, o.omitted)
		}
	}

	// parallel completion order is irrelevant: sort on vocabulary rank
	slices.SortFunc(series, func(a, b *model.TrendSeries) bool {
		ra, rb := s.vocab.ExposureRank(a.Exposure), s.vocab.ExposureRank(b.Exposure)
		if ra != rb {
			return ra < rb
		}
		return a.Subtype < b.Subtype
	})
	slices.SortFunc(omitted, func(a, b *model.OmittedStratum) bool {
		ra, rb := s.vocab.ExposureRank(a.Exposure), s.vocab.ExposureRank(b.Exposure)
		if ra != rb {
			return ra < rb
		}
		return a.Subtype < b.Subtype
	})

	if len(omitted) > 0 {
		log.Ctx(ctx).Info().
			Int("fitted", len(series)).
			Int("omitted", len(omitted)).
			Msg("some strata were omitted from trend fitting")
	}

	return series, omitted, nil
}

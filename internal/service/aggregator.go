package service

import (
	"context"

	"github.com/ahmetb/go-linq/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/histotrend/backend/internal/app/appconfig"
	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/pkg/epierr"
	"github.com/histotrend/backend/internal/util"
)

// Aggregator groups normalized records into the (period, exposure, subtype)
// bucket grid. The full grid over the run's periods and the configured
// vocabulary is materialized, so strata without data surface as explicit
// no-data buckets instead of silently missing cells.
type Aggregator struct {
	vocab model.Vocabulary
}

type BucketingConfig struct {
	// WidthYears is the time-bucket width; buckets are calendar-aligned.
	WidthYears int
}

func NewAggregator(conf *appconfig.Config) *Aggregator {
	return &Aggregator{vocab: conf.Vocabulary()}
}

type recordGroupKey struct {
	Period   model.Period
	Exposure string
}

// Aggregate produces the bucket set of one run. It is deterministic:
// identical record multisets yield the identical bucket set regardless of
// input ordering, because accumulation is keyed and the grid is sorted by
// (period, exposure rank, subtype) at the end.
func (s *Aggregator) Aggregate(ctx context.Context, records []model.NormalizedRecord, config BucketingConfig) (*model.BucketSet, error) {
	if len(records) == 0 {
		return nil, epierr.ErrEmptyResult
	}
	width := config.WidthYears
	if width <= 0 {
		width = constant.DefaultBucketWidthYears
	}

	// Denominators first: weighted cohort size per (period, exposure),
	// independent of subtype. Records with the unknown subtype end here and
	// nowhere else.
	totals := make(map[recordGroupKey]float64)
	counts := make(map[recordGroupKey]map[string]float64)

	var groups []linq.Group
	linq.From(records).
		GroupByT(
			func(r model.NormalizedRecord) recordGroupKey {
				return recordGroupKey{
					Period:   util.BucketFor(r.Period, width),
					Exposure: r.Exposure,
				}
			},
			func(r model.NormalizedRecord) model.NormalizedRecord { return r }).
		ToSlice(&groups)

	for _, group := range groups {
		key := group.Key.(recordGroupKey)
		bySubtype := make(map[string]float64)
		var total float64
		for _, el := range group.Group {
			r := el.(model.NormalizedRecord)
			total += r.Weight
			if r.Subtype != s.vocab.UnknownSubtype {
				bySubtype[r.Subtype] += r.Weight
			}
		}
		totals[key] = total
		counts[key] = bySubtype
	}

	periods := collectPeriods(groups)

	set := &model.BucketSet{
		Periods:   periods,
		Exposures: s.vocab.Exposures,
		Subtypes:  s.vocab.Subtypes,
	}
	for _, period := range periods {
		for _, exposure := range s.vocab.Exposures {
			key := recordGroupKey{Period: period, Exposure: exposure}
			total := totals[key]
			for _, subtype := range s.vocab.Subtypes {
				bucket := &model.CohortBucket{
					Period:   period,
					Exposure: exposure,
					Subtype:  subtype,
					Count:    counts[key][subtype],
					Total:    total,
				}
				if total == 0 {
					bucket.NoData = true
				}
				set.Buckets = append(set.Buckets, bucket)
			}
		}
	}
	set.Reindex()

	if l := log.Ctx(ctx).Debug(); l.Enabled() {
		l.Int("records", len(records)).
			Int("periods", len(periods)).
			Int("buckets", len(set.Buckets)).
			Msg("aggregated cohort buckets")
	}

	return set, nil
}

func collectPeriods(groups []linq.Group) []model.Period {
	seen := make(map[model.Period]struct{})
	periods := make([]model.Period, 0, len(groups))
	for _, group := range groups {
		period := group.Key.(recordGroupKey).Period
		if _, ok := seen[period]; !ok {
			seen[period] = struct{}{}
			periods = append(periods, period)
		}
	}
	slices.SortFunc(periods, func(a, b model.Period) bool {
		return a.Before(b)
	})
	return periods
}

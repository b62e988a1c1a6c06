package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/histotrend/backend/internal/app/appconfig"
	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/model/types"
	"github.com/histotrend/backend/internal/pkg/async"
	"github.com/histotrend/backend/internal/pkg/epierr"
	"github.com/histotrend/backend/internal/util"
)

// Engine is the single-pass batch pipeline: normalize → aggregate → fit
// trends and compute associations over the same bucket set. Trend fitting
// and association computation share no mutable state, so they run
// concurrently; assembly re-sorts their outputs so completion order never
// leaks into the result. Partial results are never exposed: any run-level
// failure aborts the whole invocation.
type Engine struct {
	NormalizerService  *Normalizer
	AggregatorService  *Aggregator
	TrendService       *Trend
	AssociationService *Association

	conf *appconfig.Config
}

func NewEngine(
	normalizerService *Normalizer,
	aggregatorService *Aggregator,
	trendService *Trend,
	associationService *Association,
	conf *appconfig.Config,
) *Engine {
	return &Engine{
		NormalizerService:  normalizerService,
		AggregatorService:  aggregatorService,
		TrendService:       trendService,
		AssociationService: associationService,
		conf:               conf,
	}
}

func (s *Engine) Run(ctx context.Context, batches []types.SourceBatch, overrides types.RunOverrides) (*model.ResultSet, error) {
	startedAt := time.Now()

	bucketing, trendConfig, assocConfig, err := s.resolve(overrides)
	if err != nil {
		return nil, err
	}

	diagnostics := &model.Diagnostics{
		OmittedStrata: []*model.OmittedStratum{},
		OmittedPairs:  []*model.OmittedPair{},
	}
	records := make([]model.NormalizedRecord, 0)
	for _, batch := range batches {
		normalized, report, err := s.NormalizerService.Normalize(ctx, batch.Source, batch.Records)
		if err != nil {
			return nil, err
		}
		records = append(records, normalized...)
		diagnostics.RejectionReport.Merge(report)
	}
	if len(records) == 0 {
		return nil, epierr.ErrEmptyResult.WithExtras(epierr.Extras{
			"rejections": diagnostics.Rejections,
		})
	}

	set, err := s.AggregatorService.Aggregate(ctx, records, bucketing)
	if err != nil {
		return nil, err
	}

	var (
		trends       []*model.TrendSeries
		associations []*model.AssociationResult
	)
	err = async.WaitAll(
		async.Errable(func() error {
			var err error
			trends, diagnostics.OmittedStrata, err = s.TrendService.FitAll(ctx, set, trendConfig)
			return err
		}),
		async.Errable(func() error {
			var err error
			associations, diagnostics.OmittedPairs, err = s.AssociationService.CompareAll(ctx, set, assocConfig)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}

	result := &model.ResultSet{
		RunID:           ulid.MustNew(ulid.Timestamp(startedAt), rand.New(rand.NewSource(startedAt.UnixNano()))).String(),
		GeneratedAt:     startedAt,
		CIMethod:        constant.CIMethodWilson,
		ConfidenceLevel: trendConfig.ConfidenceLevel,
		Statistic:       assocConfig.Statistic,
		Reference:       assocConfig.Reference,
		Adjustment:      assocConfig.Adjustment,
		GapPolicy:       trendConfig.GapPolicy,
		Buckets:         set,
		Trends:          trends,
		Associations:    associations,
		Diagnostics:     diagnostics,
	}

	log.Ctx(ctx).Info().
		Str("runId", result.RunID).
		Int("records", len(records)).
		Int("trends", len(trends)).
		Int("associations", len(associations)).
		Dur("duration", time.Since(startedAt)).
		Msg("engine run finished")

	return result, nil
}

// resolve merges per-run overrides over the configured defaults.
func (s *Engine) resolve(overrides types.RunOverrides) (BucketingConfig, TrendConfig, AssociationConfig, error) {
	bucketing := BucketingConfig{WidthYears: s.conf.BucketWidthYears}
	if overrides.BucketWidthYears > 0 {
		bucketing.WidthYears = overrides.BucketWidthYears
	}

	trendConfig := TrendConfig{
		GapPolicy:          s.conf.GapPolicy,
		MinNonEmptyBuckets: s.conf.MinNonEmptyBuckets,
		ConfidenceLevel:    s.conf.ConfidenceLevel,
	}
	if overrides.GapPolicy != "" {
		trendConfig.GapPolicy = strings.ToLower(overrides.GapPolicy)
	}
	if overrides.MinNonEmptyBuckets > 0 {
		trendConfig.MinNonEmptyBuckets = overrides.MinNonEmptyBuckets
	}

	assocConfig := AssociationConfig{
		Reference:       s.conf.ReferenceCategory,
		Statistic:       s.conf.ComparisonStatistic,
		Adjustment:      s.conf.MultipleComparisonPolicy,
		ConfidenceLevel: s.conf.ConfidenceLevel,
	}
	if overrides.Reference != "" {
		assocConfig.Reference = overrides.Reference
	}
	if overrides.Statistic != "" {
		assocConfig.Statistic = strings.ToLower(overrides.Statistic)
	}
	if overrides.Adjustment != "" {
		assocConfig.Adjustment = strings.ToLower(overrides.Adjustment)
	}
	if overrides.Period != "" {
		period := model.PeriodFromString(overrides.Period)
		if !period.Valid() {
			return bucketing, trendConfig, assocConfig, epierr.ErrInvalidReq.Msg("period %q is not a year or year range", overrides.Period)
		}
		// align the requested period onto the bucket grid
		bucketed := util.BucketFor(period, bucketing.WidthYears)
		assocConfig.Period = &bucketed
	}

	return bucketing, trendConfig, assocConfig, nil
}

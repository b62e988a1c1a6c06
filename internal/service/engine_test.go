package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/model/types"
	"github.com/histotrend/backend/internal/pkg/epierr"
	"github.com/histotrend/backend/internal/util"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()

	conf := testConfig()
	normalizer, err := NewNormalizer(conf)
	require.NoError(t, err)
	return NewEngine(normalizer, NewAggregator(conf), NewTrend(conf), NewAssociation(conf), conf)
}

func cohortRaw(year int, exposure, histology string, weight float64) model.RawRecord {
	return model.RawRecord{
		"year_of_diagnosis": strconv.Itoa(year),
		"smoking_status":    exposure,
		"histology":         histology,
		"weight":            weight,
	}
}

// engineBatches is the documented end-to-end scenario: adenocarcinoma
// among current smokers at 30/100, 40/100 and 35/90 against never smokers
// at 5/100, 4/100 and 3/90 over 1980, 1990 and 2000.
func engineBatches() []types.SourceBatch {
	return []types.SourceBatch{{
		Source: "cohort",
		Records: []model.RawRecord{
			cohortRaw(1980, "current", "adenocarcinoma", 30), cohortRaw(1980, "current", "unspecified", 70),
			cohortRaw(1990, "current", "adenocarcinoma", 40), cohortRaw(1990, "current", "unspecified", 60),
			cohortRaw(2000, "current", "adenocarcinoma", 35), cohortRaw(2000, "current", "unspecified", 55),

			cohortRaw(1980, "never", "adenocarcinoma", 5), cohortRaw(1980, "never", "unspecified", 95),
			cohortRaw(1990, "never", "adenocarcinoma", 4), cohortRaw(1990, "never", "unspecified", 96),
			cohortRaw(2000, "never", "adenocarcinoma", 3), cohortRaw(2000, "never", "unspecified", 87),
		},
	}}
}

func TestEngineEndToEnd(t *testing.T) {
	engine := testEngine(t)

	result, err := engine.Run(context.Background(), engineBatches(), types.RunOverrides{
		Statistic: constant.StatisticRatio,
		Reference: "never",
		Period:    "2000",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, constant.CIMethodWilson, result.CIMethod)
	assert.Equal(t, constant.StatisticRatio, result.Statistic)
	assert.Equal(t, "never", result.Reference)

	t.Run("Association", func(t *testing.T) {
		require.Len(t, result.Associations, 1)
		a := result.Associations[0]
		assert.Equal(t, "current", a.Exposure)
		assert.Equal(t, "LUAD", a.Subtype)
		assert.Equal(t, model.Year(2000), a.Period)
		assert.InDelta(t, 11.67, util.RoundFloat64(a.Estimate, 2), 1e-12)
		assert.Greater(t, a.Variance, 0.0)
	})

	t.Run("Diagnostics", func(t *testing.T) {
		assert.Equal(t, 12, result.Diagnostics.Accepted)
		assert.Zero(t, result.Diagnostics.Rejected, "no record was skipped")
		assert.Empty(t, result.Diagnostics.Rejections)
	})

	t.Run("Trends", func(t *testing.T) {
		require.NotEmpty(t, result.Trends)
		for _, series := range result.Trends {
			for _, p := range series.Points {
				assert.LessOrEqual(t, p.Lower, p.Estimate)
				assert.GreaterOrEqual(t, p.Upper, p.Estimate)
			}
		}
	})
}

func TestEngineDeterminism(t *testing.T) {
	engine := testEngine(t)
	overrides := types.RunOverrides{Statistic: constant.StatisticRatio, Reference: "never"}

	reference, err := engine.Run(context.Background(), engineBatches(), overrides)
	require.NoError(t, err)

	batches := engineBatches()
	records := batches[0].Records
	// reverse the record order; results must not move
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	result, err := engine.Run(context.Background(), batches, overrides)
	require.NoError(t, err)

	assert.Equal(t, reference.Buckets, result.Buckets)
	assert.Equal(t, reference.Trends, result.Trends)
	assert.Equal(t, reference.Associations, result.Associations)
}

func TestEngineEmptyResult(t *testing.T) {
	engine := testEngine(t)

	// every record fails the vocabulary check
	batches := []types.SourceBatch{{
		Source: "cohort",
		Records: []model.RawRecord{
			cohortRaw(2000, "socially", "adenocarcinoma", 1),
		},
	}}

	_, err := engine.Run(context.Background(), batches, types.RunOverrides{})
	require.Error(t, err)
	assert.ErrorIs(t, err, epierr.ErrEmptyResult)

	var e *epierr.Error
	require.ErrorAs(t, err, &e)
	require.NotNil(t, e.Extras, "the rejection detail rides along on the error")
}

func TestEngineInvalidPeriodOverride(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.Run(context.Background(), engineBatches(), types.RunOverrides{Period: "someday"})
	require.Error(t, err)
	var e *epierr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, epierr.CodeInvalidRequest, e.ErrorCode)
}

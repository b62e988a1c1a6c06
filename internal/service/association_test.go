package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histotrend/backend/internal/constant"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/pkg/epierr"
	"github.com/histotrend/backend/internal/util"
)

// associationFixture mirrors the documented smoking/adenocarcinoma example:
// current smokers at 30/100, 40/100, 35/90 against never smokers at 5/100,
// 4/100, 3/90 over 1980/1990/2000.
func associationFixture(t *testing.T) *model.BucketSet {
	t.Helper()

	aggregator := NewAggregator(testConfig())
	records := []model.NormalizedRecord{
		cohortRecord(1980, "current", "LUAD", 30), cohortRecord(1980, "current", "unknown", 70),
		cohortRecord(1990, "current", "LUAD", 40), cohortRecord(1990, "current", "unknown", 60),
		cohortRecord(2000, "current", "LUAD", 35), cohortRecord(2000, "current", "unknown", 55),

		cohortRecord(1980, "never", "LUAD", 5), cohortRecord(1980, "never", "unknown", 95),
		cohortRecord(1990, "never", "LUAD", 4), cohortRecord(1990, "never", "unknown", 96),
		cohortRecord(2000, "never", "LUAD", 3), cohortRecord(2000, "never", "unknown", 87),
	}

	set, err := aggregator.Aggregate(context.Background(), records, BucketingConfig{WidthYears: 1})
	require.NoError(t, err)
	return set
}

func TestAssociationRatio(t *testing.T) {
	association := NewAssociation(testConfig())
	set := associationFixture(t)

	result, err := association.Compare(context.Background(), set, "LUAD", model.Year(2000),
		"current", "never", constant.StatisticRatio, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 11.67, util.RoundFloat64(result.Estimate, 2), 1e-12)

	// delta-method variance of the log ratio
	p1, t1 := 35.0/90.0, 90.0
	p0, t0 := 3.0/90.0, 90.0
	wantVar := (1-p1)/(t1*p1) + (1-p0)/(t0*p0)
	assert.InDelta(t, wantVar, result.Variance, 1e-6)

	assert.Less(t, result.Lower, result.Estimate)
	assert.Greater(t, result.Upper, result.Estimate)
	assert.Greater(t, result.PValue, 0.0)
	assert.Less(t, result.PValue, 0.05)
}

func TestAssociationDifference(t *testing.T) {
	association := NewAssociation(testConfig())
	set := associationFixture(t)

	result, err := association.Compare(context.Background(), set, "LUAD", model.Year(2000),
		"current", "never", constant.StatisticDifference, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 35.0/90.0-3.0/90.0, result.Estimate, 1e-6)
	assert.Less(t, result.Lower, result.Estimate)
	assert.Greater(t, result.Upper, result.Estimate)
}

func TestAssociationZeroDenominator(t *testing.T) {
	association := NewAssociation(testConfig())
	set := associationFixture(t)

	t.Run("NoDataStratum", func(t *testing.T) {
		// former has no records at all, so its totals are zero
		_, err := association.Compare(context.Background(), set, "LUAD", model.Year(2000),
			"former", "never", constant.StatisticRatio, 0.95)
		require.Error(t, err)
		assert.ErrorIs(t, err, epierr.ErrZeroDenominator)
	})

	t.Run("ZeroPrevalenceRatio", func(t *testing.T) {
		// never/LUSC has a positive total but a zero count; the ratio
		// denominator prevalence is zero and the ratio undefined
		_, err := association.Compare(context.Background(), set, "LUSC", model.Year(2000),
			"current", "never", constant.StatisticRatio, 0.95)
		require.Error(t, err)
		assert.ErrorIs(t, err, epierr.ErrZeroDenominator)
	})

	t.Run("ZeroPrevalenceDifferenceIsDefined", func(t *testing.T) {
		result, err := association.Compare(context.Background(), set, "LUSC", model.Year(2000),
			"current", "never", constant.StatisticDifference, 0.95)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, result.Estimate, 1e-12)
	})
}

func TestAssociationCompareAll(t *testing.T) {
	association := NewAssociation(testConfig())
	set := associationFixture(t)

	period := model.Year(2000)
	results, omitted, err := association.CompareAll(context.Background(), set, AssociationConfig{
		Reference: "never",
		Statistic: constant.StatisticRatio,
		Period:    &period,
	})
	require.NoError(t, err)

	// former and current against never, three subtypes each; only
	// current/LUAD has a defined ratio
	require.Len(t, results, 1)
	assert.Equal(t, "current", results[0].Exposure)
	assert.Equal(t, "LUAD", results[0].Subtype)
	assert.False(t, results[0].AdjustedP.Valid, "no adjustment requested")

	assert.Len(t, omitted, 5)
	for _, o := range omitted {
		assert.Equal(t, epierr.CodeZeroDenominator, o.Code)
		assert.Equal(t, "never", o.Reference)
	}
}

func TestAssociationAdjustments(t *testing.T) {
	association := NewAssociation(testConfig())
	set := associationFixture(t)

	t.Run("Bonferroni", func(t *testing.T) {
		results, _, err := association.CompareAll(context.Background(), set, AssociationConfig{
			Reference:  "never",
			Statistic:  constant.StatisticRatio,
			Adjustment: constant.AdjustmentBonferroni,
		})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		m := len(results)
		for _, r := range results {
			require.True(t, r.AdjustedP.Valid)
			assert.InDelta(t, util.Bonferroni(r.PValue, m), r.AdjustedP.Float64, 1e-6)
			assert.Equal(t, constant.AdjustmentBonferroni, r.Adjustment)
		}
	})

	t.Run("FDRNeverBelowRaw", func(t *testing.T) {
		results, _, err := association.CompareAll(context.Background(), set, AssociationConfig{
			Reference:  "never",
			Statistic:  constant.StatisticRatio,
			Adjustment: constant.AdjustmentFDR,
		})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, r := range results {
			require.True(t, r.AdjustedP.Valid)
			assert.GreaterOrEqual(t, r.AdjustedP.Float64, r.PValue)
			assert.LessOrEqual(t, r.AdjustedP.Float64, 1.0)
		}
	})
}

func TestAssociationUnknownReference(t *testing.T) {
	association := NewAssociation(testConfig())
	set := associationFixture(t)

	_, _, err := association.CompareAll(context.Background(), set, AssociationConfig{Reference: "heavy"})
	require.Error(t, err)
	var e *epierr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, epierr.CodeInvalidRequest, e.ErrorCode)
}

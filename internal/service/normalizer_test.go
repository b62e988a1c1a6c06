package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/pkg/epierr"
)

func TestNormalizerCohortSource(t *testing.T) {
	normalizer, err := NewNormalizer(testConfig())
	require.NoError(t, err)

	records := []model.RawRecord{
		{"subject_id": "s1", "year_of_diagnosis": "2000", "smoking_status": "current", "histology": "adenocarcinoma", "weight": "1"},
		{"subject_id": "s2", "year_of_diagnosis": "2000", "smoking_status": "never", "histology": "squamous"},
		{"subject_id": "s3", "year_of_diagnosis": "2000", "smoking_status": "never", "histology": "unspecified"},
	}

	normalized, report, err := normalizer.Normalize(context.Background(), "cohort", records)
	require.NoError(t, err)
	require.Len(t, normalized, 3)
	assert.Equal(t, 3, report.Accepted)
	assert.Equal(t, 0, report.Rejected)

	assert.Equal(t, "LUAD", normalized[0].Subtype, "relabels registry histology names")
	assert.Equal(t, "LUSC", normalized[1].Subtype)
	assert.Equal(t, 1.0, normalized[1].Weight, "missing weight defaults to 1")
	assert.Equal(t, "unknown", normalized[2].Subtype, "unspecified maps to the unknown value")
	assert.Equal(t, "s1", normalized[0].SubjectID.String)
}

func TestNormalizerSurveySource(t *testing.T) {
	normalizer, err := NewNormalizer(testConfig())
	require.NoError(t, err)

	records := []model.RawRecord{
		{"year": "1990", "smoking_status": "Current smoker", "count": "120"},
	}

	normalized, _, err := normalizer.Normalize(context.Background(), "brfss", records)
	require.NoError(t, err)
	require.Len(t, normalized, 1)
	assert.Equal(t, "current", normalized[0].Exposure)
	assert.Equal(t, "unknown", normalized[0].Subtype, "survey rows carry no outcome and default to unknown")
	assert.Equal(t, 120.0, normalized[0].Weight, "the count column is the record weight")
}

func TestNormalizerRejections(t *testing.T) {
	normalizer, err := NewNormalizer(testConfig())
	require.NoError(t, err)

	t.Run("SchemaViolations", func(t *testing.T) {
		records := []model.RawRecord{
			{"smoking_status": "never", "histology": "squamous"},                                        // no period
			{"year_of_diagnosis": "not-a-year", "smoking_status": "never", "histology": "squamous"},     // unparseable period
			{"year_of_diagnosis": "2000", "smoking_status": "never", "histology": "squamous", "weight": "-3"}, // negative weight
		}

		normalized, report, err := normalizer.Normalize(context.Background(), "cohort", records)
		require.NoError(t, err, "record-level failures never abort the batch")
		assert.Empty(t, normalized)
		assert.Equal(t, 3, report.Rejected)
		for _, rejection := range report.Rejections {
			assert.Equal(t, epierr.CodeSchema, rejection.Code)
		}
	})

	t.Run("VocabularyViolations", func(t *testing.T) {
		records := []model.RawRecord{
			{"year_of_diagnosis": "2000", "smoking_status": "sometimes", "histology": "squamous"},
			{"year_of_diagnosis": "2000", "smoking_status": "never", "histology": "melanoma"},
		}

		normalized, report, err := normalizer.Normalize(context.Background(), "cohort", records)
		require.NoError(t, err)
		assert.Empty(t, normalized)
		assert.Equal(t, 2, report.Rejected)
		for _, rejection := range report.Rejections {
			assert.Equal(t, epierr.CodeVocabulary, rejection.Code)
		}
	})

	t.Run("UnknownSource", func(t *testing.T) {
		_, _, err := normalizer.Normalize(context.Background(), "nhanes", []model.RawRecord{{}})
		require.Error(t, err)
		var e *epierr.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, epierr.CodeInvalidRequest, e.ErrorCode)
	})
}

func TestNormalizerRejectRules(t *testing.T) {
	conf := testConfig()
	conf.RejectRules = []model.RejectRule{
		{Name: "drop-pilot-wave", Expr: `source == "cohort" && record.wave == "pilot"`},
	}
	normalizer, err := NewNormalizer(conf)
	require.NoError(t, err)

	records := []model.RawRecord{
		{"year_of_diagnosis": "2000", "smoking_status": "never", "histology": "squamous", "wave": "pilot"},
		{"year_of_diagnosis": "2000", "smoking_status": "never", "histology": "squamous", "wave": "main"},
	}

	normalized, report, err := normalizer.Normalize(context.Background(), "cohort", records)
	require.NoError(t, err)
	assert.Len(t, normalized, 1)
	assert.Equal(t, 1, report.Rejected)
	require.Len(t, report.Rejections, 1)
	assert.Contains(t, report.Rejections[0].Reason, "drop-pilot-wave")
}

func TestNormalizerInvalidRejectRule(t *testing.T) {
	conf := testConfig()
	conf.RejectRules = []model.RejectRule{{Name: "broken", Expr: "((("}}
	_, err := NewNormalizer(conf)
	assert.Error(t, err)
}

package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/guregu/null.v3"

	"github.com/histotrend/backend/internal/app/appconfig"
	"github.com/histotrend/backend/internal/model"
	"github.com/histotrend/backend/internal/pkg/epierr"
)

// Normalizer maps raw survey/registry records onto the normalized schema
// using the per-source field mappings, rejecting records that violate the
// schema or the category vocabulary. It is a pure transform: the only
// output besides the accepted set is the rejection report.
type Normalizer struct {
	mappings map[string]*model.SourceMapping
	vocab    model.Vocabulary
	rules    []compiledRule
}

type compiledRule struct {
	name    string
	program *vm.Program
}

func NewNormalizer(conf *appconfig.Config) (*Normalizer, error) {
	rules := make([]compiledRule, 0, len(conf.RejectRules))
	for _, rule := range conf.RejectRules {
		program, err := expr.Compile(rule.Expr, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, errors.Wrapf(err, "compiling reject rule %q", rule.Name)
		}
		rules = append(rules, compiledRule{name: rule.Name, program: program})
	}

	return &Normalizer{
		mappings: conf.SourceMappings,
		vocab:    conf.Vocabulary(),
		rules:    rules,
	}, nil
}

// Normalize maps one declared source's raw records. Record-level failures
// (schema, vocabulary, reject rules) skip the record and accumulate in the
// returned report; they never abort the batch.
func (s *Normalizer) Normalize(ctx context.Context, source string, records []model.RawRecord) ([]model.NormalizedRecord, *model.RejectionReport, error) {
	mapping, ok := s.mappings[source]
	if !ok {
		return nil, nil, epierr.ErrInvalidReq.Msg("unknown source %q: no field mapping declared", source)
	}

	report := &model.RejectionReport{}
	normalized := make([]model.NormalizedRecord, 0, len(records))

	for _, raw := range records {
		if ruleName, rejected := s.matchRejectRule(source, raw); rejected {
			report.Add(source, epierr.CodeSchema, "reject rule: "+ruleName)
			continue
		}

		record, err := s.normalizeOne(source, mapping, raw)
		if err != nil {
			var e *epierr.Error
			if errors.As(err, &e) {
				report.Add(source, e.ErrorCode, e.Message)
				continue
			}
			return nil, nil, err
		}

		normalized = append(normalized, record)
		report.Accepted++
	}

	if l := log.Ctx(ctx).Debug(); l.Enabled() {
		l.Str("source", source).
			Int("accepted", report.Accepted).
			Int("rejected", report.Rejected).
			Msg("normalized raw records")
	}

	return normalized, report, nil
}

func (s *Normalizer) normalizeOne(source string, mapping *model.SourceMapping, raw model.RawRecord) (model.NormalizedRecord, error) {
	periodStr, err := requiredField(mapping, raw, model.FieldPeriod)
	if err != nil {
		return model.NormalizedRecord{}, err
	}
	period := model.PeriodFromString(periodStr)
	if !period.Valid() {
		return model.NormalizedRecord{}, epierr.ErrSchema.Msg("field %q: %q is not a year or year range", model.FieldPeriod, periodStr)
	}

	exposure, err := requiredField(mapping, raw, model.FieldExposure)
	if err != nil {
		return model.NormalizedRecord{}, err
	}
	exposure = relabel(mapping, model.FieldExposure, exposure)
	if !s.vocab.HasExposure(exposure) {
		return model.NormalizedRecord{}, epierr.ErrVocabulary.Msg("exposure category %q is not in the vocabulary", exposure)
	}

	subtype, err := requiredField(mapping, raw, model.FieldSubtype)
	if err != nil {
		return model.NormalizedRecord{}, err
	}
	subtype = relabel(mapping, model.FieldSubtype, subtype)
	if !s.vocab.HasSubtype(subtype) {
		return model.NormalizedRecord{}, epierr.ErrVocabulary.Msg("subtype %q is not in the vocabulary", subtype)
	}

	weight := 1.0
	if fieldName, ok := mapping.Fields[model.FieldWeight]; ok {
		if value, present := raw[fieldName]; present {
			weight, err = toFloat(value)
			if err != nil {
				return model.NormalizedRecord{}, epierr.ErrSchema.Msg("field %q: %v is not numeric", fieldName, value)
			}
			if weight < 0 {
				return model.NormalizedRecord{}, epierr.ErrSchema.Msg("field %q: weight %v is negative", fieldName, weight)
			}
		}
	}

	var subjectID null.String
	if fieldName, ok := mapping.Fields[model.FieldSubjectID]; ok {
		if value, present := raw[fieldName]; present {
			subjectID = null.StringFrom(toString(value))
		}
	}

	return model.NormalizedRecord{
		SubjectID: subjectID,
		Period:    period,
		Exposure:  exposure,
		Subtype:   subtype,
		Weight:    weight,
		Source:    source,
	}, nil
}

func (s *Normalizer) matchRejectRule(source string, raw model.RawRecord) (string, bool) {
	if len(s.rules) == 0 {
		return "", false
	}

	env := map[string]any{
		"source": source,
		"record": map[string]any(raw),
	}
	for _, rule := range s.rules {
		result, err := expr.Run(rule.program, env)
		if err != nil {
			log.Error().
				Err(err).
				Str("evt.name", "normalizer.reject_rule.eval_error").
				Str("rule", rule.name).
				Msg("failed to evaluate reject rule")
			continue
		}
		if matched, ok := result.(bool); ok && matched {
			return rule.name, true
		}
	}
	return "", false
}

func requiredField(mapping *model.SourceMapping, raw model.RawRecord, canonical string) (string, error) {
	fieldName, mapped := mapping.Fields[canonical]
	if mapped {
		if value, ok := raw[fieldName]; ok {
			return toString(value), nil
		}
	}
	if def, ok := mapping.Defaults[canonical]; ok {
		return def, nil
	}
	if !mapped {
		return "", epierr.ErrSchema.Msg("source declares no mapping nor default for required field %q", canonical)
	}
	return "", epierr.ErrSchema.Msg("required field %q (source field %q) is absent", canonical, fieldName)
}

func relabel(mapping *model.SourceMapping, canonical, value string) string {
	if table, ok := mapping.Relabels[canonical]; ok {
		if relabeled, ok := table[value]; ok {
			return relabeled
		}
	}
	return value
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, errors.Errorf("unsupported numeric type %T", value)
	}
}

// Package loader turns on-disk survey and registry exports into flat
// RawRecord sequences for the normalizer. Loaders do no validation beyond
// basic file-shape checks: schema and vocabulary enforcement is the
// normalizer's job, so malformed values surface in the rejection report
// instead of being dropped at the door.
package loader

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/histotrend/backend/internal/model"
)

// Survey reads survey count exports: one CSV row per (year, demographic,
// smoking status) cell with a respondent count, the processed shape of
// BRFSS-style prevalence surveys.
type Survey struct{}

func NewSurvey() *Survey {
	return &Survey{}
}

// Load reads the whole CSV into raw records keyed by the header row.
func (l *Survey) Load(r io.Reader, source string) ([]model.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of survey source %q", source)
	}

	records := make([]model.RawRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading survey source %q", source)
		}

		record := make(model.RawRecord, len(header))
		for i, field := range header {
			if i < len(row) {
				record[field] = row[i]
			}
		}
		records = append(records, record)
	}

	log.Debug().
		Str("source", source).
		Int("records", len(records)).
		Msg("loaded survey records")

	return records, nil
}

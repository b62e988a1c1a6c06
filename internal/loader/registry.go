package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/histotrend/backend/internal/model"
)

// Registry reads per-case registry/cohort exports: one JSON object per
// line, the export shape of SEER*Stat-style case listings.
type Registry struct{}

func NewRegistry() *Registry {
	return &Registry{}
}

// Load flattens each JSONL line's top-level fields into a raw record.
// Non-JSON lines are an error: a malformed export file is a load failure,
// not a record-level rejection.
func (l *Registry) Load(r io.Reader, source string) ([]model.RawRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	records := make([]model.RawRecord, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parsed := gjson.Parse(line)
		if !parsed.IsObject() {
			return nil, errors.Errorf("registry source %q: line %d is not a JSON object", source, lineNo)
		}

		record := make(model.RawRecord)
		parsed.ForEach(func(key, value gjson.Result) bool {
			switch value.Type {
			case gjson.Number:
				record[key.String()] = value.Float()
			case gjson.True, gjson.False:
				record[key.String()] = value.Bool()
			default:
				record[key.String()] = value.String()
			}
			return true
		})
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading registry source %q", source)
	}

	log.Debug().
		Str("source", source).
		Int("records", len(records)).
		Msg("loaded registry records")

	return records, nil
}

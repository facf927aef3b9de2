// Package staging normalizes raw records into canonical staged rows: invalid
// records are filtered, time codes are parsed onto a common date axis, and a
// deterministic surrogate key is attached.
package staging

import (
	"log/slog"
	"regexp"
	"time"

	"github.com/euromarts-io/euromarts/internal/keygen"
	"github.com/euromarts-io/euromarts/internal/metrics"
	"github.com/euromarts-io/euromarts/internal/source"
	"github.com/euromarts-io/euromarts/pkg/types"
)

var (
	annualTimeRe  = regexp.MustCompile(`^(\d{4})$`)
	monthlyTimeRe = regexp.MustCompile(`^(\d{4})-(\d{2})`)
)

// Transformer stages raw batches per dataset spec.
type Transformer struct {
	logger *slog.Logger
}

// New creates a staging transformer. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// Stage filters and canonicalizes one dataset's raw batch. Malformed
// individual records are silently excluded; a batch with zero valid records
// is a valid, if informationally empty, result. Staging the same batch twice
// yields an identical row set.
func (t *Transformer) Stage(spec source.DatasetSpec, records []types.RawRecord) []types.StagedRow {
	rows := make([]types.StagedRow, 0, len(records))
	dropped := 0

	for _, rec := range records {
		if rec.Value == nil || rec.TimeCode == "" || rec.GeoCode == "" {
			dropped++
			continue
		}

		year, month, ok := parseTimeCode(spec.Frequency, rec.TimeCode)
		if !ok {
			dropped++
			continue
		}

		refMonth := month
		if refMonth == 0 {
			refMonth = 1
		}
		row := types.StagedRow{
			SurrogateKey:   keygen.Key(naturalKeyValues(spec, rec)...),
			CountryCode:    rec.GeoCode,
			CountryLabel:   rec.GeoLabel,
			ReferenceYear:  year,
			ReferenceMonth: month,
			ReferenceDate:  time.Date(year, time.Month(refMonth), 1, 0, 0, 0, 0, time.UTC),
			Value:          *rec.Value,
			UnitCode:       rec.UnitCode,
			SourceDataset:  spec.SourceCode,
			ExtractedAt:    rec.ExtractedAt,
		}
		rows = append(rows, row)
	}

	metrics.RecordsStaged.Add(int64(len(rows)))
	if dropped > 0 {
		t.logger.Debug("dropped malformed records",
			"dataset", spec.Name, "dropped", dropped, "staged", len(rows))
	}
	return rows
}

// parseTimeCode parses an annual "YYYY" or monthly "YYYY-MM" time code. The
// returned month is 0 for annual series. Monthly codes must encode at least a
// 4-digit year and 2-digit month.
func parseTimeCode(freq types.Frequency, code string) (year, month int, ok bool) {
	switch freq {
	case types.FrequencyAnnual:
		m := annualTimeRe.FindStringSubmatch(code)
		if m == nil {
			return 0, 0, false
		}
		return atoi(m[1]), 0, true
	case types.FrequencyMonthly:
		m := monthlyTimeRe.FindStringSubmatch(code)
		if m == nil {
			return 0, 0, false
		}
		year, month = atoi(m[1]), atoi(m[2])
		if month < 1 || month > 12 {
			return 0, 0, false
		}
		return year, month, true
	default:
		return 0, 0, false
	}
}

// naturalKeyValues resolves the spec's natural key field names against a raw
// record, in declared order. Unknown fields resolve through the record's
// dataset-specific attributes.
func naturalKeyValues(spec source.DatasetSpec, rec types.RawRecord) []any {
	values := make([]any, len(spec.NaturalKey))
	for i, name := range spec.NaturalKey {
		switch name {
		case "geo_code":
			values[i] = rec.GeoCode
		case "time_code":
			values[i] = rec.TimeCode
		case "dataset_code":
			values[i] = rec.DatasetCode
		case "unit_code":
			values[i] = rec.UnitCode
		default:
			values[i] = rec.Attributes[name]
		}
	}
	return values
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

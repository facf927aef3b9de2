// Package marts builds the consumption-ready tables: the country dimension
// and the annual summary with rankings, year-over-year deltas, and
// share-of-aggregate comparisons. Both are fully recomputed each run.
package marts

import (
	"sort"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// Dimension unions the static country seed with data-availability statistics
// derived from the annual and monthly tables. Countries observed in the data
// but missing from the seed still get a dimension row.
func Dimension(seed []types.CountryMeta, annual []types.AnnualMetricRow,
	monthly []types.MonthlyIndicatorRow, aggregateEntity string) []types.DimensionRow {

	meta := make(map[string]types.CountryMeta, len(seed))
	for _, m := range seed {
		meta[m.CountryCode] = m
	}

	type availability struct {
		years        map[int]struct{}
		monthlyCount int
		name         string
	}
	avail := make(map[string]*availability)
	get := func(code string) *availability {
		a, ok := avail[code]
		if !ok {
			a = &availability{years: make(map[int]struct{})}
			avail[code] = a
		}
		return a
	}
	for _, r := range annual {
		a := get(r.CountryCode)
		a.years[r.ReferenceYear] = struct{}{}
		if a.name == "" {
			a.name = r.CountryName
		}
	}
	for _, r := range monthly {
		get(r.CountryCode).monthlyCount++
	}

	codes := make(map[string]struct{}, len(meta)+len(avail))
	for c := range meta {
		codes[c] = struct{}{}
	}
	for c := range avail {
		codes[c] = struct{}{}
	}

	out := make([]types.DimensionRow, 0, len(codes))
	for code := range codes {
		row := types.DimensionRow{
			CountryCode: code,
			IsAggregate: code == aggregateEntity,
		}
		if m, ok := meta[code]; ok {
			row.CountryName = m.CountryName
			row.EUMemberSince = m.EUMemberSince
			row.EurozoneMember = m.EurozoneMember
			row.Region = m.Region
			row.Subregion = m.Subregion
		}
		if a, ok := avail[code]; ok {
			if row.CountryName == "" {
				row.CountryName = a.name
			}
			row.MonthlyObservations = a.monthlyCount
			row.YearsObserved = len(a.years)
			for y := range a.years {
				if row.FirstYearObserved == nil || y < *row.FirstYearObserved {
					row.FirstYearObserved = types.Int(y)
				}
				if row.LastYearObserved == nil || y > *row.LastYearObserved {
					row.LastYearObserved = types.Int(y)
				}
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out
}

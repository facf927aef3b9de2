// Package aggregate derives the intermediate business entities from staged
// rows: annual country-year metrics and the monthly indicator spine with its
// windowed analytics. Both transforms are fully recomputed from their inputs
// on each run; there is no hidden state.
package aggregate

import (
	"sort"

	"github.com/euromarts-io/euromarts/internal/window"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// monthsPerYear is the observation count that marks a monthly series as
// complete for a country-year.
const monthsPerYear = 12

// Inputs are the staged datasets feeding the annual aggregation.
type Inputs struct {
	GDP          []types.StagedRow
	Population   []types.StagedRow
	Unemployment []types.StagedRow
	Inflation    []types.StagedRow
}

type countryYear struct {
	country string
	year    int
}

type monthlyStats struct {
	sum, min, max float64
	count         int
}

// Annual aggregates the staged inputs into one row per country-year. Keys are
// the union across all four datasets; a key missing from a dataset yields
// nulls in that dataset's columns via outer-join semantics, not a failed run.
func Annual(in Inputs) []types.AnnualMetricRow {
	gdp := latestByCountryYear(in.GDP)
	population := latestByCountryYear(in.Population)
	unemployment := statsByCountryYear(in.Unemployment)
	inflation := statsByCountryYear(in.Inflation)

	names := make(map[string]string)
	keys := make(map[countryYear]struct{})
	for _, rows := range [][]types.StagedRow{in.GDP, in.Population, in.Unemployment, in.Inflation} {
		for _, r := range rows {
			keys[countryYear{r.CountryCode, r.ReferenceYear}] = struct{}{}
			if names[r.CountryCode] == "" {
				names[r.CountryCode] = r.CountryLabel
			}
		}
	}

	out := make([]types.AnnualMetricRow, 0, len(keys))
	for key := range keys {
		row := types.AnnualMetricRow{
			CountryCode:   key.country,
			CountryName:   names[key.country],
			ReferenceYear: key.year,
		}
		if v, ok := gdp[key]; ok {
			row.GDPMillionEUR = types.Float(v)
		}
		if v, ok := population[key]; ok {
			row.PopulationCount = types.Float(v)
		}
		// GDP is reported in million EUR; population of zero or null yields
		// a null per-capita figure, never an error or infinity.
		var gdpEUR *float64
		if row.GDPMillionEUR != nil {
			gdpEUR = types.Float(*row.GDPMillionEUR * 1_000_000)
		}
		row.GDPPerCapitaEUR = window.SafeDiv(gdpEUR, row.PopulationCount)

		if s, ok := unemployment[key]; ok {
			row.AvgUnemploymentRate = types.Float(s.sum / float64(s.count))
			row.MinUnemploymentRate = types.Float(s.min)
			row.MaxUnemploymentRate = types.Float(s.max)
			row.UnemploymentObservations = s.count
		}
		if s, ok := inflation[key]; ok {
			row.AvgInflationRate = types.Float(s.sum / float64(s.count))
			row.MinInflationRate = types.Float(s.min)
			row.MaxInflationRate = types.Float(s.max)
			row.InflationObservations = s.count
		}
		row.HasCompleteUnemploymentData = row.UnemploymentObservations == monthsPerYear
		row.HasCompleteInflationData = row.InflationObservations == monthsPerYear

		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CountryCode != out[j].CountryCode {
			return out[i].CountryCode < out[j].CountryCode
		}
		return out[i].ReferenceYear < out[j].ReferenceYear
	})
	return out
}

// latestByCountryYear collapses an annual dataset onto (country, year),
// keeping the most recently extracted value when duplicates occur.
func latestByCountryYear(rows []types.StagedRow) map[countryYear]float64 {
	extracted := make(map[countryYear]types.StagedRow)
	for _, r := range rows {
		key := countryYear{r.CountryCode, r.ReferenceYear}
		if prev, ok := extracted[key]; ok && !r.ExtractedAt.After(prev.ExtractedAt) {
			continue
		}
		extracted[key] = r
	}
	out := make(map[countryYear]float64, len(extracted))
	for key, r := range extracted {
		out[key] = r.Value
	}
	return out
}

// statsByCountryYear computes avg/min/max/count inputs for a monthly dataset
// grouped by (country, year).
func statsByCountryYear(rows []types.StagedRow) map[countryYear]monthlyStats {
	out := make(map[countryYear]monthlyStats)
	for _, r := range rows {
		key := countryYear{r.CountryCode, r.ReferenceYear}
		s, ok := out[key]
		if !ok {
			s = monthlyStats{min: r.Value, max: r.Value}
		}
		s.sum += r.Value
		s.count++
		if r.Value < s.min {
			s.min = r.Value
		}
		if r.Value > s.max {
			s.max = r.Value
		}
		out[key] = s
	}
	return out
}

package aggregate

import (
	"sort"
	"time"

	"github.com/euromarts-io/euromarts/internal/keygen"
	"github.com/euromarts-io/euromarts/internal/window"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// trailingWindow is the trailing-average span in months.
const trailingWindow = 12

type countryDate struct {
	country string
	date    time.Time
}

// Monthly builds the canonical monthly spine and computes the windowed
// analytics. The spine is the distinct (country, reference date) pairs of the
// unemployment series — the dataset least likely to have gaps — with
// inflation and annual context left-joined on, so measures are nullable.
// Lags and trailing averages are computed per country in date order; windows
// at the start of a country's series yield nulls, not errors.
func Monthly(unemployment, inflation []types.StagedRow, annual []types.AnnualMetricRow) []types.MonthlyIndicatorRow {
	unemploymentVals := latestByCountryDate(unemployment)
	inflationVals := latestByCountryDate(inflation)

	annualCtx := make(map[countryYear]types.AnnualMetricRow, len(annual))
	for _, a := range annual {
		annualCtx[countryYear{a.CountryCode, a.ReferenceYear}] = a
	}

	// Spine: distinct country-months from the unemployment series.
	spineByCountry := make(map[string][]time.Time)
	for key := range unemploymentVals {
		spineByCountry[key.country] = append(spineByCountry[key.country], key.date)
	}
	countries := make([]string, 0, len(spineByCountry))
	for c := range spineByCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	var out []types.MonthlyIndicatorRow
	for _, country := range countries {
		dates := spineByCountry[country]
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		unemploymentSeries := make([]*float64, len(dates))
		inflationSeries := make([]*float64, len(dates))
		for i, d := range dates {
			if v, ok := unemploymentVals[countryDate{country, d}]; ok {
				unemploymentSeries[i] = types.Float(v)
			}
			if v, ok := inflationVals[countryDate{country, d}]; ok {
				inflationSeries[i] = types.Float(v)
			}
		}

		unemploymentPrevMonth := window.Lag(unemploymentSeries, 1)
		unemploymentPrevYear := window.Lag(unemploymentSeries, 12)
		unemploymentAvg := window.TrailingMean(unemploymentSeries, trailingWindow)
		inflationPrevMonth := window.Lag(inflationSeries, 1)
		inflationPrevYear := window.Lag(inflationSeries, 12)
		inflationAvg := window.TrailingMean(inflationSeries, trailingWindow)

		for i, d := range dates {
			row := types.MonthlyIndicatorRow{
				IndicatorKey:   keygen.Key(country, d),
				CountryCode:    country,
				ReferenceDate:  d,
				ReferenceYear:  d.Year(),
				ReferenceMonth: int(d.Month()),

				UnemploymentRate:          unemploymentSeries[i],
				UnemploymentRatePrevMonth: unemploymentPrevMonth[i],
				UnemploymentRatePrevYear:  unemploymentPrevYear[i],
				UnemploymentRate12MoAvg:   unemploymentAvg[i],

				InflationRate:          inflationSeries[i],
				InflationRatePrevMonth: inflationPrevMonth[i],
				InflationRatePrevYear:  inflationPrevYear[i],
				InflationRate12MoAvg:   inflationAvg[i],
			}
			if a, ok := annualCtx[countryYear{country, d.Year()}]; ok {
				row.GDPMillionEUR = a.GDPMillionEUR
				row.PopulationCount = a.PopulationCount
				row.GDPPerCapitaEUR = a.GDPPerCapitaEUR
			}
			out = append(out, row)
		}
	}
	return out
}

// latestByCountryDate collapses a monthly dataset onto (country, date),
// keeping the most recently extracted value when duplicates occur.
func latestByCountryDate(rows []types.StagedRow) map[countryDate]float64 {
	extracted := make(map[countryDate]types.StagedRow)
	for _, r := range rows {
		key := countryDate{r.CountryCode, r.ReferenceDate}
		if prev, ok := extracted[key]; ok && !r.ExtractedAt.After(prev.ExtractedAt) {
			continue
		}
		extracted[key] = r
	}
	out := make(map[countryDate]float64, len(extracted))
	for key, r := range extracted {
		out[key] = r.Value
	}
	return out
}

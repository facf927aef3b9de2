package marts

import (
	"sort"

	"github.com/euromarts-io/euromarts/internal/window"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// Summary enriches the annual metrics with within-year competition ranks,
// year-over-year percentage changes, and share-of-aggregate columns. Rows for
// aggregateEntity supply the share denominators but are excluded from the
// ranking population and from the output.
func Summary(annual []types.AnnualMetricRow, aggregateEntity string) []types.SummaryRow {
	type aggregate struct {
		gdp        *float64
		population *float64
	}
	aggByYear := make(map[int]aggregate)
	countries := make([]types.AnnualMetricRow, 0, len(annual))
	for _, r := range annual {
		if r.CountryCode == aggregateEntity {
			aggByYear[r.ReferenceYear] = aggregate{gdp: r.GDPMillionEUR, population: r.PopulationCount}
			continue
		}
		countries = append(countries, r)
	}

	sort.Slice(countries, func(i, j int) bool {
		if countries[i].ReferenceYear != countries[j].ReferenceYear {
			return countries[i].ReferenceYear < countries[j].ReferenceYear
		}
		return countries[i].CountryCode < countries[j].CountryCode
	})

	out := make([]types.SummaryRow, len(countries))
	for i, r := range countries {
		agg := aggByYear[r.ReferenceYear]
		out[i] = types.SummaryRow{
			CountryCode:   r.CountryCode,
			CountryName:   r.CountryName,
			ReferenceYear: r.ReferenceYear,

			GDPMillionEUR:       r.GDPMillionEUR,
			GDPPerCapitaEUR:     r.GDPPerCapitaEUR,
			AvgUnemploymentRate: r.AvgUnemploymentRate,
			AvgInflationRate:    r.AvgInflationRate,

			GDPShareOfAggregatePct:        window.Share(r.GDPMillionEUR, agg.gdp),
			PopulationShareOfAggregatePct: window.Share(r.PopulationCount, agg.population),
		}
	}

	rankWithinYears(out)
	applyYoY(out)
	return out
}

// rankWithinYears assigns competition ranks per reference year. GDP and GDP
// per capita rank descending; unemployment and inflation rank ascending so
// rank 1 is the best performer on every column.
func rankWithinYears(rows []types.SummaryRow) {
	byYear := make(map[int][]int)
	for i, r := range rows {
		byYear[r.ReferenceYear] = append(byYear[r.ReferenceYear], i)
	}
	for _, idx := range byYear {
		gdp := make([]*float64, len(idx))
		perCapita := make([]*float64, len(idx))
		unemployment := make([]*float64, len(idx))
		inflation := make([]*float64, len(idx))
		for j, i := range idx {
			gdp[j] = rows[i].GDPMillionEUR
			perCapita[j] = rows[i].GDPPerCapitaEUR
			unemployment[j] = rows[i].AvgUnemploymentRate
			inflation[j] = rows[i].AvgInflationRate
		}
		gdpRank := window.CompetitionRank(gdp, true)
		perCapitaRank := window.CompetitionRank(perCapita, true)
		unemploymentRank := window.CompetitionRank(unemployment, false)
		inflationRank := window.CompetitionRank(inflation, false)
		for j, i := range idx {
			rows[i].GDPRank = gdpRank[j]
			rows[i].GDPPerCapitaRank = perCapitaRank[j]
			rows[i].UnemploymentRank = unemploymentRank[j]
			rows[i].InflationRank = inflationRank[j]
		}
	}
}

// applyYoY computes year-over-year percentage changes via a one-period lag
// within each country's year-ordered series. A gap year still compares
// against the previous available row, matching the lag-over-ordered-rows
// semantics of the monthly analytics.
func applyYoY(rows []types.SummaryRow) {
	byCountry := make(map[string][]int)
	for i, r := range rows {
		byCountry[r.CountryCode] = append(byCountry[r.CountryCode], i)
	}
	for _, idx := range byCountry {
		sort.Slice(idx, func(a, b int) bool {
			return rows[idx[a]].ReferenceYear < rows[idx[b]].ReferenceYear
		})
		gdp := make([]*float64, len(idx))
		unemployment := make([]*float64, len(idx))
		inflation := make([]*float64, len(idx))
		for j, i := range idx {
			gdp[j] = rows[i].GDPMillionEUR
			unemployment[j] = rows[i].AvgUnemploymentRate
			inflation[j] = rows[i].AvgInflationRate
		}
		gdpPrev := window.Lag(gdp, 1)
		unemploymentPrev := window.Lag(unemployment, 1)
		inflationPrev := window.Lag(inflation, 1)
		for j, i := range idx {
			rows[i].GDPYoYPct = window.PctChange(gdp[j], gdpPrev[j])
			rows[i].UnemploymentYoYPct = window.PctChange(unemployment[j], unemploymentPrev[j])
			rows[i].InflationYoYPct = window.PctChange(inflation[j], inflationPrev[j])
		}
	}
}

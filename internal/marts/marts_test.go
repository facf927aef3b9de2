package marts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euromarts-io/euromarts/pkg/types"
)

const aggregateEntity = "EU27_2020"

func annualRow(country string, year int, gdp, unemployment, inflation *float64) types.AnnualMetricRow {
	return types.AnnualMetricRow{
		CountryCode:         country,
		CountryName:         country,
		ReferenceYear:       year,
		GDPMillionEUR:       gdp,
		AvgUnemploymentRate: unemployment,
		AvgInflationRate:    inflation,
	}
}

func TestSummary_RanksWithinYear(t *testing.T) {
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2023, types.Float(4_000_000), types.Float(3.0), types.Float(6.0)),
		annualRow("FR", 2023, types.Float(2_800_000), types.Float(7.3), types.Float(4.9)),
		annualRow("IT", 2023, types.Float(2_100_000), types.Float(7.7), types.Float(5.6)),
	}

	rows := Summary(annual, aggregateEntity)
	require.Len(t, rows, 3)

	byCode := indexByCode(rows, 2023)
	assert.Equal(t, 1, *byCode["DE"].GDPRank)
	assert.Equal(t, 2, *byCode["FR"].GDPRank)
	assert.Equal(t, 3, *byCode["IT"].GDPRank)

	// Lowest unemployment ranks first.
	assert.Equal(t, 1, *byCode["DE"].UnemploymentRank)
	assert.Equal(t, 2, *byCode["FR"].UnemploymentRank)
	assert.Equal(t, 3, *byCode["IT"].UnemploymentRank)

	assert.Equal(t, 1, *byCode["FR"].InflationRank)
	assert.Equal(t, 2, *byCode["IT"].InflationRank)
	assert.Equal(t, 3, *byCode["DE"].InflationRank)
}

func TestSummary_TiesShareRankAndSkipNext(t *testing.T) {
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2023, types.Float(1000), nil, nil),
		annualRow("FR", 2023, types.Float(1000), nil, nil),
		annualRow("IT", 2023, types.Float(900), nil, nil),
	}

	byCode := indexByCode(Summary(annual, aggregateEntity), 2023)
	assert.Equal(t, 1, *byCode["DE"].GDPRank)
	assert.Equal(t, 1, *byCode["FR"].GDPRank)
	assert.Equal(t, 3, *byCode["IT"].GDPRank)
}

func TestSummary_NilMetricUnranked(t *testing.T) {
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2023, types.Float(1000), nil, nil),
		annualRow("FR", 2023, nil, nil, nil),
	}

	byCode := indexByCode(Summary(annual, aggregateEntity), 2023)
	assert.Equal(t, 1, *byCode["DE"].GDPRank)
	assert.Nil(t, byCode["FR"].GDPRank)
	assert.Nil(t, byCode["DE"].UnemploymentRank)
}

func TestSummary_AggregateEntityExcludedButSuppliesShares(t *testing.T) {
	eu := annualRow(aggregateEntity, 2023, types.Float(16_000_000), nil, nil)
	eu.PopulationCount = types.Float(448_000_000)
	de := annualRow("DE", 2023, types.Float(4_000_000), nil, nil)
	de.PopulationCount = types.Float(84_000_000)

	rows := Summary([]types.AnnualMetricRow{eu, de}, aggregateEntity)
	require.Len(t, rows, 1)
	require.Equal(t, "DE", rows[0].CountryCode)

	// The aggregate row is not part of the ranking population.
	assert.Equal(t, 1, *rows[0].GDPRank)
	require.NotNil(t, rows[0].GDPShareOfAggregatePct)
	assert.InDelta(t, 25.0, *rows[0].GDPShareOfAggregatePct, 1e-9)
	require.NotNil(t, rows[0].PopulationShareOfAggregatePct)
	assert.InDelta(t, 18.75, *rows[0].PopulationShareOfAggregatePct, 1e-9)
}

func TestSummary_SharesNilWithoutAggregateRow(t *testing.T) {
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2023, types.Float(4_000_000), nil, nil),
	}

	rows := Summary(annual, aggregateEntity)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].GDPShareOfAggregatePct)
	assert.Nil(t, rows[0].PopulationShareOfAggregatePct)
}

func TestSummary_YearOverYearChange(t *testing.T) {
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2022, types.Float(3_900_000), types.Float(3.1), nil),
		annualRow("DE", 2023, types.Float(4_095_000), types.Float(3.0), nil),
	}

	byYear := make(map[int]types.SummaryRow)
	for _, r := range Summary(annual, aggregateEntity) {
		byYear[r.ReferenceYear] = r
	}

	assert.Nil(t, byYear[2022].GDPYoYPct)
	require.NotNil(t, byYear[2023].GDPYoYPct)
	assert.InDelta(t, 5.0, *byYear[2023].GDPYoYPct, 1e-9)
	require.NotNil(t, byYear[2023].UnemploymentYoYPct)
	assert.InDelta(t, -3.2258, *byYear[2023].UnemploymentYoYPct, 1e-3)
}

func TestSummary_YoYSpansGapYear(t *testing.T) {
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2021, types.Float(3_600_000), nil, nil),
		annualRow("DE", 2023, types.Float(3_960_000), nil, nil),
	}

	byYear := make(map[int]types.SummaryRow)
	for _, r := range Summary(annual, aggregateEntity) {
		byYear[r.ReferenceYear] = r
	}

	// Lag over the ordered rows compares against the previous available year.
	require.NotNil(t, byYear[2023].GDPYoYPct)
	assert.InDelta(t, 10.0, *byYear[2023].GDPYoYPct, 1e-9)
}

func TestDimension_UnionsSeedAndObservedCountries(t *testing.T) {
	since := time.Date(1958, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []types.CountryMeta{
		{CountryCode: "DE", CountryName: "Germany", EUMemberSince: &since, EurozoneMember: true, Region: "Europe", Subregion: "Western Europe"},
		{CountryCode: "NO", CountryName: "Norway", Region: "Europe", Subregion: "Northern Europe"},
	}
	annual := []types.AnnualMetricRow{
		annualRow("DE", 2022, types.Float(3_900_000), nil, nil),
		annualRow("DE", 2023, types.Float(4_000_000), nil, nil),
		{CountryCode: "XK", CountryName: "Kosovo", ReferenceYear: 2023},
	}
	monthly := []types.MonthlyIndicatorRow{
		{CountryCode: "DE", ReferenceDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{CountryCode: "DE", ReferenceDate: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	rows := Dimension(seed, annual, monthly, aggregateEntity)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"DE", "NO", "XK"}, codes(rows))

	byCode := make(map[string]types.DimensionRow)
	for _, r := range rows {
		byCode[r.CountryCode] = r
	}

	de := byCode["DE"]
	assert.Equal(t, "Germany", de.CountryName)
	assert.True(t, de.EurozoneMember)
	assert.Equal(t, 2022, *de.FirstYearObserved)
	assert.Equal(t, 2023, *de.LastYearObserved)
	assert.Equal(t, 2, de.YearsObserved)
	assert.Equal(t, 2, de.MonthlyObservations)

	// Seeded but never observed: attributes only.
	no := byCode["NO"]
	assert.Equal(t, "Norway", no.CountryName)
	assert.Nil(t, no.FirstYearObserved)
	assert.Zero(t, no.MonthlyObservations)

	// Observed but unseeded: name falls back to the data label.
	xk := byCode["XK"]
	assert.Equal(t, "Kosovo", xk.CountryName)
	assert.Nil(t, xk.EUMemberSince)
	assert.Equal(t, 1, xk.YearsObserved)
}

func TestDimension_FlagsAggregateEntity(t *testing.T) {
	annual := []types.AnnualMetricRow{
		{CountryCode: aggregateEntity, CountryName: "European Union", ReferenceYear: 2023},
		annualRow("DE", 2023, nil, nil, nil),
	}

	rows := Dimension(nil, annual, nil, aggregateEntity)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, r.CountryCode == aggregateEntity, r.IsAggregate)
	}
}

func indexByCode(rows []types.SummaryRow, year int) map[string]types.SummaryRow {
	out := make(map[string]types.SummaryRow)
	for _, r := range rows {
		if r.ReferenceYear == year {
			out[r.CountryCode] = r
		}
	}
	return out
}

func codes(rows []types.DimensionRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.CountryCode
	}
	return out
}

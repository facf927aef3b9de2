package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// series builds a country's monthly unemployment rows starting January 2023.
func series(country string, values ...float64) []types.MonthlyIndicatorRow {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.MonthlyIndicatorRow, len(values))
	for i, v := range values {
		d := start.AddDate(0, i, 0)
		out[i] = types.MonthlyIndicatorRow{
			CountryCode:      country,
			ReferenceDate:    d,
			ReferenceYear:    d.Year(),
			ReferenceMonth:   int(d.Month()),
			UnemploymentRate: types.Float(v),
		}
	}
	return out
}

func TestDetectAnomalies_FlagsSpike(t *testing.T) {
	rows := series("DE", 3.0, 3.1, 3.0, 2.9, 3.1, 3.0, 3.0, 3.1, 2.9, 3.0, 3.1, 3.0, 9.5)

	anomalies := DetectAnomalies(rows, 3.0)
	require.Len(t, anomalies, 1)
	a := anomalies[0]
	assert.Equal(t, "DE", a.CountryCode)
	assert.Equal(t, IndicatorUnemployment, a.Indicator)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), a.ReferenceDate)
	assert.Equal(t, 9.5, a.Value)
	assert.Greater(t, a.ZScore, 3.0)
}

func TestDetectAnomalies_StableSeriesClean(t *testing.T) {
	rows := series("DE", 3.0, 3.1, 3.0, 2.9, 3.1, 3.0, 3.0, 3.1, 2.9, 3.0, 3.1, 3.0)

	assert.Empty(t, DetectAnomalies(rows, 3.0))
}

func TestDetectAnomalies_ShortSeriesSkipped(t *testing.T) {
	rows := series("DE", 3.0, 3.0, 3.0, 50.0)

	assert.Empty(t, DetectAnomalies(rows, 3.0))
}

func TestDetectAnomalies_ConstantSeriesSkipped(t *testing.T) {
	rows := series("DE", 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0)

	assert.Empty(t, DetectAnomalies(rows, 3.0))
}

func TestForecastUnemployment_ProjectsLinearTrend(t *testing.T) {
	// Perfectly linear: 5.0, 5.1, ... 6.1 over twelve months.
	values := make([]float64, 12)
	for i := range values {
		values[i] = 5.0 + 0.1*float64(i)
	}
	rows := series("DE", values...)

	points := ForecastUnemployment(rows, 3)
	require.Len(t, points, 3)
	for i, p := range points {
		assert.Equal(t, "DE", p.CountryCode)
		assert.Equal(t, IndicatorUnemployment, p.Indicator)
		assert.Equal(t, forecastMethod, p.Method)
		assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i+1, 0), p.ReferenceDate)
		assert.InDelta(t, 6.1+0.1*float64(i+1), p.Forecast, 1e-9)
	}
}

func TestForecastUnemployment_FlooredAtZero(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		values[i] = 2.2 - 0.2*float64(i)
	}
	rows := series("DE", values...)

	points := ForecastUnemployment(rows, 6)
	require.Len(t, points, 6)
	assert.Zero(t, points[5].Forecast)
}

func TestForecastUnemployment_ShortSeriesSkipped(t *testing.T) {
	assert.Empty(t, ForecastUnemployment(series("DE", 3.0, 3.1, 3.2), 3))
}

func TestForecastUnemployment_OrderedByCountryAndDate(t *testing.T) {
	rows := append(series("FR", 7.0, 7.1, 7.2, 7.3, 7.4, 7.5, 7.6, 7.7, 7.8, 7.9, 8.0, 8.1),
		series("DE", 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0)...)

	points := ForecastUnemployment(rows, 2)
	require.Len(t, points, 4)
	assert.Equal(t, "DE", points[0].CountryCode)
	assert.Equal(t, "DE", points[1].CountryCode)
	assert.Equal(t, "FR", points[2].CountryCode)
	assert.True(t, points[0].ReferenceDate.Before(points[1].ReferenceDate))
}

// Package analytics derives statistical signals from the monthly indicator
// series: z-score anomaly detection against each country's own history and a
// linear-trend unemployment projection.
package analytics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/euromarts-io/euromarts/pkg/types"
)

const (
	// IndicatorUnemployment and IndicatorInflation name the series an anomaly
	// or forecast refers to.
	IndicatorUnemployment = "unemployment_rate"
	IndicatorInflation    = "inflation_rate"

	forecastMethod = "linear_trend"

	// A series needs enough history before z-scores or a fitted trend mean
	// anything.
	minSeriesLength = 12

	defaultZThreshold = 3.0
)

// DetectAnomalies flags observations whose z-score against the country's own
// series exceeds threshold (3.0 when threshold <= 0). Countries with fewer
// than a year of observations are skipped. Results are ordered by country,
// indicator, then date.
func DetectAnomalies(monthly []types.MonthlyIndicatorRow, threshold float64) []types.Anomaly {
	if threshold <= 0 {
		threshold = defaultZThreshold
	}

	var out []types.Anomaly
	for _, indicator := range []string{IndicatorUnemployment, IndicatorInflation} {
		for country, rows := range byCountry(monthly) {
			type point struct {
				date  time.Time
				value float64
			}
			var pts []point
			for _, r := range rows {
				if v := indicatorValue(r, indicator); v != nil {
					pts = append(pts, point{date: r.ReferenceDate, value: *v})
				}
			}
			if len(pts) < minSeriesLength {
				continue
			}

			values := make([]float64, len(pts))
			for i, p := range pts {
				values[i] = p.value
			}
			mean := stat.Mean(values, nil)
			stddev := stat.StdDev(values, nil)
			if stddev == 0 {
				continue
			}

			for _, p := range pts {
				z := (p.value - mean) / stddev
				if z < threshold && z > -threshold {
					continue
				}
				out = append(out, types.Anomaly{
					CountryCode:   country,
					Indicator:     indicator,
					ReferenceDate: p.date,
					Value:         p.value,
					ZScore:        z,
					SeriesMean:    mean,
					SeriesStdDev:  stddev,
				})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CountryCode != out[j].CountryCode {
			return out[i].CountryCode < out[j].CountryCode
		}
		if out[i].Indicator != out[j].Indicator {
			return out[i].Indicator < out[j].Indicator
		}
		return out[i].ReferenceDate.Before(out[j].ReferenceDate)
	})
	return out
}

// ForecastUnemployment fits an ordinary least squares line through each
// country's unemployment series and projects it horizon months past the last
// observation. Forecasts are floored at zero. Countries with under a year of
// observations are skipped.
func ForecastUnemployment(monthly []types.MonthlyIndicatorRow, horizon int) []types.ForecastPoint {
	if horizon <= 0 {
		return nil
	}

	var out []types.ForecastPoint
	for country, rows := range byCountry(monthly) {
		var xs, ys []float64
		var last time.Time
		for _, r := range rows {
			if r.UnemploymentRate == nil {
				continue
			}
			xs = append(xs, float64(len(xs)))
			ys = append(ys, *r.UnemploymentRate)
			last = r.ReferenceDate
		}
		if len(ys) < minSeriesLength {
			continue
		}

		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		for step := 1; step <= horizon; step++ {
			projected := alpha + beta*(xs[len(xs)-1]+float64(step))
			if projected < 0 {
				projected = 0
			}
			out = append(out, types.ForecastPoint{
				CountryCode:   country,
				Indicator:     IndicatorUnemployment,
				ReferenceDate: last.AddDate(0, step, 0),
				Forecast:      projected,
				Method:        forecastMethod,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CountryCode != out[j].CountryCode {
			return out[i].CountryCode < out[j].CountryCode
		}
		return out[i].ReferenceDate.Before(out[j].ReferenceDate)
	})
	return out
}

func byCountry(monthly []types.MonthlyIndicatorRow) map[string][]types.MonthlyIndicatorRow {
	out := make(map[string][]types.MonthlyIndicatorRow)
	for _, r := range monthly {
		out[r.CountryCode] = append(out[r.CountryCode], r)
	}
	for _, rows := range out {
		sort.Slice(rows, func(i, j int) bool { return rows[i].ReferenceDate.Before(rows[j].ReferenceDate) })
	}
	return out
}

func indicatorValue(r types.MonthlyIndicatorRow, indicator string) *float64 {
	if indicator == IndicatorUnemployment {
		return r.UnemploymentRate
	}
	return r.InflationRate
}

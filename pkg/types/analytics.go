package types

import "time"

// QualityScore grades one country's indicator data across quality dimensions.
// Scores are 0-100.
type QualityScore struct {
	CountryCode  string
	Completeness float64
	Timeliness   float64
	Validity     float64
	Overall      float64
	ScoredAt     time.Time
}

// Anomaly is one statistically unusual observation in a monthly indicator
// series, flagged by z-score against the country's own history.
type Anomaly struct {
	CountryCode   string
	Indicator     string
	ReferenceDate time.Time
	Value         float64
	ZScore        float64
	SeriesMean    float64
	SeriesStdDev  float64
}

// ForecastPoint is one projected future observation of an indicator series.
type ForecastPoint struct {
	CountryCode   string
	Indicator     string
	ReferenceDate time.Time
	Forecast      float64
	Method        string
}

// Package types contains the shared data model for euromarts: raw feed
// records, staged rows, derived metric rows, persisted fact and snapshot
// rows, and project configuration.
package types

import "time"

// RawRecord is one observation extracted from a source dataset. Records are
// immutable once extracted; identity within a dataset is (GeoCode, TimeCode).
type RawRecord struct {
	DatasetCode string            `json:"dataset_code"`
	GeoCode     string            `json:"geo_code"`
	GeoLabel    string            `json:"geo_label"`
	TimeCode    string            `json:"time_code"`
	Value       *float64          `json:"value"`
	UnitCode    string            `json:"unit_code,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	ExtractedAt time.Time         `json:"extracted_at"`
}

// StagedRow is a canonicalized raw record with a content-derived surrogate
// key and a typed time axis. ReferenceDate is the first day of the applicable
// month (monthly series) or year (annual series) so both frequencies share a
// sortable, joinable axis.
type StagedRow struct {
	SurrogateKey   string
	CountryCode    string
	CountryLabel   string
	ReferenceYear  int
	ReferenceMonth int // 0 for annual datasets
	ReferenceDate  time.Time
	Value          float64
	UnitCode       string
	SourceDataset  string
	ExtractedAt    time.Time
}

// AnnualMetricRow aggregates GDP, population, and annualized unemployment and
// inflation statistics for one country-year. Fully recomputed from staged
// inputs on each run.
type AnnualMetricRow struct {
	CountryCode   string
	CountryName   string
	ReferenceYear int

	GDPMillionEUR   *float64
	PopulationCount *float64
	GDPPerCapitaEUR *float64

	AvgUnemploymentRate      *float64
	MinUnemploymentRate      *float64
	MaxUnemploymentRate      *float64
	UnemploymentObservations int

	AvgInflationRate      *float64
	MinInflationRate      *float64
	MaxInflationRate      *float64
	InflationObservations int

	HasCompleteUnemploymentData bool
	HasCompleteInflationData    bool
}

// MonthlyIndicatorRow is one row per country per month on the monthly spine,
// carrying current-period values plus lag and trailing-average analytics.
// Measures are nullable: the spine is complete even where a dataset has gaps.
type MonthlyIndicatorRow struct {
	IndicatorKey   string
	CountryCode    string
	ReferenceDate  time.Time
	ReferenceYear  int
	ReferenceMonth int

	UnemploymentRate          *float64
	UnemploymentRatePrevMonth *float64
	UnemploymentRatePrevYear  *float64
	UnemploymentRate12MoAvg   *float64

	InflationRate          *float64
	InflationRatePrevMonth *float64
	InflationRatePrevYear  *float64
	InflationRate12MoAvg   *float64

	// Annual context joined by reference year.
	GDPMillionEUR   *float64
	PopulationCount *float64
	GDPPerCapitaEUR *float64
}

// FactRow is the persisted, incrementally maintained projection of a
// MonthlyIndicatorRow. Once written, a fact row is never recomputed by later
// incremental runs; only strictly newer periods are appended.
type FactRow struct {
	MonthlyIndicatorRow

	LoadedAt     time.Time
	InvocationID string
}

// SnapshotRow is one revision of a tracked value. For a given natural key
// exactly one open-ended version (ValidTo == nil) exists unless the key has
// been hard-deleted.
type SnapshotRow struct {
	NaturalKey    string
	CountryCode   string
	ReferenceYear int

	GDPMillionEUR *float64
	ValueHash     string

	ValidFrom time.Time
	ValidTo   *time.Time
	IsDeleted bool
}

// CountryMeta is one row of the static country reference seed.
type CountryMeta struct {
	CountryCode    string
	CountryName    string
	EUMemberSince  *time.Time
	EurozoneMember bool
	Region         string
	Subregion      string
}

// DimensionRow is the country dimension: reference attributes unioned with
// derived data-availability statistics. Fully recomputed each run.
type DimensionRow struct {
	CountryCode    string
	CountryName    string
	EUMemberSince  *time.Time
	EurozoneMember bool
	Region         string
	Subregion      string
	IsAggregate    bool

	FirstYearObserved   *int
	LastYearObserved    *int
	YearsObserved       int
	MonthlyObservations int
}

// SummaryRow is an annual metric row enriched with within-year competition
// ranks, year-over-year deltas, and share-of-aggregate columns. The
// designated aggregate entity is excluded from the ranking population but
// supplies the share denominators.
type SummaryRow struct {
	CountryCode   string
	CountryName   string
	ReferenceYear int

	GDPMillionEUR       *float64
	GDPPerCapitaEUR     *float64
	AvgUnemploymentRate *float64
	AvgInflationRate    *float64

	GDPRank          *int
	GDPPerCapitaRank *int
	UnemploymentRank *int
	InflationRank    *int

	GDPYoYPct          *float64
	UnemploymentYoYPct *float64
	InflationYoYPct    *float64

	GDPShareOfAggregatePct        *float64
	PopulationShareOfAggregatePct *float64
}

// Float returns a pointer to v. Convenience for nullable measure literals.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

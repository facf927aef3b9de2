// Package store defines the persistence backend interface for euromarts
// output tables. The in-memory implementation backs tests and dev runs;
// DuckDB is the durable default.
package store

import (
	"context"
	"time"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// Column describes one persisted fact-table column. Type is the backend's
// column type name.
type Column struct {
	Name string
	Type string
}

// FactColumns is the current canonical fact-table schema. The materializer
// passes it to EnsureFactColumns on every run so that columns introduced
// after the table was first created are added in place, leaving historical
// rows' new columns null.
func FactColumns() []Column {
	return []Column{
		{Name: "indicator_key", Type: "VARCHAR"},
		{Name: "country_code", Type: "VARCHAR"},
		{Name: "reference_date", Type: "DATE"},
		{Name: "reference_year", Type: "INTEGER"},
		{Name: "reference_month", Type: "INTEGER"},
		{Name: "unemployment_rate", Type: "DOUBLE"},
		{Name: "unemployment_rate_prev_month", Type: "DOUBLE"},
		{Name: "unemployment_rate_prev_year", Type: "DOUBLE"},
		{Name: "unemployment_rate_12mo_avg", Type: "DOUBLE"},
		{Name: "inflation_rate", Type: "DOUBLE"},
		{Name: "inflation_rate_prev_month", Type: "DOUBLE"},
		{Name: "inflation_rate_prev_year", Type: "DOUBLE"},
		{Name: "inflation_rate_12mo_avg", Type: "DOUBLE"},
		{Name: "gdp_million_eur", Type: "DOUBLE"},
		{Name: "population_count", Type: "DOUBLE"},
		{Name: "gdp_per_capita_eur", Type: "DOUBLE"},
		{Name: "loaded_at", Type: "TIMESTAMP"},
		{Name: "invocation_id", Type: "VARCHAR"},
	}
}

// Store is the persistence backend. The fact and snapshot tables are
// append-only with respect to history; Replace* tables are fully recomputed
// each run. Implementations assume single-writer, single-run execution.
type Store interface {
	// Fact table.
	EnsureFactColumns(ctx context.Context, cols []Column) error
	// FactWatermark returns the max reference date over persisted fact rows,
	// or nil when the table is empty or missing.
	FactWatermark(ctx context.Context) (*time.Time, error)
	AppendFacts(ctx context.Context, rows []types.FactRow) error
	// ResetFacts discards all fact rows ahead of a forced full rebuild.
	ResetFacts(ctx context.Context) error
	ListFacts(ctx context.Context) ([]types.FactRow, error)
	CountFacts(ctx context.Context) (int, error)

	// Snapshot versions.
	// OpenVersions returns the current open version per natural key.
	OpenVersions(ctx context.Context) (map[string]types.SnapshotRow, error)
	ListVersions(ctx context.Context, naturalKey string) ([]types.SnapshotRow, error)
	InsertVersion(ctx context.Context, row types.SnapshotRow) error
	// CloseVersion sets valid_to on the open version of the natural key.
	CloseVersion(ctx context.Context, naturalKey string, closedAt time.Time, deleted bool) error

	// Fully recomputed output tables.
	ReplaceStaging(ctx context.Context, dataset string, rows []types.StagedRow) error
	ReplaceAnnual(ctx context.Context, rows []types.AnnualMetricRow) error
	ReplaceMonthly(ctx context.Context, rows []types.MonthlyIndicatorRow) error
	ReplaceDimension(ctx context.Context, rows []types.DimensionRow) error
	ReplaceSummary(ctx context.Context, rows []types.SummaryRow) error
	ReplaceQualityScores(ctx context.Context, rows []types.QualityScore) error
	ReplaceAnomalies(ctx context.Context, rows []types.Anomaly) error
	ReplaceForecasts(ctx context.Context, rows []types.ForecastPoint) error

	Ping(ctx context.Context) error
	Close() error
}

package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// replaceRows deletes matching rows and bulk-inserts replacements in one
// transaction, so readers never observe a half-replaced table.
func (s *Store) replaceRows(ctx context.Context, deleteStmt, insertStmt string,
	deleteArgs []any, insert func(*sql.Stmt) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteStmt, deleteArgs...); err != nil {
			return fmt.Errorf("clearing table: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, insertStmt)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()
		return insert(stmt)
	})
}

// ReplaceStaging rewrites one dataset's staged rows.
func (s *Store) ReplaceStaging(ctx context.Context, dataset string, rows []types.StagedRow) error {
	return s.replaceRows(ctx,
		"DELETE FROM stg_rows WHERE dataset = ?",
		`INSERT INTO stg_rows (dataset, surrogate_key, country_code, country_label,
			reference_year, reference_month, reference_date, value, unit_code,
			source_dataset, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]any{dataset},
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, dataset, r.SurrogateKey, r.CountryCode,
					r.CountryLabel, r.ReferenceYear, r.ReferenceMonth, r.ReferenceDate,
					r.Value, r.UnitCode, r.SourceDataset, r.ExtractedAt)
				if err != nil {
					return fmt.Errorf("inserting staged row %s: %w", r.SurrogateKey, err)
				}
			}
			return nil
		})
}

// ReplaceAnnual rewrites the annual metrics table.
func (s *Store) ReplaceAnnual(ctx context.Context, rows []types.AnnualMetricRow) error {
	return s.replaceRows(ctx,
		"DELETE FROM int_economic_indicators_annual",
		`INSERT INTO int_economic_indicators_annual VALUES
		 (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.CountryCode, r.CountryName, r.ReferenceYear,
					r.GDPMillionEUR, r.PopulationCount, r.GDPPerCapitaEUR,
					r.AvgUnemploymentRate, r.MinUnemploymentRate, r.MaxUnemploymentRate,
					r.UnemploymentObservations,
					r.AvgInflationRate, r.MinInflationRate, r.MaxInflationRate,
					r.InflationObservations,
					r.HasCompleteUnemploymentData, r.HasCompleteInflationData)
				if err != nil {
					return fmt.Errorf("inserting annual row %s/%d: %w",
						r.CountryCode, r.ReferenceYear, err)
				}
			}
			return nil
		})
}

// ReplaceMonthly rewrites the monthly indicators table.
func (s *Store) ReplaceMonthly(ctx context.Context, rows []types.MonthlyIndicatorRow) error {
	return s.replaceRows(ctx,
		"DELETE FROM int_economic_indicators_monthly",
		`INSERT INTO int_economic_indicators_monthly VALUES
		 (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.IndicatorKey, r.CountryCode,
					r.ReferenceDate, r.ReferenceYear, r.ReferenceMonth,
					r.UnemploymentRate, r.UnemploymentRatePrevMonth,
					r.UnemploymentRatePrevYear, r.UnemploymentRate12MoAvg,
					r.InflationRate, r.InflationRatePrevMonth,
					r.InflationRatePrevYear, r.InflationRate12MoAvg,
					r.GDPMillionEUR, r.PopulationCount, r.GDPPerCapitaEUR)
				if err != nil {
					return fmt.Errorf("inserting monthly row %s: %w", r.IndicatorKey, err)
				}
			}
			return nil
		})
}

// ReplaceDimension rewrites the country dimension.
func (s *Store) ReplaceDimension(ctx context.Context, rows []types.DimensionRow) error {
	return s.replaceRows(ctx,
		"DELETE FROM dim_country",
		"INSERT INTO dim_country VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.CountryCode, r.CountryName,
					r.EUMemberSince, r.EurozoneMember, r.Region, r.Subregion,
					r.IsAggregate, r.FirstYearObserved, r.LastYearObserved,
					r.YearsObserved, r.MonthlyObservations)
				if err != nil {
					return fmt.Errorf("inserting dimension row %s: %w", r.CountryCode, err)
				}
			}
			return nil
		})
}

// ReplaceSummary rewrites the annual summary report table.
func (s *Store) ReplaceSummary(ctx context.Context, rows []types.SummaryRow) error {
	return s.replaceRows(ctx,
		"DELETE FROM rpt_annual_economic_summary",
		`INSERT INTO rpt_annual_economic_summary VALUES
		 (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.CountryCode, r.CountryName, r.ReferenceYear,
					r.GDPMillionEUR, r.GDPPerCapitaEUR,
					r.AvgUnemploymentRate, r.AvgInflationRate,
					r.GDPRank, r.GDPPerCapitaRank, r.UnemploymentRank, r.InflationRank,
					r.GDPYoYPct, r.UnemploymentYoYPct, r.InflationYoYPct,
					r.GDPShareOfAggregatePct, r.PopulationShareOfAggregatePct)
				if err != nil {
					return fmt.Errorf("inserting summary row %s/%d: %w",
						r.CountryCode, r.ReferenceYear, err)
				}
			}
			return nil
		})
}

// ReplaceQualityScores rewrites the data quality scores table.
func (s *Store) ReplaceQualityScores(ctx context.Context, rows []types.QualityScore) error {
	return s.replaceRows(ctx,
		"DELETE FROM data_quality_scores",
		"INSERT INTO data_quality_scores VALUES (?, ?, ?, ?, ?, ?)",
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.CountryCode, r.Completeness,
					r.Timeliness, r.Validity, r.Overall, r.ScoredAt)
				if err != nil {
					return fmt.Errorf("inserting quality score %s: %w", r.CountryCode, err)
				}
			}
			return nil
		})
}

// ReplaceAnomalies rewrites the anomalies table.
func (s *Store) ReplaceAnomalies(ctx context.Context, rows []types.Anomaly) error {
	return s.replaceRows(ctx,
		"DELETE FROM indicator_anomalies",
		"INSERT INTO indicator_anomalies VALUES (?, ?, ?, ?, ?, ?, ?)",
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.CountryCode, r.Indicator, r.ReferenceDate,
					r.Value, r.ZScore, r.SeriesMean, r.SeriesStdDev)
				if err != nil {
					return fmt.Errorf("inserting anomaly %s/%s: %w",
						r.CountryCode, r.Indicator, err)
				}
			}
			return nil
		})
}

// ReplaceForecasts rewrites the forecast table.
func (s *Store) ReplaceForecasts(ctx context.Context, rows []types.ForecastPoint) error {
	return s.replaceRows(ctx,
		"DELETE FROM unemployment_forecast",
		"INSERT INTO unemployment_forecast VALUES (?, ?, ?, ?, ?)",
		nil,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				_, err := stmt.ExecContext(ctx, r.CountryCode, r.Indicator, r.ReferenceDate,
					r.Forecast, r.Method)
				if err != nil {
					return fmt.Errorf("inserting forecast %s: %w", r.CountryCode, err)
				}
			}
			return nil
		})
}

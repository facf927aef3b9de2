package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/euromarts-io/euromarts/pkg/types"
)

const factInsert = `
INSERT INTO fct_economic_indicators (
    indicator_key, country_code, reference_date, reference_year, reference_month,
    unemployment_rate, unemployment_rate_prev_month, unemployment_rate_prev_year,
    unemployment_rate_12mo_avg,
    inflation_rate, inflation_rate_prev_month, inflation_rate_prev_year,
    inflation_rate_12mo_avg,
    gdp_million_eur, population_count, gdp_per_capita_eur,
    loaded_at, invocation_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// FactWatermark returns max(reference_date) over the fact table, nil when the
// table is empty.
func (s *Store) FactWatermark(ctx context.Context) (*time.Time, error) {
	var wm sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT max(reference_date) FROM fct_economic_indicators").Scan(&wm)
	if err != nil {
		return nil, fmt.Errorf("querying fact watermark: %w", err)
	}
	if !wm.Valid {
		return nil, nil
	}
	t := wm.Time.UTC()
	return &t, nil
}

// AppendFacts inserts rows; existing rows are never rewritten.
func (s *Store) AppendFacts(ctx context.Context, rows []types.FactRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, factInsert)
		if err != nil {
			return fmt.Errorf("preparing fact insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.IndicatorKey, r.CountryCode, r.ReferenceDate, r.ReferenceYear, r.ReferenceMonth,
				r.UnemploymentRate, r.UnemploymentRatePrevMonth, r.UnemploymentRatePrevYear,
				r.UnemploymentRate12MoAvg,
				r.InflationRate, r.InflationRatePrevMonth, r.InflationRatePrevYear,
				r.InflationRate12MoAvg,
				r.GDPMillionEUR, r.PopulationCount, r.GDPPerCapitaEUR,
				r.LoadedAt, r.InvocationID,
			)
			if err != nil {
				return fmt.Errorf("inserting fact %s: %w", r.IndicatorKey, err)
			}
		}
		return nil
	})
}

// ResetFacts discards all fact rows ahead of a forced full rebuild.
func (s *Store) ResetFacts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM fct_economic_indicators"); err != nil {
		return fmt.Errorf("resetting facts: %w", err)
	}
	return nil
}

// CountFacts returns the persisted fact row count.
func (s *Store) CountFacts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM fct_economic_indicators").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting facts: %w", err)
	}
	return n, nil
}

// ListFacts returns all fact rows ordered by reference date then country.
func (s *Store) ListFacts(ctx context.Context) ([]types.FactRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT indicator_key, country_code, reference_date, reference_year, reference_month,
		       unemployment_rate, unemployment_rate_prev_month, unemployment_rate_prev_year,
		       unemployment_rate_12mo_avg,
		       inflation_rate, inflation_rate_prev_month, inflation_rate_prev_year,
		       inflation_rate_12mo_avg,
		       gdp_million_eur, population_count, gdp_per_capita_eur,
		       loaded_at, invocation_id
		FROM fct_economic_indicators
		ORDER BY reference_date, country_code`)
	if err != nil {
		return nil, fmt.Errorf("listing facts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.FactRow
	for rows.Next() {
		var (
			r    types.FactRow
			date time.Time
		)
		err := rows.Scan(
			&r.IndicatorKey, &r.CountryCode, &date, &r.ReferenceYear, &r.ReferenceMonth,
			&r.UnemploymentRate, &r.UnemploymentRatePrevMonth, &r.UnemploymentRatePrevYear,
			&r.UnemploymentRate12MoAvg,
			&r.InflationRate, &r.InflationRatePrevMonth, &r.InflationRatePrevYear,
			&r.InflationRate12MoAvg,
			&r.GDPMillionEUR, &r.PopulationCount, &r.GDPPerCapitaEUR,
			&r.LoadedAt, &r.InvocationID,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning fact row: %w", err)
		}
		r.ReferenceDate = date.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

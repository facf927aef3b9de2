package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// Archive is a Postgres-backed archival store for euromarts history tables.
type Archive struct {
	pool *pgxpool.Pool
}

// New creates an Archive and verifies the connection.
func New(ctx context.Context, dsn string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Archive{pool: pool}, nil
}

// Migrate runs the schema DDL.
func (a *Archive) Migrate(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (a *Archive) Close() {
	a.pool.Close()
}

// UpsertFacts mirrors fact rows. Fact rows are immutable once written, so the
// conflict action only refreshes archived_at.
func (a *Archive) UpsertFacts(ctx context.Context, rows []types.FactRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO fct_economic_indicators (
				indicator_key, country_code, reference_date, reference_year, reference_month,
				unemployment_rate, unemployment_rate_prev_month, unemployment_rate_prev_year,
				unemployment_rate_12mo_avg,
				inflation_rate, inflation_rate_prev_month, inflation_rate_prev_year,
				inflation_rate_12mo_avg,
				gdp_million_eur, population_count, gdp_per_capita_eur,
				loaded_at, invocation_id
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
			ON CONFLICT (indicator_key) DO UPDATE SET archived_at = NOW()
		`, r.IndicatorKey, r.CountryCode, r.ReferenceDate, r.ReferenceYear, r.ReferenceMonth,
			r.UnemploymentRate, r.UnemploymentRatePrevMonth, r.UnemploymentRatePrevYear,
			r.UnemploymentRate12MoAvg,
			r.InflationRate, r.InflationRatePrevMonth, r.InflationRatePrevYear,
			r.InflationRate12MoAvg,
			r.GDPMillionEUR, r.PopulationCount, r.GDPPerCapitaEUR,
			r.LoadedAt, r.InvocationID)
		if err != nil {
			return fmt.Errorf("upserting fact %s: %w", r.IndicatorKey, err)
		}
	}
	return tx.Commit(ctx)
}

// UpsertSnapshots mirrors snapshot versions. A version is identified by
// (natural_key, valid_from); closing a version updates valid_to in place.
func (a *Archive) UpsertSnapshots(ctx context.Context, rows []types.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO gdp_snapshot (natural_key, country_code, reference_year,
				gdp_million_eur, value_hash, valid_from, valid_to, is_deleted)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (natural_key, valid_from) DO UPDATE SET
				valid_to    = EXCLUDED.valid_to,
				is_deleted  = EXCLUDED.is_deleted,
				archived_at = NOW()
		`, r.NaturalKey, r.CountryCode, r.ReferenceYear,
			r.GDPMillionEUR, r.ValueHash, r.ValidFrom, r.ValidTo, r.IsDeleted)
		if err != nil {
			return fmt.Errorf("upserting snapshot %s: %w", r.NaturalKey, err)
		}
	}
	return tx.Commit(ctx)
}

// GetCursor retrieves the archive cursor for a data type, empty when unset.
func (a *Archive) GetCursor(ctx context.Context, dataType string) (string, error) {
	var cursor string
	err := a.pool.QueryRow(ctx,
		"SELECT cursor_value FROM archive_cursors WHERE data_type = $1", dataType).Scan(&cursor)
	if err != nil {
		return "", nil
	}
	return cursor, nil
}

// SetCursor records the archive cursor for a data type.
func (a *Archive) SetCursor(ctx context.Context, dataType, cursorValue string) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO archive_cursors (data_type, cursor_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (data_type) DO UPDATE SET
			cursor_value = EXCLUDED.cursor_value,
			updated_at   = NOW()
	`, dataType, cursorValue)
	return err
}

package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/euromarts-io/euromarts/pkg/types"
)

const snapshotColumns = `natural_key, country_code, reference_year,
    gdp_million_eur, value_hash, valid_from, valid_to, is_deleted`

// OpenVersions returns the current open version per natural key.
func (s *Store) OpenVersions(ctx context.Context) (map[string]types.SnapshotRow, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM gdp_snapshot WHERE valid_to IS NULL", snapshotColumns))
	if err != nil {
		return nil, fmt.Errorf("listing open versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	open := make(map[string]types.SnapshotRow)
	for rows.Next() {
		row, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		open[row.NaturalKey] = row
	}
	return open, rows.Err()
}

// ListVersions returns a natural key's versions ordered by valid_from.
func (s *Store) ListVersions(ctx context.Context, naturalKey string) ([]types.SnapshotRow, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM gdp_snapshot WHERE natural_key = ? ORDER BY valid_from", snapshotColumns),
		naturalKey)
	if err != nil {
		return nil, fmt.Errorf("listing versions for %s: %w", naturalKey, err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.SnapshotRow
	for rows.Next() {
		row, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// InsertVersion inserts a new snapshot version.
func (s *Store) InsertVersion(ctx context.Context, row types.SnapshotRow) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO gdp_snapshot (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", snapshotColumns),
		row.NaturalKey, row.CountryCode, row.ReferenceYear,
		row.GDPMillionEUR, row.ValueHash, row.ValidFrom, row.ValidTo, row.IsDeleted)
	if err != nil {
		return fmt.Errorf("inserting version for %s: %w", row.NaturalKey, err)
	}
	return nil
}

// CloseVersion closes the open version of the natural key.
func (s *Store) CloseVersion(ctx context.Context, naturalKey string, closedAt time.Time, deleted bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE gdp_snapshot SET valid_to = ?, is_deleted = ?
		WHERE natural_key = ? AND valid_to IS NULL`,
		closedAt, deleted, naturalKey)
	if err != nil {
		return fmt.Errorf("closing version for %s: %w", naturalKey, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no open version for natural key %s", naturalKey)
	}
	return nil
}

func scanSnapshot(rows *sql.Rows) (types.SnapshotRow, error) {
	var (
		row     types.SnapshotRow
		validTo sql.NullTime
	)
	err := rows.Scan(&row.NaturalKey, &row.CountryCode, &row.ReferenceYear,
		&row.GDPMillionEUR, &row.ValueHash, &row.ValidFrom, &validTo, &row.IsDeleted)
	if err != nil {
		return row, fmt.Errorf("scanning snapshot row: %w", err)
	}
	if validTo.Valid {
		t := validTo.Time.UTC()
		row.ValidTo = &t
	}
	row.ValidFrom = row.ValidFrom.UTC()
	return row, nil
}

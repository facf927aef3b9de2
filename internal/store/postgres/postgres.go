// Package postgres implements a durable Postgres mirror for the serving
// tables that carry history: facts and snapshot versions. It is an archival
// sink, not a pipeline backend; the DuckDB store remains the system of
// record for a run.
package postgres

const schemaDDL = `
CREATE TABLE IF NOT EXISTS fct_economic_indicators (
    indicator_key                TEXT PRIMARY KEY,
    country_code                 TEXT NOT NULL,
    reference_date               DATE NOT NULL,
    reference_year               INTEGER NOT NULL,
    reference_month              INTEGER NOT NULL,
    unemployment_rate            DOUBLE PRECISION,
    unemployment_rate_prev_month DOUBLE PRECISION,
    unemployment_rate_prev_year  DOUBLE PRECISION,
    unemployment_rate_12mo_avg   DOUBLE PRECISION,
    inflation_rate               DOUBLE PRECISION,
    inflation_rate_prev_month    DOUBLE PRECISION,
    inflation_rate_prev_year     DOUBLE PRECISION,
    inflation_rate_12mo_avg      DOUBLE PRECISION,
    gdp_million_eur              DOUBLE PRECISION,
    population_count             DOUBLE PRECISION,
    gdp_per_capita_eur           DOUBLE PRECISION,
    loaded_at                    TIMESTAMPTZ NOT NULL,
    invocation_id                TEXT NOT NULL,
    archived_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fct_country_date
    ON fct_economic_indicators (country_code, reference_date);

CREATE TABLE IF NOT EXISTS gdp_snapshot (
    natural_key     TEXT NOT NULL,
    country_code    TEXT NOT NULL,
    reference_year  INTEGER NOT NULL,
    gdp_million_eur DOUBLE PRECISION,
    value_hash      TEXT NOT NULL,
    valid_from      TIMESTAMPTZ NOT NULL,
    valid_to        TIMESTAMPTZ,
    is_deleted      BOOLEAN NOT NULL DEFAULT FALSE,
    archived_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (natural_key, valid_from)
);
CREATE INDEX IF NOT EXISTS idx_snapshot_open
    ON gdp_snapshot (natural_key) WHERE valid_to IS NULL;

CREATE TABLE IF NOT EXISTS archive_cursors (
    data_type    TEXT PRIMARY KEY,
    cursor_value TEXT NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

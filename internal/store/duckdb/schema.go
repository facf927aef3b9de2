// Package duckdb implements the durable Store on an embedded DuckDB database.
package duckdb

const schemaDDL = `
CREATE TABLE IF NOT EXISTS fct_economic_indicators (
    indicator_key                VARCHAR NOT NULL,
    country_code                 VARCHAR NOT NULL,
    reference_date               DATE NOT NULL,
    reference_year               INTEGER NOT NULL,
    reference_month              INTEGER NOT NULL,
    unemployment_rate            DOUBLE,
    unemployment_rate_prev_month DOUBLE,
    unemployment_rate_prev_year  DOUBLE,
    unemployment_rate_12mo_avg   DOUBLE,
    inflation_rate               DOUBLE,
    inflation_rate_prev_month    DOUBLE,
    inflation_rate_prev_year     DOUBLE,
    inflation_rate_12mo_avg      DOUBLE,
    gdp_million_eur              DOUBLE,
    population_count             DOUBLE,
    gdp_per_capita_eur           DOUBLE,
    loaded_at                    TIMESTAMP NOT NULL,
    invocation_id                VARCHAR NOT NULL
);

CREATE TABLE IF NOT EXISTS gdp_snapshot (
    natural_key     VARCHAR NOT NULL,
    country_code    VARCHAR NOT NULL,
    reference_year  INTEGER NOT NULL,
    gdp_million_eur DOUBLE,
    value_hash      VARCHAR NOT NULL,
    valid_from      TIMESTAMP NOT NULL,
    valid_to        TIMESTAMP,
    is_deleted      BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS stg_rows (
    dataset        VARCHAR NOT NULL,
    surrogate_key  VARCHAR NOT NULL,
    country_code   VARCHAR NOT NULL,
    country_label  VARCHAR,
    reference_year INTEGER NOT NULL,
    reference_month INTEGER NOT NULL,
    reference_date DATE NOT NULL,
    value          DOUBLE NOT NULL,
    unit_code      VARCHAR,
    source_dataset VARCHAR NOT NULL,
    extracted_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS int_economic_indicators_annual (
    country_code               VARCHAR NOT NULL,
    country_name               VARCHAR,
    reference_year             INTEGER NOT NULL,
    gdp_million_eur            DOUBLE,
    population_count           DOUBLE,
    gdp_per_capita_eur         DOUBLE,
    avg_unemployment_rate      DOUBLE,
    min_unemployment_rate      DOUBLE,
    max_unemployment_rate      DOUBLE,
    unemployment_observations  INTEGER NOT NULL,
    avg_inflation_rate         DOUBLE,
    min_inflation_rate         DOUBLE,
    max_inflation_rate         DOUBLE,
    inflation_observations     INTEGER NOT NULL,
    has_complete_unemployment_data BOOLEAN NOT NULL,
    has_complete_inflation_data    BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS int_economic_indicators_monthly (
    indicator_key                VARCHAR NOT NULL,
    country_code                 VARCHAR NOT NULL,
    reference_date               DATE NOT NULL,
    reference_year               INTEGER NOT NULL,
    reference_month              INTEGER NOT NULL,
    unemployment_rate            DOUBLE,
    unemployment_rate_prev_month DOUBLE,
    unemployment_rate_prev_year  DOUBLE,
    unemployment_rate_12mo_avg   DOUBLE,
    inflation_rate               DOUBLE,
    inflation_rate_prev_month    DOUBLE,
    inflation_rate_prev_year     DOUBLE,
    inflation_rate_12mo_avg      DOUBLE,
    gdp_million_eur              DOUBLE,
    population_count             DOUBLE,
    gdp_per_capita_eur           DOUBLE
);

CREATE TABLE IF NOT EXISTS dim_country (
    country_code        VARCHAR NOT NULL,
    country_name        VARCHAR,
    eu_member_since     DATE,
    eurozone_member     BOOLEAN NOT NULL,
    region              VARCHAR,
    subregion           VARCHAR,
    is_aggregate        BOOLEAN NOT NULL,
    first_year_observed INTEGER,
    last_year_observed  INTEGER,
    years_observed      INTEGER NOT NULL,
    monthly_observations INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rpt_annual_economic_summary (
    country_code          VARCHAR NOT NULL,
    country_name          VARCHAR,
    reference_year        INTEGER NOT NULL,
    gdp_million_eur       DOUBLE,
    gdp_per_capita_eur    DOUBLE,
    avg_unemployment_rate DOUBLE,
    avg_inflation_rate    DOUBLE,
    gdp_rank              INTEGER,
    gdp_per_capita_rank   INTEGER,
    unemployment_rank     INTEGER,
    inflation_rank        INTEGER,
    gdp_yoy_pct           DOUBLE,
    unemployment_yoy_pct  DOUBLE,
    inflation_yoy_pct     DOUBLE,
    gdp_share_of_aggregate_pct        DOUBLE,
    population_share_of_aggregate_pct DOUBLE
);

CREATE TABLE IF NOT EXISTS data_quality_scores (
    country_code VARCHAR NOT NULL,
    completeness DOUBLE NOT NULL,
    timeliness   DOUBLE NOT NULL,
    validity     DOUBLE NOT NULL,
    overall      DOUBLE NOT NULL,
    scored_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS indicator_anomalies (
    country_code   VARCHAR NOT NULL,
    indicator      VARCHAR NOT NULL,
    reference_date DATE NOT NULL,
    value          DOUBLE NOT NULL,
    z_score        DOUBLE NOT NULL,
    series_mean    DOUBLE NOT NULL,
    series_stddev  DOUBLE NOT NULL
);

CREATE TABLE IF NOT EXISTS unemployment_forecast (
    country_code   VARCHAR NOT NULL,
    indicator      VARCHAR NOT NULL,
    reference_date DATE NOT NULL,
    forecast       DOUBLE NOT NULL,
    method         VARCHAR NOT NULL
);
`

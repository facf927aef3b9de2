package types

// ProjectConfig is the parsed euromarts.yaml project configuration.
type ProjectConfig struct {
	// Store selects the persistence backend: "memory" or "duckdb".
	Store string `yaml:"store"`

	DuckDB   *DuckDBConfig   `yaml:"duckdb,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`

	// DataDir holds the extracted raw batches, one JSON-lines file per
	// dataset (e.g. data/raw/une_rt_m.jsonl).
	DataDir string `yaml:"dataDir"`
	// SeedPath is the static country metadata CSV.
	SeedPath string `yaml:"seedPath"`

	// AggregateEntity is the geography code of the EU-wide aggregate. It is
	// excluded from country-level ranking and used as the share-of-total
	// denominator.
	AggregateEntity string `yaml:"aggregateEntity"`

	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`
	Quality  QualityConfig  `yaml:"quality,omitempty"`
	Alerts   AlertConfig    `yaml:"alerts,omitempty"`
}

// DuckDBConfig configures the DuckDB store.
type DuckDBConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig configures the optional Postgres archival mirror.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SnapshotConfig configures the revision snapshot engine.
type SnapshotConfig struct {
	// HardDelete closes and marks deleted any open version whose natural key
	// is absent from the current extraction.
	HardDelete bool `yaml:"hardDelete"`
}

// QualityConfig holds thresholds for the advisory data-quality checks.
// Zero values fall back to defaults at check time.
type QualityConfig struct {
	AggregateTolerancePct float64 `yaml:"aggregateTolerancePct,omitempty"`
	UnemploymentMin       float64 `yaml:"unemploymentMin,omitempty"`
	UnemploymentMax       float64 `yaml:"unemploymentMax,omitempty"`
	InflationMin          float64 `yaml:"inflationMin,omitempty"`
	InflationMax          float64 `yaml:"inflationMax,omitempty"`
	TimelinessDays        int     `yaml:"timelinessDays,omitempty"`
}

// AlertConfig configures where quality violations are delivered.
type AlertConfig struct {
	WebhookURL string `yaml:"webhookUrl,omitempty"`
}

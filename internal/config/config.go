// Package config handles loading and validation of euromarts.yaml project
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// FileName is the project configuration file looked up in the project
// directory.
const FileName = "euromarts.yaml"

// DefaultAggregateEntity is the EU-wide aggregate geography used when the
// config leaves aggregateEntity unset.
const DefaultAggregateEntity = "EU27_2020"

// Load reads and parses euromarts.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *types.ProjectConfig) {
	if cfg.Store == "" {
		cfg.Store = "memory"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join("data", "raw")
	}
	if cfg.SeedPath == "" {
		cfg.SeedPath = filepath.Join("data", "seeds", "countries.csv")
	}
	if cfg.AggregateEntity == "" {
		cfg.AggregateEntity = DefaultAggregateEntity
	}
}

func validate(cfg *types.ProjectConfig) error {
	switch cfg.Store {
	case "memory":
	case "duckdb":
		if cfg.DuckDB == nil || cfg.DuckDB.Path == "" {
			return fmt.Errorf("duckdb.path is required when store is duckdb")
		}
	default:
		return fmt.Errorf("unknown store %q (expected memory or duckdb)", cfg.Store)
	}
	if cfg.Postgres != nil && cfg.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required when postgres is configured")
	}
	if cfg.Quality.UnemploymentMax < cfg.Quality.UnemploymentMin {
		return fmt.Errorf("quality.unemploymentMax must not be below quality.unemploymentMin")
	}
	if cfg.Quality.InflationMax < cfg.Quality.InflationMin {
		return fmt.Errorf("quality.inflationMax must not be below quality.inflationMin")
	}
	if cfg.Quality.TimelinessDays < 0 {
		return fmt.Errorf("quality.timelinessDays must not be negative")
	}
	return nil
}

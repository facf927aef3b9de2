package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `store: duckdb
duckdb:
  path: warehouse.duckdb
dataDir: data/raw
seedPath: data/seeds/countries.csv
aggregateEntity: EU27_2020
snapshot:
  hardDelete: true
quality:
  aggregateTolerancePct: 2.5
alerts:
  webhookUrl: https://hooks.example.com/quality
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Store)
	require.NotNil(t, cfg.DuckDB)
	assert.Equal(t, "warehouse.duckdb", cfg.DuckDB.Path)
	assert.Equal(t, "EU27_2020", cfg.AggregateEntity)
	assert.True(t, cfg.Snapshot.HardDelete)
	assert.Equal(t, 2.5, cfg.Quality.AggregateTolerancePct)
	assert.Equal(t, "https://hooks.example.com/quality", cfg.Alerts.WebhookURL)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "store: memory\n"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, filepath.Join("data", "raw"), cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "seeds", "countries.csv"), cfg.SeedPath)
	assert.Equal(t, DefaultAggregateEntity, cfg.AggregateEntity)
	assert.False(t, cfg.Snapshot.HardDelete)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml"))
	assert.Error(t, err)
}

func TestValidation_UnknownStore(t *testing.T) {
	_, err := Load(writeConfig(t, "store: sqlite\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}

func TestValidation_DuckDBPathRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "store: duckdb\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duckdb.path")
}

func TestValidation_PostgresDSNRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "store: memory\npostgres:\n  dsn: \"\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestValidation_QualityBounds(t *testing.T) {
	_, err := Load(writeConfig(t, "store: memory\nquality:\n  unemploymentMin: 10\n  unemploymentMax: 5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unemploymentMax")
}

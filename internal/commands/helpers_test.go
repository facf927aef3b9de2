package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euromarts-io/euromarts/internal/config"
	"github.com/euromarts-io/euromarts/pkg/types"
)

func TestNewStore_Memory(t *testing.T) {
	st, err := newStore(context.Background(), &types.ProjectConfig{Store: "memory"})
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NoError(t, st.Ping(context.Background()))
	assert.NoError(t, st.Close())
}

func TestNewStore_Unsupported(t *testing.T) {
	_, err := newStore(context.Background(), &types.ProjectConfig{Store: "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store")
}

func TestRunInit_Scaffolding(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "eurostats")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(cwd)) })

	require.NoError(t, runInit("eurostats"))

	cfg, err := config.Load(project)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Store)
	assert.Equal(t, "EU27_2020", cfg.AggregateEntity)

	seed, err := os.ReadFile(filepath.Join(project, "data", "seeds", "countries.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(seed), "DE,Germany")

	info, err := os.Stat(filepath.Join(project, "data", "raw"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// Package commands implements the CLI subcommands for the euromarts binary.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/euromarts-io/euromarts/internal/store"
	"github.com/euromarts-io/euromarts/internal/store/duckdb"
	"github.com/euromarts-io/euromarts/internal/store/memory"
	"github.com/euromarts-io/euromarts/pkg/types"
)

const commandTimeout = 10 * time.Minute

// newLogger builds the CLI logger. Output is tinted for terminals.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

// newStore creates the configured persistence backend.
func newStore(ctx context.Context, cfg *types.ProjectConfig) (store.Store, error) {
	switch cfg.Store {
	case "memory":
		return memory.New(), nil
	case "duckdb":
		st, err := duckdb.Open(ctx, cfg.DuckDB.Path)
		if err != nil {
			return nil, fmt.Errorf("opening duckdb store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Store)
	}
}

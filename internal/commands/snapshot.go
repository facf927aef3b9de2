package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/euromarts-io/euromarts/internal/config"
	"github.com/euromarts-io/euromarts/internal/snapshot"
	"github.com/euromarts-io/euromarts/internal/source"
	"github.com/euromarts-io/euromarts/internal/staging"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// NewSnapshotCmd creates the snapshot command.
func NewSnapshotCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Version GDP revisions without running the rest of the graph",
		Long: `Stages the current GDP extraction and updates the revision history: a
changed value closes the open version and opens a new one, an unchanged value
is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func runSnapshot(verbose bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(verbose)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	registry := source.Defaults()
	spec, err := registry.Get(source.DatasetGDP)
	if err != nil {
		return err
	}
	batches, err := source.LoadBatches(registry, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading raw batches: %w", err)
	}

	staged := staging.New(logger).Stage(spec, batches[spec.Name])
	rc := types.NewRunContext(clockwork.NewRealClock().Now(), false)

	result, err := snapshot.New(st, cfg.Snapshot.HardDelete, logger).Run(ctx, rc, staged)
	if err != nil {
		return fmt.Errorf("running snapshot: %w", err)
	}

	color.Green("Snapshot complete.")
	fmt.Printf("  opened: %d  closed: %d  unchanged: %d  deleted: %d\n",
		result.Opened, result.Closed, result.Unchanged, result.Deleted)
	return nil
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/euromarts-io/euromarts/internal/config"
	"github.com/euromarts-io/euromarts/internal/pipeline"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var fullRefresh bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the transform graph end to end",
		Long: `Stages the extracted raw batches, rebuilds the derived tables, appends new
fact rows past the watermark, and versions GDP revisions. Pass --full-refresh
to discard the fact table and rebuild it from scratch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(fullRefresh, verbose)
		},
	}

	cmd.Flags().BoolVar(&fullRefresh, "full-refresh", false, "Discard persisted facts and rebuild from scratch")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func runBuild(fullRefresh, verbose bool) error {
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

	clock := clockwork.NewRealClock()
	rc := types.NewRunContext(clock.Now(), fullRefresh)

	summary, err := pipeline.New(cfg, st, logger).Run(ctx, rc)
	if err != nil {
		return fmt.Errorf("running build: %w", err)
	}

	printRunSummary(summary)
	if summary.Report.Failed() {
		return fmt.Errorf("build finished with failed nodes")
	}
	return nil
}

func printRunSummary(summary *pipeline.RunSummary) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Run %s\n", summary.RunID)

	for _, res := range summary.Report.Results {
		var status string
		switch res.Status {
		case types.NodeRan:
			status = color.GreenString("RAN")
		case types.NodeSkipped:
			status = color.YellowString("SKIPPED")
		case types.NodeFailed:
			status = color.RedString("FAILED")
		default:
			status = string(res.Status)
		}
		if res.Err != nil {
			fmt.Printf("  %-22s %s (%s) %v\n", res.Name, status, res.Duration.Round(time.Millisecond), res.Err)
		} else {
			fmt.Printf("  %-22s %s (%s)\n", res.Name, status, res.Duration.Round(time.Millisecond))
		}
	}

	if m := summary.Materialized; m != nil {
		fmt.Printf("\nFacts: %s build, %d rows appended\n", m.Mode, m.RowsAppended)
	}
	if s := summary.Snapshot; s != nil {
		fmt.Printf("Snapshots: %d opened, %d closed, %d unchanged, %d deleted\n",
			s.Opened, s.Closed, s.Unchanged, s.Deleted)
	}
	if n := len(summary.Violations); n > 0 {
		color.Yellow("Quality violations: %d", n)
	}
}

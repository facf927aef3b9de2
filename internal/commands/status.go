package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/euromarts-io/euromarts/internal/config"
)

const statusTimeout = 10 * time.Second

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the fact watermark and table counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
	defer cancel()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Store: %s\n", cfg.Store)

	watermark, err := st.FactWatermark(ctx)
	if err != nil {
		return fmt.Errorf("reading watermark: %w", err)
	}
	if watermark == nil {
		fmt.Println("Facts: empty (next build runs full)")
	} else {
		fmt.Printf("Fact watermark: %s (next build appends strictly newer periods)\n",
			watermark.Format("2006-01"))
	}

	count, err := st.CountFacts(ctx)
	if err != nil {
		return fmt.Errorf("counting facts: %w", err)
	}
	fmt.Printf("Fact rows: %d\n", count)

	open, err := st.OpenVersions(ctx)
	if err != nil {
		return fmt.Errorf("reading open snapshot versions: %w", err)
	}
	fmt.Printf("Open snapshot versions: %d\n", len(open))
	return nil
}

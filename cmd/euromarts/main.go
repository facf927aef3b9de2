package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/euromarts-io/euromarts/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "euromarts",
		Short: "Incremental data marts for European economic statistics",
		Long: `Euromarts transforms extracted Eurostat batches into analysis-ready tables:
staged observations, annual and monthly indicator aggregates, an
incrementally maintained fact table, versioned GDP revision history, and
ranked annual summaries.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewBuildCmd(),
		commands.NewSnapshotCmd(),
		commands.NewStatusCmd(),
		commands.NewArchiveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/euromarts-io/euromarts/internal/config"
	"github.com/euromarts-io/euromarts/internal/store/postgres"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// NewArchiveCmd creates the archive command.
func NewArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Mirror facts and snapshot history into the Postgres archive",
		Long: `Copies the persisted fact rows and the full snapshot version history into
the configured Postgres archive. Rows already archived are refreshed in place;
a cursor records the newest archived period for monitoring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive()
		},
	}
}

func runArchive() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Postgres == nil {
		return fmt.Errorf("postgres is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	archive, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connecting to archive: %w", err)
	}
	defer archive.Close()

	if err := archive.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating archive schema: %w", err)
	}

	facts, err := st.ListFacts(ctx)
	if err != nil {
		return fmt.Errorf("listing facts: %w", err)
	}
	if err := archive.UpsertFacts(ctx, facts); err != nil {
		return fmt.Errorf("archiving facts: %w", err)
	}

	versions, err := allVersions(ctx, st)
	if err != nil {
		return err
	}
	if err := archive.UpsertSnapshots(ctx, versions); err != nil {
		return fmt.Errorf("archiving snapshots: %w", err)
	}

	if len(facts) > 0 {
		newest := facts[len(facts)-1].ReferenceDate
		if err := archive.SetCursor(ctx, "facts", newest.Format("2006-01-02")); err != nil {
			return fmt.Errorf("updating archive cursor: %w", err)
		}
	}

	color.Green("Archive complete.")
	fmt.Printf("  facts: %d  snapshot versions: %d\n", len(facts), len(versions))
	return nil
}

// allVersions collects the full version history across every natural key with
// an open version. Closed-out keys with no open version are reachable through
// earlier archive runs.
func allVersions(ctx context.Context, st interface {
	OpenVersions(ctx context.Context) (map[string]types.SnapshotRow, error)
	ListVersions(ctx context.Context, naturalKey string) ([]types.SnapshotRow, error)
}) ([]types.SnapshotRow, error) {
	open, err := st.OpenVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing open versions: %w", err)
	}
	keys := make([]string, 0, len(open))
	for k := range open {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []types.SnapshotRow
	for _, key := range keys {
		versions, err := st.ListVersions(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("listing versions for %s: %w", key, err)
		}
		out = append(out, versions...)
	}
	return out, nil
}

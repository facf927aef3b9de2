// Package snapshot maintains the full change history of GDP values using a
// content-hash check strategy: a revision is detected by comparing the hash
// of the tracked columns between runs, not by trusting source timestamps.
//
// For every natural key at most one open version (valid_to null) exists. A
// changed hash closes the open version at the run timestamp and opens a new
// one; an unchanged hash touches nothing; a key that disappears from the
// extraction is optionally closed and marked deleted. The closed versions
// plus the open one form a gap-free, non-overlapping timeline.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/euromarts-io/euromarts/internal/keygen"
	"github.com/euromarts-io/euromarts/internal/metrics"
	"github.com/euromarts-io/euromarts/internal/store"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// Engine applies one extraction's staged GDP rows to the snapshot history.
type Engine struct {
	store store.Store
	// hardDelete closes and marks deleted any open version whose natural key
	// is absent from the current extraction.
	hardDelete bool
	logger     *slog.Logger
}

// Result reports what one snapshot run did.
type Result struct {
	Opened    int
	Closed    int
	Unchanged int
	Deleted   int
}

// New creates a snapshot Engine. A nil logger falls back to slog.Default.
func New(s store.Store, hardDelete bool, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, hardDelete: hardDelete, logger: logger}
}

// Run applies the latest extraction. The natural key is (country, reference
// year); the tracked value is the GDP measure. A null tracked value hashes as
// a distinct value (the empty canonical form), never as "no change".
func (e *Engine) Run(ctx context.Context, rc types.RunContext, staged []types.StagedRow) (*Result, error) {
	open, err := e.store.OpenVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading open versions: %w", err)
	}

	// Collapse the extraction onto natural keys, keeping the most recently
	// extracted row per key, then process in deterministic order.
	byKey := make(map[string]types.StagedRow)
	for _, row := range staged {
		key := keygen.Key(row.CountryCode, row.ReferenceYear)
		if prev, ok := byKey[key]; ok && !row.ExtractedAt.After(prev.ExtractedAt) {
			continue
		}
		byKey[key] = row
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := &Result{}
	for _, key := range keys {
		row := byKey[key]
		hash := keygen.Key(row.Value, row.UnitCode)

		current, exists := open[key]
		if exists && current.ValueHash == hash {
			res.Unchanged++
			continue
		}
		if exists {
			if err := e.store.CloseVersion(ctx, key, rc.RunTime, false); err != nil {
				return nil, fmt.Errorf("closing version %s: %w", key, err)
			}
			res.Closed++
		}
		version := types.SnapshotRow{
			NaturalKey:    key,
			CountryCode:   row.CountryCode,
			ReferenceYear: row.ReferenceYear,
			GDPMillionEUR: types.Float(row.Value),
			ValueHash:     hash,
			ValidFrom:     rc.RunTime,
		}
		if err := e.store.InsertVersion(ctx, version); err != nil {
			return nil, fmt.Errorf("opening version %s: %w", key, err)
		}
		res.Opened++
	}

	if e.hardDelete {
		missing := make([]string, 0)
		for key := range open {
			if _, present := byKey[key]; !present {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		for _, key := range missing {
			if err := e.store.CloseVersion(ctx, key, rc.RunTime, true); err != nil {
				return nil, fmt.Errorf("invalidating version %s: %w", key, err)
			}
			res.Deleted++
		}
	}

	metrics.SnapshotVersionsOpened.Add(int64(res.Opened))
	metrics.SnapshotVersionsClosed.Add(int64(res.Closed))
	metrics.SnapshotHardDeletes.Add(int64(res.Deleted))

	e.logger.Info("snapshot run complete",
		"opened", res.Opened, "closed", res.Closed,
		"unchanged", res.Unchanged, "deleted", res.Deleted, "run", rc.RunID)
	return res, nil
}

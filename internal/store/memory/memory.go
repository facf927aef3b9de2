// Package memory implements an in-process Store. It backs unit tests and
// quick local runs; nothing survives the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/euromarts-io/euromarts/internal/store"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// Store is the in-memory backend.
type Store struct {
	mu sync.RWMutex

	factColumns []store.Column
	facts       []types.FactRow
	versions    []types.SnapshotRow

	staging       map[string][]types.StagedRow
	annual        []types.AnnualMetricRow
	monthly       []types.MonthlyIndicatorRow
	dimension     []types.DimensionRow
	summary       []types.SummaryRow
	qualityScores []types.QualityScore
	anomalies     []types.Anomaly
	forecasts     []types.ForecastPoint
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{staging: make(map[string][]types.StagedRow)}
}

var _ store.Store = (*Store)(nil)

// EnsureFactColumns records any columns not yet part of the fact schema.
// Existing rows are untouched; their new columns read as null.
func (s *Store) EnsureFactColumns(_ context.Context, cols []store.Column) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	known := make(map[string]bool, len(s.factColumns))
	for _, c := range s.factColumns {
		known[c.Name] = true
	}
	for _, c := range cols {
		if !known[c.Name] {
			s.factColumns = append(s.factColumns, c)
			known[c.Name] = true
		}
	}
	return nil
}

// FactColumnNames returns the recorded fact schema, in order. Test hook.
func (s *Store) FactColumnNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.factColumns))
	for i, c := range s.factColumns {
		names[i] = c.Name
	}
	return names
}

func (s *Store) FactWatermark(context.Context) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max *time.Time
	for i := range s.facts {
		d := s.facts[i].ReferenceDate
		if max == nil || d.After(*max) {
			max = &d
		}
	}
	if max == nil {
		return nil, nil
	}
	wm := *max
	return &wm, nil
}

func (s *Store) AppendFacts(_ context.Context, rows []types.FactRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = append(s.facts, rows...)
	return nil
}

func (s *Store) ResetFacts(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = nil
	return nil
}

func (s *Store) ListFacts(context.Context) ([]types.FactRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.FactRow, len(s.facts))
	copy(out, s.facts)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReferenceDate.Equal(out[j].ReferenceDate) {
			return out[i].ReferenceDate.Before(out[j].ReferenceDate)
		}
		return out[i].CountryCode < out[j].CountryCode
	})
	return out, nil
}

func (s *Store) CountFacts(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts), nil
}

func (s *Store) OpenVersions(context.Context) (map[string]types.SnapshotRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	open := make(map[string]types.SnapshotRow)
	for _, v := range s.versions {
		if v.ValidTo == nil {
			open[v.NaturalKey] = v
		}
	}
	return open, nil
}

func (s *Store) ListVersions(_ context.Context, naturalKey string) ([]types.SnapshotRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.SnapshotRow
	for _, v := range s.versions {
		if v.NaturalKey == naturalKey {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ValidFrom.Before(out[j].ValidFrom) })
	return out, nil
}

func (s *Store) InsertVersion(_ context.Context, row types.SnapshotRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, row)
	return nil
}

func (s *Store) CloseVersion(_ context.Context, naturalKey string, closedAt time.Time, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.versions {
		if s.versions[i].NaturalKey == naturalKey && s.versions[i].ValidTo == nil {
			ts := closedAt
			s.versions[i].ValidTo = &ts
			s.versions[i].IsDeleted = deleted
			return nil
		}
	}
	return fmt.Errorf("no open version for natural key %s", naturalKey)
}

func (s *Store) ReplaceStaging(_ context.Context, dataset string, rows []types.StagedRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staging[dataset] = append([]types.StagedRow(nil), rows...)
	return nil
}

// Staging returns a dataset's staged rows. Test hook.
func (s *Store) Staging(dataset string) []types.StagedRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.StagedRow(nil), s.staging[dataset]...)
}

func (s *Store) ReplaceAnnual(_ context.Context, rows []types.AnnualMetricRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annual = append([]types.AnnualMetricRow(nil), rows...)
	return nil
}

// Annual returns the persisted annual metric rows. Test hook.
func (s *Store) Annual() []types.AnnualMetricRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.AnnualMetricRow(nil), s.annual...)
}

func (s *Store) ReplaceMonthly(_ context.Context, rows []types.MonthlyIndicatorRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthly = append([]types.MonthlyIndicatorRow(nil), rows...)
	return nil
}

// Monthly returns the persisted monthly indicator rows. Test hook.
func (s *Store) Monthly() []types.MonthlyIndicatorRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.MonthlyIndicatorRow(nil), s.monthly...)
}

func (s *Store) ReplaceDimension(_ context.Context, rows []types.DimensionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = append([]types.DimensionRow(nil), rows...)
	return nil
}

// Dimension returns the persisted dimension rows. Test hook.
func (s *Store) Dimension() []types.DimensionRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.DimensionRow(nil), s.dimension...)
}

func (s *Store) ReplaceSummary(_ context.Context, rows []types.SummaryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = append([]types.SummaryRow(nil), rows...)
	return nil
}

// Summary returns the persisted summary rows. Test hook.
func (s *Store) Summary() []types.SummaryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.SummaryRow(nil), s.summary...)
}

func (s *Store) ReplaceQualityScores(_ context.Context, rows []types.QualityScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qualityScores = append([]types.QualityScore(nil), rows...)
	return nil
}

func (s *Store) ReplaceAnomalies(_ context.Context, rows []types.Anomaly) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anomalies = append([]types.Anomaly(nil), rows...)
	return nil
}

func (s *Store) ReplaceForecasts(_ context.Context, rows []types.ForecastPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecasts = append([]types.ForecastPoint(nil), rows...)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

package materialize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/euromarts-io/euromarts/internal/store/memory"
	"github.com/euromarts-io/euromarts/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indicatorRows(country string, months int) []types.MonthlyIndicatorRow {
	rows := make([]types.MonthlyIndicatorRow, months)
	for i := 0; i < months; i++ {
		date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		rows[i] = types.MonthlyIndicatorRow{
			IndicatorKey:     fmt.Sprintf("%s-%s", country, date.Format("2006-01")),
			CountryCode:      country,
			ReferenceDate:    date,
			ReferenceYear:    date.Year(),
			ReferenceMonth:   int(date.Month()),
			UnemploymentRate: types.Float(3 + float64(i)/10),
		}
	}
	return rows
}

func runContext(full bool) types.RunContext {
	return types.NewRunContext(time.Date(2024, 2, 15, 6, 0, 0, 0, time.UTC), full)
}

func TestRun_FullBuildOnEmptyTable(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	rows := indicatorRows("DE", 6)

	res, err := New(s, nil).Run(ctx, runContext(false), rows)
	require.NoError(t, err)
	assert.Equal(t, types.BuildFull, res.Mode)
	assert.Nil(t, res.Watermark)
	assert.Equal(t, 6, res.RowsAppended)

	n, err := s.CountFacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestRun_IncrementalAppendsOnlyNewerPeriods(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	m := New(s, nil)
	rows := indicatorRows("DE", 8)

	_, err := m.Run(ctx, runContext(false), rows[:5])
	require.NoError(t, err)

	res, err := m.Run(ctx, runContext(false), rows)
	require.NoError(t, err)
	assert.Equal(t, types.BuildIncremental, res.Mode)
	require.NotNil(t, res.Watermark)
	assert.True(t, res.Watermark.Equal(rows[4].ReferenceDate))
	assert.Equal(t, 3, res.RowsAppended)

	n, err := s.CountFacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

// Full build over all rows and full-build-then-incremental must agree for
// any split point when rows arrive in date order.
func TestRun_FullEqualsIncrementalAtAnySplit(t *testing.T) {
	ctx := context.Background()
	rows := indicatorRows("DE", 12)

	reference := memory.New()
	_, err := New(reference, nil).Run(ctx, runContext(false), rows)
	require.NoError(t, err)
	want, err := reference.ListFacts(ctx)
	require.NoError(t, err)

	for k := 1; k < len(rows); k++ {
		s := memory.New()
		m := New(s, nil)
		_, err := m.Run(ctx, runContext(false), rows[:k])
		require.NoError(t, err)
		_, err = m.Run(ctx, runContext(false), rows[k:])
		require.NoError(t, err)

		got, err := s.ListFacts(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(want), "split at %d", k)
		for i := range got {
			assert.Equal(t, want[i].IndicatorKey, got[i].IndicatorKey, "split at %d", k)
		}
	}
}

func TestRun_SecondRunWithNoNewDataAppendsNothing(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	m := New(s, nil)
	rows := indicatorRows("DE", 6)

	_, err := m.Run(ctx, runContext(false), rows)
	require.NoError(t, err)

	res, err := m.Run(ctx, runContext(false), rows)
	require.NoError(t, err)
	assert.Equal(t, types.BuildIncremental, res.Mode)
	assert.Zero(t, res.RowsAppended)

	n, err := s.CountFacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestRun_HistoricalCorrectionNotApplied(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	m := New(s, nil)
	rows := indicatorRows("DE", 6)

	_, err := m.Run(ctx, runContext(false), rows)
	require.NoError(t, err)

	// Upstream revises an already-materialized month. Incremental refresh
	// must not pick it up.
	rows[2].UnemploymentRate = types.Float(99)
	res, err := m.Run(ctx, runContext(false), rows)
	require.NoError(t, err)
	assert.Zero(t, res.RowsAppended)

	facts, err := s.ListFacts(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, 99.0, *facts[2].UnemploymentRate)
}

func TestRun_ForceFullRebuildReplacesHistory(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	m := New(s, nil)
	rows := indicatorRows("DE", 6)

	_, err := m.Run(ctx, runContext(false), rows)
	require.NoError(t, err)

	rows[2].UnemploymentRate = types.Float(99)
	res, err := m.Run(ctx, runContext(true), rows)
	require.NoError(t, err)
	assert.Equal(t, types.BuildFull, res.Mode)
	assert.Equal(t, 6, res.RowsAppended)

	facts, err := s.ListFacts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 6)
	assert.Equal(t, 99.0, *facts[2].UnemploymentRate)
}

func TestRun_StampsInvocationID(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	rc := runContext(false)

	_, err := New(s, nil).Run(ctx, rc, indicatorRows("DE", 2))
	require.NoError(t, err)

	facts, err := s.ListFacts(ctx)
	require.NoError(t, err)
	for _, f := range facts {
		assert.Equal(t, rc.RunID, f.InvocationID)
		assert.True(t, f.LoadedAt.Equal(rc.RunTime))
	}
}

func TestRun_SchemaRecordedBeforeAppend(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, err := New(s, nil).Run(ctx, runContext(false), indicatorRows("DE", 1))
	require.NoError(t, err)
	assert.Contains(t, s.FactColumnNames(), "invocation_id")
}

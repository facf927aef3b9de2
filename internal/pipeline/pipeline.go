// Package pipeline assembles the transform graph and runs one end-to-end
// build: staging per dataset, annual and monthly aggregation, incremental
// fact materialization, revision snapshots, marts, and the advisory quality
// and analytics layers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/euromarts-io/euromarts/internal/aggregate"
	"github.com/euromarts-io/euromarts/internal/alert"
	"github.com/euromarts-io/euromarts/internal/analytics"
	"github.com/euromarts-io/euromarts/internal/engine"
	"github.com/euromarts-io/euromarts/internal/marts"
	"github.com/euromarts-io/euromarts/internal/materialize"
	"github.com/euromarts-io/euromarts/internal/metrics"
	"github.com/euromarts-io/euromarts/internal/quality"
	"github.com/euromarts-io/euromarts/internal/snapshot"
	"github.com/euromarts-io/euromarts/internal/source"
	"github.com/euromarts-io/euromarts/internal/staging"
	"github.com/euromarts-io/euromarts/internal/store"
	"github.com/euromarts-io/euromarts/pkg/types"
)

const (
	anomalyZThreshold = 3.0
	forecastHorizon   = 6
)

// Pipeline wires the transforms against one store and one project config.
type Pipeline struct {
	cfg        *types.ProjectConfig
	store      store.Store
	registry   *source.Registry
	stager     *staging.Transformer
	dispatcher *alert.Dispatcher
	logger     *slog.Logger
}

// RunSummary reports the outcome of one pipeline invocation.
type RunSummary struct {
	RunID        string
	Report       engine.Report
	Materialized *materialize.Result
	Snapshot     *snapshot.Result
	Violations   []types.Violation
}

// New creates a pipeline. A nil logger uses the default.
func New(cfg *types.ProjectConfig, st store.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		registry:   source.Defaults(),
		stager:     staging.New(logger),
		dispatcher: alert.NewDispatcher(cfg.Alerts, logger),
		logger:     logger,
	}
}

// runState is the data handed between nodes of a single invocation. Staging
// nodes run concurrently, so the staged map takes the mutex; the downstream
// fields are written by exactly one node each and only read after it
// finished.
type runState struct {
	mu     sync.Mutex
	staged map[string][]types.StagedRow

	annual     []types.AnnualMetricRow
	monthly    []types.MonthlyIndicatorRow
	seed       []types.CountryMeta
	violations []types.Violation

	materialized *materialize.Result
	snapshot     *snapshot.Result
}

func (s *runState) setStaged(dataset string, rows []types.StagedRow) {
	s.mu.Lock()
	s.staged[dataset] = rows
	s.mu.Unlock()
}

func (s *runState) getStaged(dataset string) []types.StagedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged[dataset]
}

// Run executes one full invocation of the transform graph.
func (p *Pipeline) Run(ctx context.Context, rc types.RunContext) (*RunSummary, error) {
	metrics.RunsTotal.Add(1)
	p.logger.Info("run starting", "run_id", rc.RunID, "full_refresh", rc.FullRefresh)

	batches, err := source.LoadBatches(p.registry, p.cfg.DataDir)
	if err != nil {
		metrics.RunsFailed.Add(1)
		return nil, fmt.Errorf("loading raw batches: %w", err)
	}

	state := &runState{staged: make(map[string][]types.StagedRow)}
	g, err := p.buildGraph(rc, batches, state)
	if err != nil {
		metrics.RunsFailed.Add(1)
		return nil, fmt.Errorf("building graph: %w", err)
	}

	report, err := engine.NewScheduler(p.logger).Run(ctx, g)
	if err != nil {
		metrics.RunsFailed.Add(1)
		return nil, fmt.Errorf("running graph: %w", err)
	}
	if report.Failed() {
		metrics.RunsFailed.Add(1)
	}

	p.dispatcher.Dispatch(ctx, state.violations)

	ran, skipped, failed := report.Counts()
	p.logger.Info("run finished",
		"run_id", rc.RunID,
		"nodes_ran", ran,
		"nodes_skipped", skipped,
		"nodes_failed", failed)

	return &RunSummary{
		RunID:        rc.RunID,
		Report:       report,
		Materialized: state.materialized,
		Snapshot:     state.snapshot,
		Violations:   state.violations,
	}, nil
}

func (p *Pipeline) buildGraph(rc types.RunContext, batches map[string][]types.RawRecord, state *runState) (*engine.Graph, error) {
	g := engine.NewGraph()

	stagingNodes := map[string]string{
		source.DatasetGDP:          "staging_gdp",
		source.DatasetUnemployment: "staging_unemployment",
		source.DatasetInflation:    "staging_inflation",
		source.DatasetPopulation:   "staging_population",
	}
	for _, dataset := range []string{source.DatasetGDP, source.DatasetUnemployment, source.DatasetInflation, source.DatasetPopulation} {
		spec, err := p.registry.Get(dataset)
		if err != nil {
			return nil, err
		}
		if err := g.Add(engine.Node{
			Name: stagingNodes[dataset],
			Run: func(ctx context.Context) error {
				rows := p.stager.Stage(spec, batches[spec.Name])
				state.setStaged(spec.Name, rows)
				return p.store.ReplaceStaging(ctx, spec.Name, rows)
			},
		}); err != nil {
			return nil, err
		}
	}

	nodes := []engine.Node{
		{
			Name:   "seed_countries",
			Inputs: nil,
			Run: func(context.Context) error {
				seed, err := source.LoadCountrySeed(p.cfg.SeedPath)
				if errors.Is(err, os.ErrNotExist) {
					p.logger.Warn("country seed missing, dimension uses observed data only", "path", p.cfg.SeedPath)
					return nil
				}
				if err != nil {
					return fmt.Errorf("loading country seed: %w", err)
				}
				state.seed = seed
				return nil
			},
		},
		{
			Name:   "annual_metrics",
			Inputs: []string{"staging_gdp", "staging_unemployment", "staging_inflation", "staging_population"},
			Run: func(ctx context.Context) error {
				state.annual = aggregate.Annual(aggregate.Inputs{
					GDP:          state.getStaged(source.DatasetGDP),
					Population:   state.getStaged(source.DatasetPopulation),
					Unemployment: state.getStaged(source.DatasetUnemployment),
					Inflation:    state.getStaged(source.DatasetInflation),
				})
				return p.store.ReplaceAnnual(ctx, state.annual)
			},
		},
		{
			Name:   "monthly_indicators",
			Inputs: []string{"staging_unemployment", "staging_inflation", "annual_metrics"},
			Run: func(ctx context.Context) error {
				state.monthly = aggregate.Monthly(
					state.getStaged(source.DatasetUnemployment),
					state.getStaged(source.DatasetInflation),
					state.annual)
				return p.store.ReplaceMonthly(ctx, state.monthly)
			},
		},
		{
			Name:   "fact_indicators",
			Inputs: []string{"monthly_indicators"},
			Run: func(ctx context.Context) error {
				res, err := materialize.New(p.store, p.logger).Run(ctx, rc, state.monthly)
				if err != nil {
					return err
				}
				state.materialized = res
				return nil
			},
		},
		{
			Name:   "gdp_snapshot",
			Inputs: []string{"staging_gdp"},
			Run: func(ctx context.Context) error {
				res, err := snapshot.New(p.store, p.cfg.Snapshot.HardDelete, p.logger).
					Run(ctx, rc, state.getStaged(source.DatasetGDP))
				if err != nil {
					return err
				}
				state.snapshot = res
				return nil
			},
		},
		{
			Name:   "dim_country",
			Inputs: []string{"seed_countries", "annual_metrics", "monthly_indicators"},
			Run: func(ctx context.Context) error {
				rows := marts.Dimension(state.seed, state.annual, state.monthly, p.cfg.AggregateEntity)
				return p.store.ReplaceDimension(ctx, rows)
			},
		},
		{
			Name:   "annual_summary",
			Inputs: []string{"annual_metrics"},
			Run: func(ctx context.Context) error {
				return p.store.ReplaceSummary(ctx, marts.Summary(state.annual, p.cfg.AggregateEntity))
			},
		},
		{
			Name:   "quality_checks",
			Inputs: []string{"annual_metrics", "monthly_indicators"},
			Run: func(ctx context.Context) error {
				checker := quality.NewChecker(p.cfg.Quality, p.cfg.AggregateEntity, p.logger)
				state.violations = checker.Run(state.annual, state.monthly, rc.RunTime)
				return p.store.ReplaceQualityScores(ctx, checker.Scores(state.monthly, rc.RunTime))
			},
		},
		{
			Name:   "indicator_anomalies",
			Inputs: []string{"monthly_indicators"},
			Run: func(ctx context.Context) error {
				return p.store.ReplaceAnomalies(ctx, analytics.DetectAnomalies(state.monthly, anomalyZThreshold))
			},
		},
		{
			Name:   "unemployment_forecast",
			Inputs: []string{"monthly_indicators"},
			Run: func(ctx context.Context) error {
				return p.store.ReplaceForecasts(ctx, analytics.ForecastUnemployment(state.monthly, forecastHorizon))
			},
		},
	}
	for _, n := range nodes {
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

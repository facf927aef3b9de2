// Package quality runs advisory data-quality checks over the derived tables
// and grades each country's data on completeness, timeliness, and validity.
// Findings never abort a run; they are reported and delivered to operators.
package quality

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/euromarts-io/euromarts/internal/metrics"
	"github.com/euromarts-io/euromarts/pkg/types"
)

// Default thresholds, applied where the project config leaves a field zero.
const (
	defaultAggregateTolerancePct = 5.0
	defaultUnemploymentMin       = 0.0
	defaultUnemploymentMax       = 30.0
	defaultInflationMin          = -5.0
	defaultInflationMax          = 20.0
	defaultTimelinessDays        = 90
)

// Checker evaluates quality rules against the derived tables.
type Checker struct {
	cfg             types.QualityConfig
	aggregateEntity string
	logger          *slog.Logger
}

// NewChecker creates a checker, filling unset thresholds with defaults.
func NewChecker(cfg types.QualityConfig, aggregateEntity string, logger *slog.Logger) *Checker {
	if cfg.AggregateTolerancePct == 0 {
		cfg.AggregateTolerancePct = defaultAggregateTolerancePct
	}
	if cfg.UnemploymentMax == 0 {
		cfg.UnemploymentMin = defaultUnemploymentMin
		cfg.UnemploymentMax = defaultUnemploymentMax
	}
	if cfg.InflationMin == 0 && cfg.InflationMax == 0 {
		cfg.InflationMin = defaultInflationMin
		cfg.InflationMax = defaultInflationMax
	}
	if cfg.TimelinessDays == 0 {
		cfg.TimelinessDays = defaultTimelinessDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{cfg: cfg, aggregateEntity: aggregateEntity, logger: logger}
}

// Run executes every check and returns the combined findings, oldest rule
// first. Each violation increments the quality_violations counter.
func (c *Checker) Run(annual []types.AnnualMetricRow, monthly []types.MonthlyIndicatorRow, now time.Time) []types.Violation {
	var out []types.Violation
	out = append(out, c.CheckAggregateConsistency(annual, now)...)
	out = append(out, c.CheckValueRanges(monthly, now)...)
	for _, v := range out {
		metrics.QualityViolations.Add(1)
		c.logger.Warn("quality violation",
			"check", v.Check,
			"severity", string(v.Severity),
			"country", v.CountryCode,
			"message", v.Message)
	}
	return out
}

// CheckAggregateConsistency verifies, per year, that the aggregate entity's
// GDP stays within tolerance of the sum of the member countries' GDP. Years
// without an aggregate row are skipped.
func (c *Checker) CheckAggregateConsistency(annual []types.AnnualMetricRow, now time.Time) []types.Violation {
	aggByYear := make(map[int]float64)
	sumByYear := make(map[int]float64)
	for _, r := range annual {
		if r.GDPMillionEUR == nil {
			continue
		}
		if r.CountryCode == c.aggregateEntity {
			aggByYear[r.ReferenceYear] = *r.GDPMillionEUR
		} else {
			sumByYear[r.ReferenceYear] += *r.GDPMillionEUR
		}
	}

	years := make([]int, 0, len(aggByYear))
	for y := range aggByYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var out []types.Violation
	for _, year := range years {
		agg := aggByYear[year]
		sum := sumByYear[year]
		if agg == 0 {
			continue
		}
		driftPct := math.Abs(agg-sum) / agg * 100
		if driftPct <= c.cfg.AggregateTolerancePct {
			continue
		}
		out = append(out, types.Violation{
			Check:         "aggregate_consistency",
			Severity:      types.SeverityWarning,
			CountryCode:   c.aggregateEntity,
			ReferenceYear: year,
			Message: fmt.Sprintf("aggregate GDP %.0f vs member sum %.0f drifts %.1f%% (tolerance %.1f%%)",
				agg, sum, driftPct, c.cfg.AggregateTolerancePct),
			ObservedAt: now,
		})
	}
	return out
}

// CheckValueRanges flags monthly unemployment and inflation observations
// outside the configured plausibility bounds.
func (c *Checker) CheckValueRanges(monthly []types.MonthlyIndicatorRow, now time.Time) []types.Violation {
	var out []types.Violation
	for _, r := range monthly {
		if v := r.UnemploymentRate; v != nil && (*v < c.cfg.UnemploymentMin || *v > c.cfg.UnemploymentMax) {
			out = append(out, types.Violation{
				Check:         "unemployment_range",
				Severity:      types.SeverityError,
				CountryCode:   r.CountryCode,
				ReferenceYear: r.ReferenceYear,
				Message: fmt.Sprintf("unemployment rate %.1f outside [%.1f, %.1f] at %s",
					*v, c.cfg.UnemploymentMin, c.cfg.UnemploymentMax, r.ReferenceDate.Format("2006-01")),
				ObservedAt: now,
			})
		}
		if v := r.InflationRate; v != nil && (*v < c.cfg.InflationMin || *v > c.cfg.InflationMax) {
			out = append(out, types.Violation{
				Check:         "inflation_range",
				Severity:      types.SeverityWarning,
				CountryCode:   r.CountryCode,
				ReferenceYear: r.ReferenceYear,
				Message: fmt.Sprintf("inflation rate %.1f outside [%.1f, %.1f] at %s",
					*v, c.cfg.InflationMin, c.cfg.InflationMax, r.ReferenceDate.Format("2006-01")),
				ObservedAt: now,
			})
		}
	}
	return out
}

// Scores grades each country on the three quality dimensions. Completeness is
// the share of monthly spine rows with both unemployment and inflation
// present, timeliness decays linearly with the age of the newest observation,
// and validity is the share of observations inside the plausibility bounds.
func (c *Checker) Scores(monthly []types.MonthlyIndicatorRow, now time.Time) []types.QualityScore {
	type tally struct {
		rows     int
		complete int
		observed int
		valid    int
		latest   time.Time
	}
	byCountry := make(map[string]*tally)
	for _, r := range monthly {
		t, ok := byCountry[r.CountryCode]
		if !ok {
			t = &tally{}
			byCountry[r.CountryCode] = t
		}
		t.rows++
		if r.UnemploymentRate != nil && r.InflationRate != nil {
			t.complete++
		}
		if r.ReferenceDate.After(t.latest) {
			t.latest = r.ReferenceDate
		}
		if v := r.UnemploymentRate; v != nil {
			t.observed++
			if *v >= c.cfg.UnemploymentMin && *v <= c.cfg.UnemploymentMax {
				t.valid++
			}
		}
		if v := r.InflationRate; v != nil {
			t.observed++
			if *v >= c.cfg.InflationMin && *v <= c.cfg.InflationMax {
				t.valid++
			}
		}
	}

	out := make([]types.QualityScore, 0, len(byCountry))
	for code, t := range byCountry {
		s := types.QualityScore{CountryCode: code, ScoredAt: now}
		if t.rows > 0 {
			s.Completeness = 100 * float64(t.complete) / float64(t.rows)
		}
		if t.observed > 0 {
			s.Validity = 100 * float64(t.valid) / float64(t.observed)
		}
		ageDays := now.Sub(t.latest).Hours() / 24
		s.Timeliness = 100 * (1 - ageDays/float64(c.cfg.TimelinessDays))
		if s.Timeliness < 0 {
			s.Timeliness = 0
		}
		if s.Timeliness > 100 {
			s.Timeliness = 100
		}
		s.Overall = (s.Completeness + s.Timeliness + s.Validity) / 3
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CountryCode < out[j].CountryCode })
	return out
}

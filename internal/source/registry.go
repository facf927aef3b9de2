// Package source declares the raw datasets the pipeline consumes and loads
// their extracted batches and the static country seed.
package source

import (
	"fmt"
	"sort"
	"sync"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// Well-known logical dataset names.
const (
	DatasetGDP          = "gdp"
	DatasetUnemployment = "unemployment"
	DatasetInflation    = "inflation"
	DatasetPopulation   = "population"
)

// DatasetSpec declares one raw dataset: its source identity, natural key,
// and freshness expectation.
type DatasetSpec struct {
	// Name is the logical dataset name used throughout the pipeline.
	Name string
	// SourceCode is the upstream dataset identifier (e.g. "une_rt_m").
	SourceCode  string
	Description string
	Frequency   types.Frequency
	// NaturalKey lists the raw fields, in order, that identify a record
	// within the dataset.
	NaturalKey []string
	// FreshnessDays is the maximum expected age of the newest observation.
	FreshnessDays int
}

// Registry holds the declared datasets.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]DatasetSpec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]DatasetSpec)}
}

// Defaults returns a registry preloaded with the four Eurostat economic
// datasets the pipeline was built around.
func Defaults() *Registry {
	r := NewRegistry()
	for _, spec := range []DatasetSpec{
		{
			Name:          DatasetGDP,
			SourceCode:    "nama_10_gdp",
			Description:   "GDP and main components, current prices, million euro",
			Frequency:     types.FrequencyAnnual,
			NaturalKey:    []string{"geo_code", "time_code"},
			FreshnessDays: 400,
		},
		{
			Name:          DatasetUnemployment,
			SourceCode:    "une_rt_m",
			Description:   "Unemployment rate, seasonally adjusted, % of active population",
			Frequency:     types.FrequencyMonthly,
			NaturalKey:    []string{"geo_code", "time_code"},
			FreshnessDays: 60,
		},
		{
			Name:          DatasetInflation,
			SourceCode:    "prc_hicp_manr",
			Description:   "HICP inflation, annual rate of change",
			Frequency:     types.FrequencyMonthly,
			NaturalKey:    []string{"geo_code", "time_code"},
			FreshnessDays: 60,
		},
		{
			Name:          DatasetPopulation,
			SourceCode:    "demo_pjan",
			Description:   "Population on 1 January",
			Frequency:     types.FrequencyAnnual,
			NaturalKey:    []string{"geo_code", "time_code"},
			FreshnessDays: 500,
		},
	} {
		// Specs above are static and unique; Register cannot fail here.
		_ = r.Register(spec)
	}
	return r
}

// Register adds a dataset spec. Duplicate names are rejected.
func (r *Registry) Register(spec DatasetSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if len(spec.NaturalKey) == 0 {
		return fmt.Errorf("dataset %q: natural key is required", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("dataset %q already registered", spec.Name)
	}
	r.specs[spec.Name] = spec
	return nil
}

// Get returns the spec for a logical dataset name.
func (r *Registry) Get(name string) (DatasetSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	if !ok {
		return DatasetSpec{}, fmt.Errorf("unknown dataset %q", name)
	}
	return spec, nil
}

// List returns all specs sorted by name.
func (r *Registry) List() []DatasetSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]DatasetSpec, 0, len(r.specs))
	for _, s := range r.specs {
		specs = append(specs, s)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

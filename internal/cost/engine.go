// Package cost aggregates per-VM cost estimates into the session cost report:
// totals, component breakdown, environment split and the multi-year
// projection.
package cost

import (
	"fmt"
	"time"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
)

// Input carries the per-VM estimates and the assumption set one aggregation
// pass runs against.
type Input struct {
	Estimates   []api.VMCostEstimate
	Assumptions analysis.AssumptionSet
}

// Aggregator computes one facet of the cost report. Aggregators run in
// registration order and may read fields written by earlier ones.
type Aggregator interface {
	// Name returns the human-readable name of this aggregator, used to
	// detect duplicate registrations.
	Name() string
	// Aggregate fills its portion of the report from the input.
	Aggregate(in Input, report *api.CostReport) error
}

// Engine orchestrates Aggregator objects over a single estimate list.
type Engine struct {
	aggregators []Aggregator
}

// NewEngine creates an Engine with no aggregators registered.
func NewEngine() *Engine {
	return &Engine{
		aggregators: make([]Aggregator, 0),
	}
}

// NewDefaultEngine returns an Engine with the full aggregation pipeline:
// totals, breakdown, environment split and projection, in that order.
func NewDefaultEngine() *Engine {
	e := NewEngine()
	e.Register(&Totals{})
	e.Register(&Breakdown{})
	e.Register(&EnvironmentSplit{})
	e.Register(&Projection{})
	return e
}

// Register adds an Aggregator to the pipeline. Register panics if an
// aggregator with the same Name() is already registered, as the duplicate
// would silently overwrite report fields.
func (e *Engine) Register(a Aggregator) {
	for _, existing := range e.aggregators {
		if existing.Name() == a.Name() {
			panic(fmt.Sprintf("cost: aggregator %q already registered", a.Name()))
		}
	}
	e.aggregators = append(e.aggregators, a)
}

// Run executes all registered aggregators against the input. An empty
// estimate list yields a report of zero totals, never an error.
func (e *Engine) Run(in Input) (api.CostReport, error) {
	report := api.CostReport{
		Estimates:     in.Estimates,
		GeneratedTime: time.Now().UTC(),
	}

	for _, agg := range e.aggregators {
		if err := agg.Aggregate(in, &report); err != nil {
			return api.CostReport{}, fmt.Errorf("cost aggregator %q: %w", agg.Name(), err)
		}
	}

	return report, nil
}

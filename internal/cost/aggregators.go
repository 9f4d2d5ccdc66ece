package cost

import (
	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
)

const monthsPerYear = 12

// Totals sums the per-VM monthly totals. The report total always equals the
// sum of the rows it was computed from; nothing is dropped.
type Totals struct{}

var _ Aggregator = (*Totals)(nil)

func (t *Totals) Name() string { return "Totals" }

func (t *Totals) Aggregate(in Input, report *api.CostReport) error {
	var monthly float64
	for _, est := range in.Estimates {
		monthly += est.TotalMonthlyCost
	}

	report.TotalMonthlyCost = monthly
	report.TotalAnnualCost = monthly * monthsPerYear
	return nil
}

// Breakdown itemizes the monthly total into instance, storage and the two
// overhead components. Network and observability overheads are percentages of
// the total infrastructure cost, not per-VM line items.
type Breakdown struct{}

var _ Aggregator = (*Breakdown)(nil)

func (b *Breakdown) Name() string { return "Breakdown" }

func (b *Breakdown) Aggregate(in Input, report *api.CostReport) error {
	var instance, storage float64
	for _, est := range in.Estimates {
		instance += est.InstanceCost
		storage += est.StorageCost
	}

	infrastructure := instance + storage
	report.Breakdown = api.CostBreakdown{
		Instance:      instance,
		Storage:       storage,
		Network:       infrastructure * in.Assumptions.NetworkOverheadPercent,
		Observability: infrastructure * in.Assumptions.ObservabilityOverheadPercent,
	}
	return nil
}

// EnvironmentSplit groups the monthly totals by the binary environment tag.
type EnvironmentSplit struct{}

var _ Aggregator = (*EnvironmentSplit)(nil)

func (s *EnvironmentSplit) Name() string { return "EnvironmentSplit" }

func (s *EnvironmentSplit) Aggregate(in Input, report *api.CostReport) error {
	for _, est := range in.Estimates {
		if est.Environment == api.EnvironmentTagProduction {
			report.ProductionCost += est.TotalMonthlyCost
		} else {
			report.NonProductionCost += est.TotalMonthlyCost
		}
	}
	return nil
}

// Projection produces the multi-year cost projection: year one is the current
// annual total, each following year grows by the fixed annual rate.
type Projection struct{}

var _ Aggregator = (*Projection)(nil)

func (p *Projection) Name() string { return "Projection" }

func (p *Projection) Aggregate(in Input, report *api.CostReport) error {
	years := in.Assumptions.ProjectionYears
	if years <= 0 {
		return nil
	}

	projection := make([]float64, years)
	projection[0] = report.TotalAnnualCost
	for i := 1; i < years; i++ {
		projection[i] = projection[i-1] * (1 + in.Assumptions.AnnualGrowthRate)
	}

	report.FiveYearProjection = projection
	return nil
}

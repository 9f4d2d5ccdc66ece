package v1alpha1

// PoweredOffPolicy selects how opted-in powered-off exclusion treats VMs.
type PoweredOffPolicy string

const (
	// PoweredOffPolicyAll excludes every powered-off or suspended VM.
	PoweredOffPolicyAll PoweredOffPolicy = "all"
	// PoweredOffPolicyOlderThanCutoff excludes only powered-off VMs whose
	// normalized creation date is older than the configured age cutoff.
	PoweredOffPolicyOlderThanCutoff PoweredOffPolicy = "older_than_cutoff"
)

// ScopeRequest configures a scope analysis run.
type ScopeRequest struct {
	ExcludePoweredOff bool             `json:"excludePoweredOff"`
	PoweredOffPolicy  PoweredOffPolicy `json:"poweredOffPolicy,omitempty"`
}

// TCOParameters configures a cost estimation run. Zero values fall back to
// the server-side defaults.
type TCOParameters struct {
	// Region is informational only; the static price table is region-agnostic.
	Region string `json:"region,omitempty"`
	// ProductionPlan overrides the pricing plan applied to production VMs.
	ProductionPlan PricingPlan `json:"productionPlan,omitempty" validate:"omitempty,oneof=on_demand reserved savings_plan"`
	// NonProductionPlan overrides the pricing plan applied to non-production VMs.
	NonProductionPlan PricingPlan `json:"nonProductionPlan,omitempty" validate:"omitempty,oneof=on_demand reserved savings_plan"`
	// AnnualGrowthRate overrides the default yearly growth assumption used by
	// the five year projection, expressed as a fraction (0.10 == 10%).
	AnnualGrowthRate *float64 `json:"annualGrowthRate,omitempty" validate:"omitempty,gte=0,lte=1"`
}

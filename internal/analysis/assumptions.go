package analysis

import (
	"time"

	"github.com/cloudshift/migration-analyzer/internal/config"
)

const (
	// DefaultVeryOldSerialThreshold marks spreadsheet serial values below it
	// as the "very old" sentinel mapped to the Unix epoch. Carried over from
	// the original rule set; it shadows legitimate near-epoch serials, so it
	// lives here as a named assumption instead of an inline literal.
	DefaultVeryOldSerialThreshold = 100.0

	// DefaultNetworkOverheadPercent is applied to the total infrastructure
	// cost, not per VM.
	DefaultNetworkOverheadPercent = 0.10

	// DefaultObservabilityOverheadPercent is applied to the total
	// infrastructure cost, not per VM.
	DefaultObservabilityOverheadPercent = 0.05

	// DefaultAnnualGrowthRate is the fixed yearly growth assumption of the
	// five year projection.
	DefaultAnnualGrowthRate = 0.10

	// DefaultProjectionYears is the length of the cost projection.
	DefaultProjectionYears = 5

	// DefaultPoweredOffAgeCutoffYears is the age beyond which a powered-off
	// VM is considered abandoned.
	DefaultPoweredOffAgeCutoffYears = 2
)

// AssumptionSet gathers the business parameters used across classification
// and aggregation. They are assumptions, not algorithmic necessities.
type AssumptionSet struct {
	VeryOldSerialThreshold       float64
	NetworkOverheadPercent       float64
	ObservabilityOverheadPercent float64
	AnnualGrowthRate             float64
	ProjectionYears              int
	PoweredOffAgeCutoffYears     int
	// KnownLegacyVMNames is an escape hatch for inventories whose creation
	// dates are unusable. Empty by default.
	KnownLegacyVMNames []string
}

// DefaultAssumptions returns the stock assumption set.
func DefaultAssumptions() AssumptionSet {
	return AssumptionSet{
		VeryOldSerialThreshold:       DefaultVeryOldSerialThreshold,
		NetworkOverheadPercent:       DefaultNetworkOverheadPercent,
		ObservabilityOverheadPercent: DefaultObservabilityOverheadPercent,
		AnnualGrowthRate:             DefaultAnnualGrowthRate,
		ProjectionYears:              DefaultProjectionYears,
		PoweredOffAgeCutoffYears:     DefaultPoweredOffAgeCutoffYears,
	}
}

// AssumptionsFromConfig overlays the environment-provided overrides on top of
// the defaults.
func AssumptionsFromConfig(cfg *config.Config) AssumptionSet {
	a := DefaultAssumptions()
	if cfg == nil || cfg.Analysis == nil {
		return a
	}
	if cfg.Analysis.NetworkOverheadPercent > 0 {
		a.NetworkOverheadPercent = cfg.Analysis.NetworkOverheadPercent
	}
	if cfg.Analysis.ObservabilityOverheadPercent > 0 {
		a.ObservabilityOverheadPercent = cfg.Analysis.ObservabilityOverheadPercent
	}
	if cfg.Analysis.AnnualGrowthRate > 0 {
		a.AnnualGrowthRate = cfg.Analysis.AnnualGrowthRate
	}
	if cfg.Analysis.PoweredOffAgeCutoffYears > 0 {
		a.PoweredOffAgeCutoffYears = cfg.Analysis.PoweredOffAgeCutoffYears
	}
	if len(cfg.Analysis.KnownLegacyVMNames) > 0 {
		a.KnownLegacyVMNames = cfg.Analysis.KnownLegacyVMNames
	}
	return a
}

// PoweredOffAgeCutoff returns the point in time before which a powered-off VM
// counts as abandoned, relative to now.
func (a AssumptionSet) PoweredOffAgeCutoff(now time.Time) time.Time {
	return now.AddDate(-a.PoweredOffAgeCutoffYears, 0, 0)
}

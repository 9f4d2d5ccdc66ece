// Package v1alpha1 contains the wire types exchanged between the analyzer API
// and its clients.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// OsCategory is the canonical operating system bucket used for pricing lookups.
type OsCategory string

const (
	OsWindows   OsCategory = "windows"
	OsRhel      OsCategory = "rhel"
	OsSuse      OsCategory = "suse"
	OsUbuntuPro OsCategory = "ubuntu_pro"
	OsLinux     OsCategory = "linux"
)

// Environment is the workload environment derived from a VM name.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentTesting     Environment = "testing"
	EnvironmentStaging     Environment = "staging"
)

// EnvironmentTag is the binary production/non-production split used by cost
// breakdown charts.
type EnvironmentTag string

const (
	EnvironmentTagProduction    EnvironmentTag = "production"
	EnvironmentTagNonProduction EnvironmentTag = "non_production"
)

// ScopeCategory describes why a VM was excluded from the migration scope.
type ScopeCategory string

const (
	ScopeCategoryVmwareManagement         ScopeCategory = "vmware_management"
	ScopeCategoryContainerizationPlatform ScopeCategory = "containerization_platform"
	ScopeCategoryInfrastructure           ScopeCategory = "infrastructure"
	ScopeCategoryOther                    ScopeCategory = "other"
)

// PricingPlan is the AWS pricing commitment model applied to an instance.
type PricingPlan string

const (
	PricingPlanOnDemand    PricingPlan = "on_demand"
	PricingPlanReserved    PricingPlan = "reserved"
	PricingPlanSavingsPlan PricingPlan = "savings_plan"
)

// VM is one inventory entry parsed from an RVTools export. Records are
// immutable once the upload has been parsed.
type VM struct {
	Name       string  `json:"name"`
	CpuCount   int     `json:"cpuCount"`
	MemoryMB   int     `json:"memoryMB"`
	StorageGB  float64 `json:"storageGB"`
	PowerState string  `json:"powerState,omitempty"`
	// CreatedAt keeps the raw spreadsheet value: a serial number, an ISO
	// string or a locale string. Normalization happens on demand.
	CreatedAt string `json:"createdAt,omitempty"`
	// OsConfig is the "OS according to the configuration file" column.
	OsConfig string `json:"osConfig,omitempty"`
	// OsTools is the "OS according to the VMware Tools" column, used as a
	// fallback descriptor.
	OsTools string `json:"osTools,omitempty"`
}

// Inventory is the full set of VMs attached to an analysis session.
type Inventory struct {
	VcenterID string `json:"vcenterId,omitempty"`
	Vms       []VM   `json:"vms"`
}

// ExcludedVM is an out-of-scope inventory entry with the reason it was
// excluded.
type ExcludedVM struct {
	Name     string        `json:"name"`
	Reason   string        `json:"reason"`
	Category ScopeCategory `json:"category"`
}

// ScopeReport is the result of the migration scope analysis phase.
type ScopeReport struct {
	TotalVms      int          `json:"totalVms"`
	InScope       []string     `json:"inScope"`
	OutOfScope    []ExcludedVM `json:"outOfScope"`
	PoweredOff    []ExcludedVM `json:"poweredOff,omitempty"`
	GeneratedTime time.Time    `json:"generatedTime"`
}

// VMCostEstimate is the per-VM output of the pricing engine.
type VMCostEstimate struct {
	VMName           string         `json:"vmName"`
	CpuCount         int            `json:"cpuCount"`
	MemoryGB         float64        `json:"memoryGB"`
	StorageGB        float64        `json:"storageGB"`
	InstanceType     string         `json:"instanceType"`
	PricingPlan      PricingPlan    `json:"pricingPlan"`
	OsCategory       OsCategory     `json:"osCategory"`
	InstanceCost     float64        `json:"instanceCost"`
	StorageCost      float64        `json:"storageCost"`
	TotalMonthlyCost float64        `json:"totalMonthlyCost"`
	Environment      EnvironmentTag `json:"environment"`
}

// CostBreakdown itemizes the monthly total by component. Network and
// observability are overhead percentages applied to the infrastructure total,
// not computed per VM.
type CostBreakdown struct {
	Instance      float64 `json:"instance"`
	Storage       float64 `json:"storage"`
	Network       float64 `json:"network"`
	Observability float64 `json:"observability"`
}

// CostReport is the result of the TCO estimation phase.
type CostReport struct {
	Estimates          []VMCostEstimate `json:"estimates"`
	TotalMonthlyCost   float64          `json:"totalMonthlyCost"`
	TotalAnnualCost    float64          `json:"totalAnnualCost"`
	Breakdown          CostBreakdown    `json:"breakdown"`
	ProductionCost     float64          `json:"productionCost"`
	NonProductionCost  float64          `json:"nonProductionCost"`
	FiveYearProjection []float64        `json:"fiveYearProjection"`
	GeneratedTime      time.Time        `json:"generatedTime"`
}

// ModernizationCandidate is one modernization suggestion for a VM.
type ModernizationCandidate struct {
	VMName    string `json:"vmName"`
	Kind      string `json:"kind"`
	Rationale string `json:"rationale"`
}

// ModernizationReport is the result of the modernization discovery phase.
type ModernizationReport struct {
	Candidates    []ModernizationCandidate `json:"candidates"`
	CountsByKind  map[string]int           `json:"countsByKind"`
	GeneratedTime time.Time                `json:"generatedTime"`
}

// Session aggregates an uploaded inventory and its phase results.
type Session struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Inventory     *Inventory           `json:"inventory,omitempty"`
	Scope         *ScopeReport         `json:"scope,omitempty"`
	Cost          *CostReport          `json:"cost,omitempty"`
	Modernization *ModernizationReport `json:"modernization,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// SessionSummary is the list representation of a session.
type SessionSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TotalVms  int       `json:"totalVms"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error is the JSON error reply.
type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"request_id,omitempty"`
}

// Package pricing recommends EC2 instance types for VMware VMs and produces
// per-VM monthly cost estimates. Prices come from a static on-demand table;
// commitment plans and OS licensing are modeled as multipliers.
package pricing

import (
	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
)

const (
	hoursPerMonth = 730

	// gp3PerGBMonth is the monthly price per GB of gp3 storage.
	gp3PerGBMonth = 0.08
)

// instanceType is one row of the static general-purpose sizing table.
type instanceType struct {
	name        string
	vcpus       int
	memoryGB    float64
	hourlyLinux float64
}

// sizingTable is ordered smallest first; recommendation picks the first type
// that fits both CPU and memory.
var sizingTable = []instanceType{
	{"t3.small", 2, 2, 0.0208},
	{"t3.medium", 2, 4, 0.0416},
	{"t3.large", 2, 8, 0.0832},
	{"m5.xlarge", 4, 16, 0.192},
	{"m5.2xlarge", 8, 32, 0.384},
	{"m5.4xlarge", 16, 64, 0.768},
	{"m5.8xlarge", 32, 128, 1.536},
	{"m5.12xlarge", 48, 192, 2.304},
	{"m5.16xlarge", 64, 256, 3.072},
	{"m5.24xlarge", 96, 384, 4.608},
}

// osMultipliers express licensing uplift over the base Linux rate.
var osMultipliers = map[api.OsCategory]float64{
	api.OsLinux:     1.0,
	api.OsWindows:   1.85,
	api.OsRhel:      1.30,
	api.OsSuse:      1.25,
	api.OsUbuntuPro: 1.10,
}

// planMultipliers express commitment discounts against on-demand pricing.
var planMultipliers = map[api.PricingPlan]float64{
	api.PricingPlanOnDemand:    1.0,
	api.PricingPlanReserved:    0.60,
	api.PricingPlanSavingsPlan: 0.72,
}

// RecommendInstanceType returns the smallest general-purpose type that fits
// the VM's CPU count and memory. Oversized VMs land on the largest row.
func RecommendInstanceType(cpuCount int, memoryGB float64) string {
	for _, it := range sizingTable {
		if it.vcpus >= cpuCount && it.memoryGB >= memoryGB {
			return it.name
		}
	}
	return sizingTable[len(sizingTable)-1].name
}

// PlanFor selects the pricing plan for an environment tag: production
// defaults to reserved, everything else to on-demand. An explicit override
// from the TCO parameters wins.
func PlanFor(tag api.EnvironmentTag, override api.PricingPlan) api.PricingPlan {
	if override != "" {
		return override
	}
	if tag == api.EnvironmentTagProduction {
		return api.PricingPlanReserved
	}
	return api.PricingPlanOnDemand
}

// Estimate prices a single VM. Missing resource fields price as zero rather
// than failing the estimate.
func Estimate(vm api.VM, params api.TCOParameters) api.VMCostEstimate {
	osCategory := analysis.ClassifyVmOs(vm)
	tag := analysis.ClassifyEnvironmentTag(vm.Name)

	override := params.NonProductionPlan
	if tag == api.EnvironmentTagProduction {
		override = params.ProductionPlan
	}
	plan := PlanFor(tag, override)

	memoryGB := float64(vm.MemoryMB) / 1024.0
	instance := RecommendInstanceType(vm.CpuCount, memoryGB)

	instanceCost := monthlyInstanceCost(instance, osCategory, plan)
	storageCost := storageMonthlyCost(vm.StorageGB)

	return api.VMCostEstimate{
		VMName:           vm.Name,
		CpuCount:         vm.CpuCount,
		MemoryGB:         memoryGB,
		StorageGB:        vm.StorageGB,
		InstanceType:     instance,
		PricingPlan:      plan,
		OsCategory:       osCategory,
		InstanceCost:     instanceCost,
		StorageCost:      storageCost,
		TotalMonthlyCost: instanceCost + storageCost,
		Environment:      tag,
	}
}

// EstimateAll prices every VM in the list, preserving order.
func EstimateAll(vms []api.VM, params api.TCOParameters) []api.VMCostEstimate {
	estimates := make([]api.VMCostEstimate, 0, len(vms))
	for _, vm := range vms {
		estimates = append(estimates, Estimate(vm, params))
	}
	return estimates
}

func monthlyInstanceCost(instance string, osCategory api.OsCategory, plan api.PricingPlan) float64 {
	hourly, ok := lookupHourly(instance)
	if !ok {
		return 0
	}

	osMult, ok := osMultipliers[osCategory]
	if !ok {
		osMult = 1.0
	}
	planMult, ok := planMultipliers[plan]
	if !ok {
		planMult = 1.0
	}

	return hourly * osMult * planMult * hoursPerMonth
}

func lookupHourly(instance string) (float64, bool) {
	for _, it := range sizingTable {
		if it.name == instance {
			return it.hourlyLinux, true
		}
	}
	return 0, false
}

func storageMonthlyCost(storageGB float64) float64 {
	if storageGB <= 0 {
		return 0
	}
	return storageGB * gp3PerGBMonth
}

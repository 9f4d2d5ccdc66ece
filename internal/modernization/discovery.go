// Package modernization scans an in-scope inventory for workloads that map to
// AWS-managed alternatives: managed databases, containers, instance
// scheduling and plain retirement.
package modernization

import (
	"fmt"
	"strings"
	"time"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/analysis"
)

// Candidate kinds reported by Discover.
const (
	KindManagedDatabase    = "managed_database"
	KindContainerization   = "containerization"
	KindInstanceScheduling = "instance_scheduling"
	KindRetirement         = "retirement"
)

var databaseKeywords = []string{"db", "sql", "ora", "postgres", "mysql", "mariadb", "mongo"}

var webTierKeywords = []string{"web", "www", "app", "api", "svc", "service"}

// Discover produces modernization suggestions for the given inventory. Each
// VM yields at most one candidate; rules run most specific first.
func Discover(vms []api.VM) api.ModernizationReport {
	report := api.ModernizationReport{
		Candidates:    make([]api.ModernizationCandidate, 0),
		CountsByKind:  make(map[string]int),
		GeneratedTime: time.Now().UTC(),
	}

	for _, vm := range vms {
		candidate, ok := classify(vm)
		if !ok {
			continue
		}
		report.Candidates = append(report.Candidates, candidate)
		report.CountsByKind[candidate.Kind]++
	}

	return report
}

func classify(vm api.VM) (api.ModernizationCandidate, bool) {
	name := strings.ToLower(vm.Name)

	if isPoweredOff(vm.PowerState) {
		return api.ModernizationCandidate{
			VMName:    vm.Name,
			Kind:      KindRetirement,
			Rationale: fmt.Sprintf("powered off (%s); evaluate for retirement instead of migration", vm.PowerState),
		}, true
	}

	for _, keyword := range databaseKeywords {
		if strings.Contains(name, keyword) {
			return api.ModernizationCandidate{
				VMName:    vm.Name,
				Kind:      KindManagedDatabase,
				Rationale: fmt.Sprintf("name matches database keyword %q; candidate for a managed database service", keyword),
			}, true
		}
	}

	env := analysis.ClassifyEnvironment(vm.Name)
	if env != api.EnvironmentProduction {
		return api.ModernizationCandidate{
			VMName:    vm.Name,
			Kind:      KindInstanceScheduling,
			Rationale: fmt.Sprintf("%s workload; candidate for off-hours instance scheduling", env),
		}, true
	}

	for _, keyword := range webTierKeywords {
		if strings.Contains(name, keyword) {
			return api.ModernizationCandidate{
				VMName:    vm.Name,
				Kind:      KindContainerization,
				Rationale: fmt.Sprintf("name matches web/app tier keyword %q; candidate for containerization", keyword),
			}, true
		}
	}

	return api.ModernizationCandidate{}, false
}

func isPoweredOff(powerState string) bool {
	state := strings.ToLower(powerState)
	return strings.Contains(state, "off") || strings.Contains(state, "suspend")
}

package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
)

// scopeRules are evaluated in priority order: a VM matching an earlier list
// is not re-tested against later lists.
var scopeRules = []struct {
	category api.ScopeCategory
	reason   string
	keywords []string
}{
	{
		category: api.ScopeCategoryVmwareManagement,
		reason:   "VMware management component, replaced by AWS native services",
		keywords: []string{"vcenter", "esxi", "nsx", "vsan", "vrops", "vrealize", "horizon", "workspace", "vmware", "vsphere", "vcloud"},
	},
	{
		category: api.ScopeCategoryContainerizationPlatform,
		reason:   "Containerization platform component, migrates separately",
		keywords: []string{"tanzu", "kubernetes", "k8s", "container", "docker", "harbor", "registry"},
	},
	{
		category: api.ScopeCategoryInfrastructure,
		reason:   "Shared infrastructure service, re-provisioned on AWS",
		keywords: []string{"infra", "infrastructure", "backup", "monitor", "proxy", "gateway", "firewall"},
	},
}

// PartitionScope splits an inventory into in-scope and out-of-scope sets.
// The returned error reports a violated partition invariant and indicates a
// bug, not bad input.
func PartitionScope(vms []api.VM) ([]api.VM, []api.ExcludedVM, error) {
	inScope := make([]api.VM, 0, len(vms))
	outOfScope := make([]api.ExcludedVM, 0)

	for _, vm := range vms {
		if excluded, ok := matchScopeRules(vm.Name); ok {
			outOfScope = append(outOfScope, excluded)
			continue
		}
		inScope = append(inScope, vm)
	}

	if len(inScope)+len(outOfScope) != len(vms) {
		return nil, nil, fmt.Errorf("scope partition invariant violated: %d in scope + %d out of scope != %d total",
			len(inScope), len(outOfScope), len(vms))
	}

	return inScope, outOfScope, nil
}

func matchScopeRules(vmName string) (api.ExcludedVM, bool) {
	name := strings.ToLower(vmName)

	for _, rule := range scopeRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return api.ExcludedVM{
					Name:     vmName,
					Reason:   fmt.Sprintf("%s (matched %q)", rule.reason, keyword),
					Category: rule.category,
				}, true
			}
		}
	}

	return api.ExcludedVM{}, false
}

// legacyKeywords mark VM names that hint at abandoned machines when the
// creation date cannot be parsed.
var legacyKeywords = []string{"legacy", "old", "deprecated", "decom", "retire", "archive", "v1", "stage"}

var yearTokenRegex = regexp.MustCompile(`(19|20)\d{2}`)

// FilterPoweredOff applies the opt-in powered-off exclusion rule, independent
// of the scope filter. With PoweredOffPolicyAll every powered-off or
// suspended VM is excluded; with PoweredOffPolicyOlderThanCutoff only those
// older than the configured cutoff are. VMs with unparseable dates fall back
// to name heuristics and finally to the configured known-legacy list.
func (a AssumptionSet) FilterPoweredOff(vms []api.VM, policy api.PoweredOffPolicy, now time.Time) ([]api.VM, []api.ExcludedVM) {
	kept := make([]api.VM, 0, len(vms))
	excluded := make([]api.ExcludedVM, 0)

	cutoff := a.PoweredOffAgeCutoff(now)

	for _, vm := range vms {
		if !isPoweredOff(vm.PowerState) {
			kept = append(kept, vm)
			continue
		}

		if policy != api.PoweredOffPolicyOlderThanCutoff {
			excluded = append(excluded, api.ExcludedVM{
				Name:     vm.Name,
				Reason:   fmt.Sprintf("powered off (%s)", vm.PowerState),
				Category: api.ScopeCategoryOther,
			})
			continue
		}

		old, reason := a.isOlderThanCutoff(vm, cutoff, now)
		if old {
			excluded = append(excluded, api.ExcludedVM{
				Name:     vm.Name,
				Reason:   reason,
				Category: api.ScopeCategoryOther,
			})
			continue
		}

		kept = append(kept, vm)
	}

	return kept, excluded
}

func isPoweredOff(powerState string) bool {
	state := strings.ToLower(powerState)
	return strings.Contains(state, "off") || strings.Contains(state, "suspend")
}

func (a AssumptionSet) isOlderThanCutoff(vm api.VM, cutoff, now time.Time) (bool, string) {
	if created, ok := a.NormalizeDate(vm.CreatedAt); ok {
		if created.Before(cutoff) {
			return true, fmt.Sprintf("powered off since %s, older than %d year cutoff",
				created.Format("2006-01-02"), a.PoweredOffAgeCutoffYears)
		}
		return false, ""
	}

	// Date unknown: fall back to name heuristics.
	name := strings.ToLower(vm.Name)

	if token := yearTokenRegex.FindString(name); token != "" {
		if year, err := strconv.Atoi(token); err == nil && year <= now.Year()-a.PoweredOffAgeCutoffYears {
			return true, fmt.Sprintf("powered off, name carries year token %s", token)
		}
	}

	for _, keyword := range legacyKeywords {
		if strings.Contains(name, keyword) {
			return true, fmt.Sprintf("powered off, name matches legacy keyword %q", keyword)
		}
	}

	for _, known := range a.KnownLegacyVMNames {
		if strings.EqualFold(vm.Name, known) {
			return true, "powered off, listed as known legacy VM"
		}
	}

	return false, ""
}

package analysis

import (
	"strings"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
)

// environmentRules are tested in order against the lowercased VM name.
var environmentRules = []struct {
	substrings  []string
	environment api.Environment
}{
	{[]string{"prod", "production", "prd"}, api.EnvironmentProduction},
	{[]string{"dev", "development", "devel"}, api.EnvironmentDevelopment},
	{[]string{"test", "testing", "tst", "qa"}, api.EnvironmentTesting},
	{[]string{"stage", "staging", "stg"}, api.EnvironmentStaging},
}

// ClassifyEnvironment maps a VM name to its workload environment. Names
// matching no pattern classify as production: unclassified workloads are
// costed as production rather than under-estimated.
func ClassifyEnvironment(vmName string) api.Environment {
	name := strings.ToLower(vmName)

	for _, rule := range environmentRules {
		for _, sub := range rule.substrings {
			if strings.Contains(name, sub) {
				return rule.environment
			}
		}
	}

	return api.EnvironmentProduction
}

// EnvironmentTagOf collapses the four environments into the binary
// production/non-production split used for cost breakdowns.
func EnvironmentTagOf(env api.Environment) api.EnvironmentTag {
	if env == api.EnvironmentProduction {
		return api.EnvironmentTagProduction
	}
	return api.EnvironmentTagNonProduction
}

// ClassifyEnvironmentTag combines both steps for callers that only need the
// binary tag.
func ClassifyEnvironmentTag(vmName string) api.EnvironmentTag {
	return EnvironmentTagOf(ClassifyEnvironment(vmName))
}

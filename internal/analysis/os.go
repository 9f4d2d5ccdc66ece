package analysis

import (
	"strings"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
)

// osRules map descriptor substrings to OS categories. Order matters: Windows,
// RHEL, SUSE and Ubuntu take priority over the generic linux bucket because
// pricing differs by distribution.
var osRules = []struct {
	substrings []string
	category   api.OsCategory
}{
	{[]string{"windows"}, api.OsWindows},
	{[]string{"red hat", "rhel"}, api.OsRhel},
	{[]string{"suse"}, api.OsSuse},
	{[]string{"ubuntu"}, api.OsUbuntuPro},
	{[]string{"linux", "centos", "debian", "fedora", "amazon linux", "oracle linux"}, api.OsLinux},
	{[]string{"freebsd", "bsd"}, api.OsLinux},
	{[]string{"solaris"}, api.OsLinux},
}

// ClassifyOsDescriptor maps a free-text operating system description to the
// canonical category used for pricing lookups. It is total: every input,
// including the empty string, yields one of the five categories.
func ClassifyOsDescriptor(descriptor string) api.OsCategory {
	d := strings.ToLower(strings.TrimSpace(descriptor))
	if d == "" {
		return api.OsLinux
	}

	for _, rule := range osRules {
		for _, sub := range rule.substrings {
			if strings.Contains(d, sub) {
				return rule.category
			}
		}
	}

	return api.OsLinux
}

// ClassifyVmOs reads the first non-empty OS descriptor of the record, the
// configuration-file column first, and classifies it.
func ClassifyVmOs(vm api.VM) api.OsCategory {
	for _, descriptor := range []string{vm.OsConfig, vm.OsTools} {
		if strings.TrimSpace(descriptor) != "" {
			return ClassifyOsDescriptor(descriptor)
		}
	}
	return api.OsLinux
}

// Package prefs resolves caller-supplied location and role preferences into
// the canonical inputs the scraping collaborator expects, falling back to the
// system defaults when preferences are empty.
package prefs

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

// DefaultLocations is the system default location set used when the caller
// supplies no locations (or none of them resolve to anything usable).
var DefaultLocations = []string{
	"Adelaide, Australia",
	"Sydney, Australia",
	"Melbourne, Australia",
}

// DefaultRoles is the system default role search set.
var DefaultRoles = []string{
	"software engineer",
	"backend developer",
	"data engineer",
	"devops engineer",
}

// Resolver maps location shorthand to the full forms the scraper expects.
type Resolver struct {
	canonical map[string]string
}

// NewResolver builds a Resolver from the embedded canonical location table.
func NewResolver() *Resolver {
	r := &Resolver{canonical: map[string]string{}}
	// The embedded table is validated by tests; a parse failure here would be
	// a build defect, so fall back to an empty table rather than erroring.
	_ = yaml.Unmarshal(locationsYAML, &r.canonical)
	return r
}

// NewResolverWithTable builds a Resolver from an explicit canonical table,
// overriding the embedded one. Keys are lowercased.
func NewResolverWithTable(table map[string]string) *Resolver {
	canonical := make(map[string]string, len(table))
	for k, v := range table {
		canonical[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Resolver{canonical: canonical}
}

// ResolveLocations maps each supplied location through the canonical table.
// Empty input returns the system default set unchanged. Unknown entries pass
// through trimmed: callers may supply custom locations like "Hobart, Australia".
// If every entry resolves to an empty string the defaults are returned.
func (r *Resolver) ResolveLocations(locations []string) []string {
	if len(locations) == 0 {
		return DefaultLocations
	}

	resolved := make([]string, 0, len(locations))
	for _, loc := range locations {
		trimmed := strings.TrimSpace(loc)
		if mapped, ok := r.canonical[strings.ToLower(trimmed)]; ok && mapped != "" {
			resolved = append(resolved, mapped)
			continue
		}
		if trimmed != "" {
			resolved = append(resolved, trimmed)
		}
	}

	if len(resolved) == 0 {
		return DefaultLocations
	}
	return resolved
}

// ResolveRoles returns the supplied roles verbatim, or the system default
// role set when none are supplied.
func (r *Resolver) ResolveRoles(roles []string) []string {
	if len(roles) == 0 {
		return DefaultRoles
	}
	return roles
}

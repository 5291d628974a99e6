// Package registry selects the package registry and credential for a
// dependency.
//
// A dependency whose name starts with a scope ("@acme/widgets") is looked up
// against the scope-specific registries of the configuration; everything
// else, and scopes without their own registry, use the default registry.
package registry

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/depreport/pkg/config"
)

// Registry is a registry endpoint and its optional credential.
type Registry struct {
	URL       string
	AuthToken string
}

// Registries holds the default registry and the scope-keyed registries.
type Registries struct {
	Default Registry
	Scoped  map[string]Registry
}

// FromConfig derives the registries from a configuration. A scoped
// registry picks up the "<url>:_auth" token configured for its URL.
func FromConfig(cfg *config.Config) Registries {
	r := Registries{
		Default: Registry{URL: cfg.Registry, AuthToken: cfg.Auth},
		Scoped:  make(map[string]Registry, len(cfg.Scopes)),
	}
	for scope, u := range cfg.Scopes {
		r.Scoped[scope] = Registry{URL: u, AuthToken: cfg.AuthFor(u)}
	}
	return r
}

// Scope returns the "@scope" prefix of a dependency name, or "" for
// unscoped names.
func Scope(name string) string {
	if !strings.HasPrefix(name, "@") {
		return ""
	}
	scope, _, _ := strings.Cut(name, "/")
	return scope
}

// Resolve returns the registry for a dependency. A non-empty overrideToken
// replaces the token of the default registry; scope-specific registries
// always keep their own credential.
func (r Registries) Resolve(name, overrideToken string) Registry {
	if scope := Scope(name); scope != "" {
		if reg, ok := r.Scoped[scope]; ok {
			return reg
		}
	}
	reg := r.Default
	if overrideToken != "" {
		reg.AuthToken = overrideToken
	}
	return reg
}

// URLs lists every distinct registry URL, default first.
func (r Registries) URLs() []string {
	seen := map[string]bool{r.Default.URL: true}
	urls := []string{r.Default.URL}
	for _, scope := range slices.Sorted(maps.Keys(r.Scoped)) {
		u := r.Scoped[scope].URL
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

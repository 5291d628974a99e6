// Package integrations provides the HTTP plumbing for package registry APIs.
//
// # Overview
//
// Registry-specific clients live in subpackages:
//
//   - [npm]: npm-compatible registries (registry.npmjs.org, Verdaccio,
//     GitHub Packages, Artifactory, ...)
//   - [yarn]: the yarn CLI, used for configuration and provenance
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by registry
// clients:
//   - JSON GET requests with per-client and per-request headers
//   - Proxy selection through a [ProxyFunc]
//   - Response caching via [cache.Cache], keyed per registry and credential
//   - Observability hooks and OpenTelemetry client spans for every request
//
// Requests are never retried. A 404 maps to [ErrNotFound]; every other
// failure maps to [ErrNetwork]. Callers treat both as "no data" for the
// dependency rather than as a fatal error.
//
// [npm]: github.com/matzehuels/depreport/pkg/integrations/npm
// [yarn]: github.com/matzehuels/depreport/pkg/integrations/yarn
// [cache.Cache]: github.com/matzehuels/depreport/pkg/cache.Cache
package integrations

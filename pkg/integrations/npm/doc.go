// Package npm provides an HTTP client for npm-compatible registries.
//
// # Overview
//
// This package fetches packuments (the full registry document of a package)
// from the registry chosen for a dependency: registry.npmjs.org, a scoped
// private registry, or any mirror speaking the same protocol.
//
// # Usage
//
//	client := npm.NewClient(fileCache, 24*time.Hour, resolver.Func())
//
//	reg := registries.Resolve("@acme/widgets", "")
//	pkt, err := client.FetchPackument(ctx, "@acme/widgets", reg, false)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // the registry has no such package
//	}
//
// # Names
//
// Package names are encoded with [EncodeName]. Scoped names keep their
// leading "@" and have the slash encoded, which is what every npm-compatible
// registry expects: "@acme/widgets" is requested as "@acme%2Fwidgets".
//
// # Caching
//
// Packuments are cached per registry URL, name and credential, so a public
// and a private view of the same name never mix. Pass refresh=true to bypass
// the cache.
package npm

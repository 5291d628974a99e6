// Package config builds the registry configuration used for a report run
// and the run settings of the depreport CLI.
//
// # Registry configuration
//
// Package managers expose their configuration as a flat key/value mapping.
// [Config] is the validated form of that mapping: a fixed record for the
// well-known keys (registry, _auth, http-proxy, https-proxy, proxy) plus two
// explicit maps for the dynamically named keys:
//
//   - "<scope>:registry" entries, e.g. "@acme:registry", become [Config.Scopes]
//   - "<registry url>:_auth" entries become [Config.RegistryAuth]
//
// Mappings are merged from lower to higher priority with [Merge] and
// validated once by [FromValues]. A malformed value is an INVALID_CONFIG
// error and aborts the run before any registry request is made.
//
// Three loaders are provided: [YarnLoader] asks the yarn CLI, [YarnRCLoader]
// reads a Yarn Berry .yarnrc.yml file, and [StaticLoader] wraps a fixed map.
//
// # Run settings
//
// [Settings] holds the CLI options, read from .depreport.toml, DEPREPORT_*
// environment variables and command line flags. See [LoadSettings].
package config

import (
	"context"
	"maps"
	"strings"

	"github.com/matzehuels/depreport/pkg/errors"
)

// DefaultRegistry is the registry used when no configuration names one.
const DefaultRegistry = "https://registry.npmjs.org/"

// Well-known configuration keys.
const (
	KeyRegistry   = "registry"
	KeyAuth       = "_auth"
	KeyHTTPProxy  = "http-proxy"
	KeyHTTPSProxy = "https-proxy"
	KeyProxy      = "proxy"

	scopeRegistrySuffix = ":registry"
	registryAuthSuffix  = ":_auth"
)

// Config is an immutable, validated registry configuration.
type Config struct {
	Registry   string
	Auth       string
	HTTPProxy  string
	HTTPSProxy string
	Proxy      string

	// Scopes maps "@scope" to the registry URL configured for it.
	Scopes map[string]string

	// RegistryAuth maps a registry URL to its auth token.
	RegistryAuth map[string]string
}

// Loader produces the registry configuration for a run.
type Loader interface {
	Load(ctx context.Context) (*Config, error)
}

// Defaults returns the lowest-priority configuration layer.
func Defaults() map[string]any {
	return map[string]any{KeyRegistry: DefaultRegistry}
}

// Merge layers mappings from lowest to highest priority. Later layers win.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// FromValues validates a flat configuration mapping.
func FromValues(values map[string]any) (*Config, error) {
	cfg := &Config{
		Scopes:       make(map[string]string),
		RegistryAuth: make(map[string]string),
	}

	fields := []struct {
		key string
		dst *string
	}{
		{KeyRegistry, &cfg.Registry},
		{KeyAuth, &cfg.Auth},
		{KeyHTTPProxy, &cfg.HTTPProxy},
		{KeyHTTPSProxy, &cfg.HTTPSProxy},
		{KeyProxy, &cfg.Proxy},
	}
	for _, f := range fields {
		s, err := stringValue(values, f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}

	if cfg.Registry == "" {
		cfg.Registry = DefaultRegistry
	}
	if err := errors.ValidateURL(cfg.Registry); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", KeyRegistry)
	}

	for key := range values {
		switch {
		case strings.HasSuffix(key, scopeRegistrySuffix):
			scope := strings.TrimSuffix(key, scopeRegistrySuffix)
			u, err := stringValue(values, key)
			if err != nil {
				return nil, err
			}
			if !strings.HasPrefix(scope, "@") || len(scope) < 2 {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "scoped registry key %q must start with a scope like @name", key)
			}
			if err := errors.ValidateURL(u); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", key)
			}
			cfg.Scopes[scope] = u
		case strings.HasSuffix(key, registryAuthSuffix):
			tok, err := stringValue(values, key)
			if err != nil {
				return nil, err
			}
			cfg.RegistryAuth[strings.TrimSuffix(key, registryAuthSuffix)] = tok
		}
	}

	return cfg, nil
}

// stringValue reads key as a string. Absent and null values are empty.
func stringValue(values map[string]any, key string) (string, error) {
	v, ok := values[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidConfig, "%s must be a string, got %T", key, v)
	}
	return s, nil
}

// AuthFor returns the token configured for a registry URL, if any.
func (c *Config) AuthFor(registryURL string) string {
	if c == nil {
		return ""
	}
	return c.RegistryAuth[registryURL]
}

// StaticLoader serves a fixed mapping layered on top of [Defaults].
type StaticLoader struct {
	Values map[string]any
}

// Load validates the static mapping.
func (l StaticLoader) Load(context.Context) (*Config, error) {
	return FromValues(Merge(Defaults(), l.Values))
}

// Package proxy decides whether, and through which proxy, a registry request
// should travel.
//
// The decision follows the conventions of curl, npm and yarn: the NO_PROXY
// exclusion list is consulted first, then the scheme-specific proxy
// environment variables, then the package manager configuration.
//
// # Exclusion zones
//
// NO_PROXY is a comma-separated list of zones such as
// "localhost,.internal.example.com,registry.local:8443". A zone matches a
// URL when its canonical hostname is a suffix of the URL's canonical
// hostname and, if the zone names a port, that port equals the URL's
// effective port. Hostnames are canonicalized to a single leading dot so
// that "google.com" excludes "www.google.com" but not "oogle.com". The
// wildcard "*" disables proxying entirely.
//
// # Usage
//
//	r := proxy.NewResolver(cfg)
//	transport := &http.Transport{Proxy: r.Func()}
package proxy

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/matzehuels/depreport/pkg/config"
)

// Zone is one parsed entry of a NO_PROXY list.
type Zone struct {
	Hostname string // canonical form, always starts with a single dot
	Port     string
	HasPort  bool
}

// ParseZone parses a single NO_PROXY entry.
func ParseZone(zone string) Zone {
	zone = strings.ToLower(strings.TrimSpace(zone))
	host, port, hasPort := strings.Cut(zone, ":")
	return Zone{
		Hostname: canonicalHost(host),
		Port:     port,
		HasPort:  hasPort,
	}
}

// ParseZones parses a comma-separated NO_PROXY list. Empty entries are skipped.
func ParseZones(list string) []Zone {
	var zones []Zone
	for _, z := range strings.Split(list, ",") {
		if strings.TrimSpace(z) == "" {
			continue
		}
		zones = append(zones, ParseZone(z))
	}
	return zones
}

// Matches reports whether u falls inside the zone.
func (z Zone) Matches(u *url.URL) bool {
	if !strings.HasSuffix(canonicalHost(u.Hostname()), z.Hostname) {
		return false
	}
	if z.HasPort {
		return z.Port == effectivePort(u)
	}
	return true
}

// canonicalHost coerces any run of leading dots to exactly one and lowercases,
// so suffix matching only succeeds on label boundaries.
func canonicalHost(host string) string {
	return "." + strings.ToLower(strings.TrimLeft(host, "."))
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if strings.EqualFold(u.Scheme, "https") {
		return "443"
	}
	return "80"
}

// Resolver selects the proxy for registry requests.
type Resolver struct {
	// Config supplies the http-proxy, https-proxy and proxy fallbacks.
	Config *config.Config

	// Getenv reads process environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewResolver creates a Resolver backed by the process environment.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{Config: cfg, Getenv: os.Getenv}
}

// ForURL returns the proxy URL to use for u, or "" when the request should
// go direct.
func (r *Resolver) ForURL(u *url.URL) string {
	noProxy := r.env("NO_PROXY", "no_proxy")
	if noProxy == "*" {
		return ""
	}
	if noProxy != "" && r.excluded(u, noProxy) {
		return ""
	}

	switch strings.ToLower(u.Scheme) {
	case "http":
		return r.httpProxy()
	case "https":
		return firstNonEmpty(r.env("HTTPS_PROXY", "https_proxy"), r.cfg().HTTPSProxy, r.httpProxy())
	}
	return ""
}

// Func adapts the resolver for use as http.Transport.Proxy.
// A proxy value without a scheme is treated as http.
func (r *Resolver) Func() func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		p := r.ForURL(req.URL)
		if p == "" {
			return nil, nil
		}
		if !strings.Contains(p, "://") {
			p = "http://" + p
		}
		return url.Parse(p)
	}
}

func (r *Resolver) excluded(u *url.URL, noProxy string) bool {
	for _, z := range ParseZones(noProxy) {
		if z.Matches(u) {
			return true
		}
	}
	return false
}

func (r *Resolver) httpProxy() string {
	cfg := r.cfg()
	return firstNonEmpty(r.env("HTTP_PROXY", "http_proxy"), cfg.HTTPProxy, cfg.Proxy)
}

func (r *Resolver) env(keys ...string) string {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, k := range keys {
		if v := getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (r *Resolver) cfg() *config.Config {
	if r.Config == nil {
		return &config.Config{}
	}
	return r.Config
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

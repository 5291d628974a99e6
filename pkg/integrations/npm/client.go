package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/depreport/pkg/buildinfo"
	"github.com/matzehuels/depreport/pkg/cache"
	"github.com/matzehuels/depreport/pkg/integrations"
	"github.com/matzehuels/depreport/pkg/registry"
)

// Client fetches packuments from npm-compatible registries.
type Client struct {
	*integrations.Client
}

// NewClient creates a client that caches packuments in c for ttl and sends
// requests through proxy. Pass a nil cache or zero ttl to disable caching
// and a nil proxy to always connect directly.
func NewClient(c cache.Cache, ttl time.Duration, proxy integrations.ProxyFunc) *Client {
	client := integrations.NewClient(c, "", ttl, map[string]string{
		"Accept":     "application/json",
		"User-Agent": buildinfo.UserAgent(),
	})
	client.SetProxy(proxy)
	return &Client{Client: client}
}

// FetchPackument retrieves the registry document of a package. A bearer
// token is attached only when reg carries one. Cached documents are keyed
// by registry, name and credential; pass refresh=true to bypass the cache.
func (c *Client) FetchPackument(ctx context.Context, name string, reg registry.Registry, refresh bool) (*Packument, error) {
	key := cache.PackumentKey(reg.URL, name, reg.AuthToken)

	var pkt Packument
	err := c.Cached(ctx, key, refresh, &pkt, func() error {
		return c.fetch(ctx, name, reg, &pkt)
	})
	if err != nil {
		return nil, err
	}
	return &pkt, nil
}

func (c *Client) fetch(ctx context.Context, name string, reg registry.Registry, pkt *Packument) error {
	var headers map[string]string
	if reg.AuthToken != "" {
		headers = map[string]string{"Authorization": "Bearer " + reg.AuthToken}
	}
	if err := c.GetWithHeaders(ctx, PackumentURL(reg.URL, name), headers, pkt); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, name)
		}
		return err
	}
	return nil
}

// PackumentURL joins a registry URL and an encoded package name.
func PackumentURL(registryURL, name string) string {
	return strings.TrimSuffix(registryURL, "/") + "/" + EncodeName(name)
}

// EncodeName percent-encodes a package name like encodeURIComponent, except
// that a leading "@" stays literal: registries reject "%40scope%2Fname" but
// accept "@scope%2Fname".
func EncodeName(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case i == 0 && ch == '@', unreserved(ch):
			b.WriteByte(ch)
		default:
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}

func unreserved(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", ch) >= 0
}

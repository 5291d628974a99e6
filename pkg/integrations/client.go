package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/depreport/pkg/cache"
	"github.com/matzehuels/depreport/pkg/observability"
)

const tracerName = "github.com/matzehuels/depreport/pkg/integrations"

// Client provides shared HTTP functionality for registry API clients.
// It handles response caching, proxy selection and common request headers.
// Requests are never retried.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
	tracer    trace.Tracer
}

// NewClient creates a Client with the given cache and default headers.
// Cache keys are prefixed with namespace; entries live for ttl, and a ttl
// of zero disables caching. Headers are applied to all requests made
// through this client. Pass nil for headers if no default headers are needed.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NullCache{}
	}
	return &Client{
		http:      NewHTTPClient(nil),
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		tracer:    otel.Tracer(tracerName),
	}
}

// SetProxy routes all requests through the proxy chosen by fn, typically
// [proxy.Resolver.Func].
//
// [proxy.Resolver.Func]: github.com/matzehuels/depreport/pkg/proxy.Resolver.Func
func (c *Client) SetProxy(fn ProxyFunc) {
	c.http = NewHTTPClient(fn)
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.namespace + key
	keyType := cacheKeyType(key)
	hooks := observability.Cache()

	if !refresh && c.ttl > 0 {
		if data, ok, _ := c.cache.Get(ctx, key); ok && json.Unmarshal(data, v) == nil {
			hooks.OnCacheHit(ctx, keyType)
			return nil
		}
		hooks.OnCacheMiss(ctx, keyType)
	}
	if err := fetch(); err != nil {
		return err
	}
	if c.ttl <= 0 {
		return nil
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, keyType, len(data))
		}
	}
	return nil
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.EscapedPath()
	ctx, span := c.tracer.Start(ctx, "registry.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("server.address", host),
			attribute.String("url.path", path),
		),
	)
	defer span.End()
	req = req.WithContext(ctx)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// cacheKeyType is the key prefix up to the first colon ("packument" for
// "packument:https://..."), used to label cache events.
func cacheKeyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "http"
}

// ProxyFunc selects the proxy for a request, as http.Transport.Proxy does.
type ProxyFunc func(*http.Request) (*url.URL, error)

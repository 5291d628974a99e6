package npm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depreport/internal/npmtest"
	"github.com/matzehuels/depreport/pkg/cache"
	"github.com/matzehuels/depreport/pkg/integrations"
	"github.com/matzehuels/depreport/pkg/registry"
)

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"react", "react"},
		{"lodash.merge", "lodash.merge"},
		{"@types/node", "@types%2Fnode"},
		{"@acme/widgets", "@acme%2Fwidgets"},
		{"weird name", "weird%20name"},
		{"a@b", "a%40b"},
		{"@scope/a@b", "@scope%2Fa%40b"},
		{"!~*'()", "!~*'()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeName(tt.name))
		})
	}
}

func TestPackumentURL(t *testing.T) {
	assert.Equal(t, "https://registry.npmjs.org/@types%2Fnode",
		PackumentURL("https://registry.npmjs.org/", "@types/node"))
	assert.Equal(t, "https://npm.acme.dev/react",
		PackumentURL("https://npm.acme.dev", "react"))
}

func TestFetchPackument(t *testing.T) {
	reg := npmtest.New(t, map[string]any{
		"left-pad": npmtest.Packument("left-pad", "1.3.0", map[string]string{"tiny": "^1.0.0"}),
	})
	client := NewClient(nil, 0, nil)

	pkt, err := client.FetchPackument(context.Background(), "left-pad", registry.Registry{URL: reg.BaseURL()}, false)
	require.NoError(t, err)

	assert.Equal(t, "left-pad", pkt.Name)
	tag, v, ok := pkt.Latest()
	require.True(t, ok)
	assert.Equal(t, "1.3.0", tag)
	assert.Equal(t, map[string]string{"tiny": "^1.0.0"}, v.DependencyMap())
	assert.Empty(t, reg.Authorization("left-pad"), "no token, no Authorization header")
}

func TestFetchPackumentScoped(t *testing.T) {
	reg := npmtest.New(t, map[string]any{
		"@acme/widgets": npmtest.Packument("@acme/widgets", "2.0.0", nil),
	})
	reg.Token = "s3cret"
	client := NewClient(nil, 0, nil)

	pkt, err := client.FetchPackument(context.Background(), "@acme/widgets",
		registry.Registry{URL: reg.BaseURL(), AuthToken: "s3cret"}, false)
	require.NoError(t, err)

	assert.Equal(t, "@acme/widgets", pkt.Name)
	assert.Equal(t, "Bearer s3cret", reg.Authorization("@acme/widgets"))
	assert.Equal(t, []string{"/@acme%2Fwidgets"}, reg.Paths())
}

func TestFetchPackumentNotFound(t *testing.T) {
	reg := npmtest.New(t, nil)
	client := NewClient(nil, 0, nil)

	_, err := client.FetchPackument(context.Background(), "nope", registry.Registry{URL: reg.BaseURL()}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, integrations.ErrNotFound))
	assert.Contains(t, err.Error(), "npm package nope")
}

func TestFetchPackumentUnauthorized(t *testing.T) {
	reg := npmtest.New(t, map[string]any{"private": npmtest.Packument("private", "1.0.0", nil)})
	reg.Token = "right"
	client := NewClient(nil, 0, nil)

	_, err := client.FetchPackument(context.Background(), "private",
		registry.Registry{URL: reg.BaseURL(), AuthToken: "wrong"}, false)
	assert.True(t, errors.Is(err, integrations.ErrNetwork))
	assert.Equal(t, 1, reg.Requests("private"))
}

func TestFetchPackumentCached(t *testing.T) {
	reg := npmtest.New(t, map[string]any{"react": npmtest.Packument("react", "18.3.1", nil)})
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	client := NewClient(fc, time.Hour, nil)
	ctx := context.Background()
	r := registry.Registry{URL: reg.BaseURL()}

	for range 3 {
		pkt, err := client.FetchPackument(ctx, "react", r, false)
		require.NoError(t, err)
		assert.Equal(t, "react", pkt.Name)
	}
	assert.Equal(t, 1, reg.Requests("react"))

	_, err = client.FetchPackument(ctx, "react", r, true)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Requests("react"), "refresh bypasses the cache")

	// A different credential is a different cache entry.
	_, err = client.FetchPackument(ctx, "react", registry.Registry{URL: r.URL, AuthToken: "t"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Requests("react"))
}

package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depreport/internal/npmtest"
	"github.com/matzehuels/depreport/pkg/errors"
	"github.com/matzehuels/depreport/pkg/integrations/npm"
	"github.com/matzehuels/depreport/pkg/registry"
	"github.com/matzehuels/depreport/pkg/table"
)

func TestFetcherResolvesRegistries(t *testing.T) {
	public := npmtest.New(t, map[string]any{
		"react":     npmtest.Packument("react", "18.3.1", nil),
		"@other/ui": npmtest.Packument("@other/ui", "1.0.0", nil),
	})
	private := npmtest.New(t, map[string]any{
		"@acme/widgets": npmtest.Packument("@acme/widgets", "2.0.0", nil),
	})
	private.Token = "scoped-token"

	regs := registry.Registries{
		Default: registry.Registry{URL: public.BaseURL(), AuthToken: "config-token"},
		Scoped: map[string]registry.Registry{
			"@acme": {URL: private.BaseURL(), AuthToken: "scoped-token"},
		},
	}
	f := NewFetcher(npm.NewClient(nil, 0, nil), Options{
		Registries:   regs,
		NPMAuthToken: "override",
		Now:          func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
	ctx := context.Background()

	_, err := f.Fetch(ctx, "react")
	require.NoError(t, err)
	assert.Equal(t, "Bearer override", public.Authorization("react"))

	_, err = f.Fetch(ctx, "@other/ui")
	require.NoError(t, err)
	assert.Equal(t, "Bearer override", public.Authorization("@other/ui"), "unknown scopes use the default registry")

	m, err := f.Fetch(ctx, "@acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, "Bearer scoped-token", private.Authorization("@acme/widgets"), "scoped registries keep their own token")
	assert.Equal(t, 0, public.Requests("@acme/widgets"))
	assert.Equal(t, table.Placeholder{Key: table.UsedInPackages}, m.Deets[1])
}

func TestFetcherErrors(t *testing.T) {
	reg := npmtest.New(t, nil)
	f := NewFetcher(npm.NewClient(nil, 0, nil), Options{
		Registries: registry.Registries{Default: registry.Registry{URL: reg.BaseURL()}},
	})
	ctx := context.Background()

	_, err := f.Fetch(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrCodePackageNotFound), "got %v", err)
	assert.False(t, errors.IsFatal(err))

	_, err = f.Fetch(ctx, "../etc/passwd")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPackage), "got %v", err)
	assert.Equal(t, 0, reg.Requests("../etc/passwd"))

	reg.Close()
	_, err = f.Fetch(ctx, "offline")
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork), "got %v", err)
}

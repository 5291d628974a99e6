package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depreport/pkg/config"
)

func testRegistries(t *testing.T) Registries {
	t.Helper()
	cfg, err := config.FromValues(map[string]any{
		"registry":                         "https://registry.npmjs.org/",
		"_auth":                            "default-token",
		"@acme:registry":                   "https://npm.acme.dev/",
		"https://npm.acme.dev/:_auth":      "acme-token",
		"@open:registry":                   "https://npm.open.dev/",
		"@mirror:registry":                 "https://npm.acme.dev/",
		"https://unrelated.example/:_auth": "x",
	})
	require.NoError(t, err)
	return FromConfig(cfg)
}

func TestScope(t *testing.T) {
	assert.Equal(t, "@acme", Scope("@acme/widgets"))
	assert.Equal(t, "@acme", Scope("@acme"))
	assert.Equal(t, "", Scope("react"))
	assert.Equal(t, "", Scope("acme/@x"))
}

func TestResolve(t *testing.T) {
	regs := testRegistries(t)

	tests := []struct {
		name     string
		dep      string
		override string
		want     Registry
	}{
		{"unscoped", "react", "", Registry{URL: "https://registry.npmjs.org/", AuthToken: "default-token"}},
		{"unscoped with override", "react", "ci-token", Registry{URL: "https://registry.npmjs.org/", AuthToken: "ci-token"}},
		{"scoped with auth", "@acme/widgets", "", Registry{URL: "https://npm.acme.dev/", AuthToken: "acme-token"}},
		{"scoped keeps own token under override", "@acme/widgets", "ci-token", Registry{URL: "https://npm.acme.dev/", AuthToken: "acme-token"}},
		{"scoped without auth", "@open/lib", "ci-token", Registry{URL: "https://npm.open.dev/"}},
		{"unknown scope uses default", "@types/node", "ci-token", Registry{URL: "https://registry.npmjs.org/", AuthToken: "ci-token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, regs.Resolve(tt.dep, tt.override))
		})
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t,
		[]string{"https://registry.npmjs.org/", "https://npm.acme.dev/", "https://npm.open.dev/"},
		testRegistries(t).URLs())
}

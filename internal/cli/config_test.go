package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depreport/pkg/config"
)

func TestPrintConfig(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("https_proxy", "")
	t.Setenv("HTTP_PROXY", "")
	t.Setenv("http_proxy", "")
	t.Setenv("NO_PROXY", "npm.acme.dev")
	t.Setenv("no_proxy", "")

	cfg, err := config.FromValues(config.Merge(config.Defaults(), map[string]any{
		"https-proxy":                 "http://proxy.corp:3128",
		"@acme:registry":              "https://npm.acme.dev/",
		"https://npm.acme.dev/:_auth": "acme-token",
		"@zeta:registry":              "https://npm.zeta.dev/",
	}))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printConfig(&buf, cfg, "")
	out := buf.String()

	for _, want := range []string{
		"Registries",
		config.DefaultRegistry,
		"@acme",
		"https://npm.acme.dev/",
		"auth:  token",
		"proxy: direct",
		"proxy: http://proxy.corp:3128",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "@acme") > strings.Index(out, "@zeta") {
		t.Error("scopes should be listed in name order")
	}
}

func TestPrintConfigOverrideToken(t *testing.T) {
	cfg, err := config.FromValues(config.Defaults())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printConfig(&buf, cfg, "ci-token")
	if !strings.Contains(buf.String(), "auth:  token") {
		t.Errorf("override token should apply to the default registry:\n%s", buf.String())
	}
}

func TestConfigCommandYarnRC(t *testing.T) {
	dir := t.TempDir()
	rc := "npmRegistryServer: \"https://npm.corp.dev\"\nnpmScopes:\n  acme:\n    npmRegistryServer: \"https://npm.acme.dev\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".yarnrc.yml"), []byte(rc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "config", "--dir", dir, "--yarnrc", ".yarnrc.yml", "--config", "")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "https://npm.corp.dev") || !strings.Contains(out, "@acme") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

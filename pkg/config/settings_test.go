package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depreport/pkg/errors"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	s, err := LoadSettings(SettingsFile, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettingsLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "depreport.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
manifests = ["package.json", "web/package.json"]
base = "origin/develop"
lockfile = "package-lock.json"
concurrency = 2
cache_ttl = "1h"
`), 0o644))

	t.Setenv("DEPREPORT_BASE", "origin/release")
	t.Setenv("DEPREPORT_NPM_AUTH_TOKEN", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("concurrency", 8, "")
	flags.String("format", FormatMarkdown, "")
	require.NoError(t, flags.Parse([]string{"--format", "terminal"}))

	s, err := LoadSettings(path, flags)
	require.NoError(t, err)

	assert.Equal(t, []string{"package.json", "web/package.json"}, s.Manifests, "file")
	assert.Equal(t, "package-lock.json", s.Lockfile, "file")
	assert.Equal(t, time.Hour, s.CacheTTL, "file")
	assert.Equal(t, "origin/release", s.Base, "env over file")
	assert.Equal(t, "from-env", s.NPMAuthToken, "env")
	assert.Equal(t, 2, s.Concurrency, "unchanged flag keeps the file value")
	assert.Equal(t, FormatTerminal, s.Format, "changed flag wins")
	assert.True(t, s.Provenance, "default")
}

func TestLoadSettingsExampleFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join("..", "..", "examples", "config", SettingsFile), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json", "web/package.json"}, s.Manifests)
	assert.Equal(t, 24*time.Hour, s.CacheTTL)
	assert.Equal(t, ".yarnrc.yml", s.YarnRC)
	assert.Equal(t, "depreport", s.MongoDatabase, "default")
}

func TestYarnRCLoaderExampleFile(t *testing.T) {
	t.Setenv("ACME_NPM_TOKEN", "acme")
	cfg, err := YarnRCLoader{Path: filepath.Join("..", "..", "examples", "config", ".yarnrc.yml")}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://npm.acme.example", cfg.Scopes["@acme"])
	assert.Equal(t, "acme", cfg.AuthFor("https://npm.acme.example"))
	assert.Equal(t, "http://proxy.corp.example:3128", cfg.HTTPSProxy)
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		code   errors.Code
	}{
		{"no manifests", func(s *Settings) { s.Manifests = nil }, errors.ErrCodeInvalidInput},
		{"absolute manifest", func(s *Settings) { s.Manifests = []string{"/etc/package.json"} }, errors.ErrCodeInvalidPath},
		{"bad format", func(s *Settings) { s.Format = "pdf" }, errors.ErrCodeInvalidInput},
		{"zero concurrency", func(s *Settings) { s.Concurrency = 0 }, errors.ErrCodeInvalidInput},
		{"negative ttl", func(s *Settings) { s.CacheTTL = -time.Second }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.True(t, errors.Is(s.Validate(), tt.code))
		})
	}
	assert.NoError(t, DefaultSettings().Validate())
}

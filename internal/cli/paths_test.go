package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/depreport/pkg/config"
	"github.com/matzehuels/depreport/pkg/integrations/yarn"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigLoaderSelection(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	dir := t.TempDir()

	l := c.configLoader(dir, &config.Settings{YarnRC: ".yarnrc.yml"}, nil)
	rc, ok := l.(config.YarnRCLoader)
	if !ok {
		t.Fatalf("loader = %T, want YarnRCLoader", l)
	}
	if rc.Path != filepath.Join(dir, ".yarnrc.yml") {
		t.Errorf("yarnrc path = %q, want it under the repository", rc.Path)
	}

	abs := filepath.Join(t.TempDir(), "shared.yml")
	if rc := c.configLoader(dir, &config.Settings{YarnRC: abs}, nil).(config.YarnRCLoader); rc.Path != abs {
		t.Errorf("absolute yarnrc path = %q, want %q", rc.Path, abs)
	}

	if _, ok := c.configLoader(dir, &config.Settings{}, yarn.NewClient(dir)).(config.YarnLoader); !ok {
		t.Error("without a yarnrc the yarn CLI should be used")
	}
}

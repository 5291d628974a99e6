package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depreport/pkg/errors"
)

// ConfigLister returns the raw output of `yarn config list --json`.
type ConfigLister interface {
	ConfigList(ctx context.Context) ([]byte, error)
}

// YarnLoader reads configuration from the yarn CLI.
//
// If yarn cannot be run the loader logs a warning and falls back to
// [Defaults]; a line that yarn did print but that cannot be parsed is an
// INVALID_CONFIG error.
type YarnLoader struct {
	Lister ConfigLister
	Logger *log.Logger
}

// Load runs the lister and merges its output over the defaults.
func (l YarnLoader) Load(ctx context.Context) (*Config, error) {
	out, err := l.Lister.ConfigList(ctx)
	if err != nil {
		l.logger().Warn("yarn config unavailable, using defaults", "err", err)
		return FromValues(Defaults())
	}
	values, err := ParseYarnConfigList(out)
	if err != nil {
		return nil, err
	}
	return FromValues(Merge(Defaults(), values))
}

func (l YarnLoader) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}

type yarnConfigMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseYarnConfigList parses the JSON-lines output of
// `yarn config list --json`. Yarn prints its own settings before npm's; the
// earlier "inspect" blocks take priority over later ones.
func ParseYarnConfigList(out []byte) (map[string]any, error) {
	var layers []map[string]any
	for i, line := range bytes.Split(out, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var msg yarnConfigMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "yarn config line %d", i+1)
		}
		if msg.Type != "inspect" {
			continue
		}
		var data map[string]any
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "yarn config line %d: inspect data", i+1)
		}
		layers = append(layers, data)
	}
	slices.Reverse(layers)
	return Merge(layers...), nil
}

// YarnRCLoader reads a Yarn Berry .yarnrc.yml file. ${VAR} references in
// values are expanded from the environment, as yarn does.
type YarnRCLoader struct {
	Path string

	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

type yarnRC struct {
	NpmRegistryServer string                    `yaml:"npmRegistryServer"`
	NpmAuthToken      string                    `yaml:"npmAuthToken"`
	HTTPProxy         string                    `yaml:"httpProxy"`
	HTTPSProxy        string                    `yaml:"httpsProxy"`
	NpmScopes         map[string]yarnRCRegistry `yaml:"npmScopes"`
	NpmRegistries     map[string]yarnRCRegistry `yaml:"npmRegistries"`
}

type yarnRCRegistry struct {
	NpmRegistryServer string `yaml:"npmRegistryServer"`
	NpmAuthToken      string `yaml:"npmAuthToken"`
}

// Load parses the file. A missing file yields the defaults.
func (l YarnRCLoader) Load(context.Context) (*Config, error) {
	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(l.Path)
	if os.IsNotExist(err) {
		return FromValues(Defaults())
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", l.Path)
	}
	values, err := ParseYarnRC(data)
	if err != nil {
		return nil, err
	}
	return FromValues(Merge(Defaults(), values))
}

// ParseYarnRC flattens a .yarnrc.yml document into configuration keys.
func ParseYarnRC(data []byte) (map[string]any, error) {
	var rc yarnRC
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse .yarnrc.yml")
	}

	values := make(map[string]any)
	set := func(key, v string) {
		if v = os.ExpandEnv(v); v != "" {
			values[key] = v
		}
	}
	set(KeyRegistry, rc.NpmRegistryServer)
	set(KeyAuth, rc.NpmAuthToken)
	set(KeyHTTPProxy, rc.HTTPProxy)
	set(KeyHTTPSProxy, rc.HTTPSProxy)

	for u, r := range rc.NpmRegistries {
		set(os.ExpandEnv(u)+registryAuthSuffix, r.NpmAuthToken)
	}
	for scope, r := range rc.NpmScopes {
		if scope == "" {
			continue
		}
		if scope[0] != '@' {
			scope = "@" + scope
		}
		server := os.ExpandEnv(r.NpmRegistryServer)
		if server == "" {
			continue
		}
		set(scope+scopeRegistrySuffix, server)
		set(server+registryAuthSuffix, r.NpmAuthToken)
	}
	return values, nil
}

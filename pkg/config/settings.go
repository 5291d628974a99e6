package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/depreport/pkg/errors"
)

// SettingsFile is the settings file looked up in the working directory.
const SettingsFile = ".depreport.toml"

// EnvPrefix prefixes environment overrides, e.g. DEPREPORT_BASE.
const EnvPrefix = "DEPREPORT"

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatTerminal = "terminal"
)

// Settings are the options of a report run.
//
// Keys use snake_case in the TOML file and the environment, and kebab-case
// on the command line (npm-auth-token, cache-ttl, ...).
type Settings struct {
	Manifests       []string      `toml:"manifests"`
	Base            string        `toml:"base"`
	Head            string        `toml:"head"`
	NPMAuthToken    string        `toml:"npm_auth_token"`
	Lockfile        string        `toml:"lockfile"`
	Provenance      bool          `toml:"provenance"`
	Concurrency     int           `toml:"concurrency"`
	Format          string        `toml:"format"`
	Output          string        `toml:"output"`
	CacheTTL        time.Duration `toml:"cache_ttl"`
	RedisURL        string        `toml:"redis_url"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	ArchiveDir      string        `toml:"archive_dir"`
	S3Bucket        string        `toml:"s3_bucket"`
	S3Prefix        string        `toml:"s3_prefix"`
	S3Region        string        `toml:"s3_region"`
	S3Endpoint      string        `toml:"s3_endpoint"`
	MetricsTextfile string        `toml:"metrics_textfile"`
	YarnRC          string        `toml:"yarnrc"`
	FailOnError     bool          `toml:"fail_on_error"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Manifests:     []string{"package.json"},
		Base:          "origin/main",
		Lockfile:      "yarn.lock",
		Provenance:    true,
		Concurrency:   8,
		Format:        FormatMarkdown,
		MongoDatabase: "depreport",
		FailOnError:   true,
	}
}

// LoadSettings resolves settings from, in increasing priority: defaults,
// the TOML file at path, DEPREPORT_* environment variables and changed
// flags. A missing file is not an error when path is [SettingsFile].
func LoadSettings(path string, flags *pflag.FlagSet) (*Settings, error) {
	s := DefaultSettings()
	if path != "" {
		if _, err := toml.DecodeFile(path, s); err != nil {
			if !(os.IsNotExist(err) && path == SettingsFile) {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("manifests", s.Manifests)
	v.SetDefault("base", s.Base)
	v.SetDefault("head", s.Head)
	v.SetDefault("npm-auth-token", s.NPMAuthToken)
	v.SetDefault("lockfile", s.Lockfile)
	v.SetDefault("provenance", s.Provenance)
	v.SetDefault("concurrency", s.Concurrency)
	v.SetDefault("format", s.Format)
	v.SetDefault("output", s.Output)
	v.SetDefault("cache-ttl", s.CacheTTL)
	v.SetDefault("redis-url", s.RedisURL)
	v.SetDefault("mongo-uri", s.MongoURI)
	v.SetDefault("mongo-database", s.MongoDatabase)
	v.SetDefault("archive-dir", s.ArchiveDir)
	v.SetDefault("s3-bucket", s.S3Bucket)
	v.SetDefault("s3-prefix", s.S3Prefix)
	v.SetDefault("s3-region", s.S3Region)
	v.SetDefault("s3-endpoint", s.S3Endpoint)
	v.SetDefault("metrics-textfile", s.MetricsTextfile)
	v.SetDefault("yarnrc", s.YarnRC)
	v.SetDefault("fail-on-error", s.FailOnError)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "bind flags")
		}
	}

	out := &Settings{
		Manifests:       v.GetStringSlice("manifests"),
		Base:            v.GetString("base"),
		Head:            v.GetString("head"),
		NPMAuthToken:    v.GetString("npm-auth-token"),
		Lockfile:        v.GetString("lockfile"),
		Provenance:      v.GetBool("provenance"),
		Concurrency:     v.GetInt("concurrency"),
		Format:          v.GetString("format"),
		Output:          v.GetString("output"),
		CacheTTL:        v.GetDuration("cache-ttl"),
		RedisURL:        v.GetString("redis-url"),
		MongoURI:        v.GetString("mongo-uri"),
		MongoDatabase:   v.GetString("mongo-database"),
		ArchiveDir:      v.GetString("archive-dir"),
		S3Bucket:        v.GetString("s3-bucket"),
		S3Prefix:        v.GetString("s3-prefix"),
		S3Region:        v.GetString("s3-region"),
		S3Endpoint:      v.GetString("s3-endpoint"),
		MetricsTextfile: v.GetString("metrics-textfile"),
		YarnRC:          v.GetString("yarnrc"),
		FailOnError:     v.GetBool("fail-on-error"),
	}
	return out, out.Validate()
}

// Validate checks settings that cannot be defaulted.
func (s *Settings) Validate() error {
	if len(s.Manifests) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one manifest is required")
	}
	for _, m := range s.Manifests {
		if err := errors.ValidatePath(m); err != nil {
			return err
		}
	}
	switch s.Format {
	case FormatMarkdown, FormatTerminal:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: markdown, terminal)", s.Format)
	}
	if s.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be at least 1, got %d", s.Concurrency)
	}
	if s.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache-ttl cannot be negative")
	}
	return nil
}

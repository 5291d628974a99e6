// Package cli implements the depreport command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depreport/pkg/buildinfo"
	"github.com/matzehuels/depreport/pkg/cache"
	"github.com/matzehuels/depreport/pkg/config"
	"github.com/matzehuels/depreport/pkg/integrations/yarn"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "depreport"

	// redisPrefix namespaces cache keys in a shared Redis.
	redisPrefix = "depreport:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "depreport reports on dependencies added to package.json manifests",
		Long: `depreport inspects the package.json changes of a branch, looks up every newly
added dependency once in its npm registry, and writes a report for code review.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newCache returns the packument cache for the settings: none when the TTL
// is zero, Redis when a URL is set, the file cache otherwise.
func (c *CLI) newCache(ctx context.Context, s *config.Settings) cache.Cache {
	if s.CacheTTL <= 0 {
		return cache.NewNullCache()
	}
	if s.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, s.RedisURL, redisPrefix)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// configLoader picks the registry configuration source: the .yarnrc.yml
// file when one is configured, the yarn CLI otherwise.
func (c *CLI) configLoader(dir string, s *config.Settings, yc *yarn.Client) config.Loader {
	if s.YarnRC != "" {
		path := s.YarnRC
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return config.YarnRCLoader{Path: path}
	}
	return config.YarnLoader{Lister: yc, Logger: c.Logger}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depreport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

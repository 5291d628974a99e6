package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/depreport/pkg/config"
	"github.com/matzehuels/depreport/pkg/diff"
	"github.com/matzehuels/depreport/pkg/errors"
	"github.com/matzehuels/depreport/pkg/integrations/npm"
	"github.com/matzehuels/depreport/pkg/integrations/yarn"
	"github.com/matzehuels/depreport/pkg/metadata"
	"github.com/matzehuels/depreport/pkg/observability"
	"github.com/matzehuels/depreport/pkg/pipeline"
	"github.com/matzehuels/depreport/pkg/proxy"
	"github.com/matzehuels/depreport/pkg/registry"
	"github.com/matzehuels/depreport/pkg/report"
	"github.com/matzehuels/depreport/pkg/table"
)

// ErrReportFailed is returned by check when the report contains failures
// and fail_on_error is set.
var ErrReportFailed = stderrors.New("report contains failures")

// checkOptions holds flags that are not part of [config.Settings].
type checkOptions struct {
	settingsPath string
	dir          string
	refresh      bool
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOptions{}
	defaults := config.DefaultSettings()

	cmd := &cobra.Command{
		Use:   "check [manifest...]",
		Short: "Report on dependencies added to package.json manifests",
		Long: `Check compares package.json manifests between a base and a head revision,
looks up every newly added dependency once in its npm registry and writes a
report with a metadata table per dependency.

Manifests default to package.json in the repository root. Settings are read
from .depreport.toml, DEPREPORT_* environment variables and flags, in
increasing priority.`,
		Example: `  # Report on the root manifest against origin/main
  depreport check

  # Several manifests, rendered for the terminal
  depreport check package.json web/package.json --format terminal

  # Compare two commits and write markdown for a pull request comment
  depreport check --base v1.2.0 --head HEAD -o report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if err := cmd.Flags().Set("manifests", strings.Join(args, ",")); err != nil {
					return err
				}
			}
			s, err := config.LoadSettings(opts.settingsPath, cmd.Flags())
			if err != nil {
				return err
			}
			return c.runCheck(cmd.Context(), s, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.settingsPath, "config", config.SettingsFile, "settings file")
	f.StringVarP(&opts.dir, "dir", "C", ".", "repository directory")
	f.BoolVar(&opts.refresh, "refresh", false, "bypass the packument cache")
	f.StringSlice("manifests", defaults.Manifests, "package.json paths relative to the repository")
	f.String("base", defaults.Base, "base revision")
	f.String("head", defaults.Head, "head revision (empty for the working tree)")
	f.String("npm-auth-token", "", "token for the default registry")
	f.String("lockfile", defaults.Lockfile, "lockfile expected next to each manifest")
	f.Bool("provenance", defaults.Provenance, "explain why each dependency is installed (yarn why)")
	f.Int("concurrency", defaults.Concurrency, "parallel manifests and fetches")
	f.String("format", defaults.Format, "output format: markdown, terminal")
	f.StringP("output", "o", "", "output file (default stdout)")
	f.Duration("cache-ttl", defaults.CacheTTL, "packument cache lifetime (0 disables caching)")
	f.String("redis-url", "", "cache packuments in Redis instead of on disk")
	f.String("mongo-uri", "", "archive run records in MongoDB")
	f.String("mongo-database", defaults.MongoDatabase, "MongoDB database for run records")
	f.String("archive-dir", "", "archive run records as JSON files in this directory")
	f.String("s3-bucket", "", "archive run records in this S3 bucket")
	f.String("s3-prefix", "", "key prefix for S3 run records")
	f.String("s3-region", "", "S3 region (default us-east-1)")
	f.String("s3-endpoint", "", "S3-compatible endpoint, e.g. a MinIO URL")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file")
	f.String("yarnrc", "", "read registries from this .yarnrc.yml instead of the yarn CLI")
	f.Bool("fail-on-error", defaults.FailOnError, "exit non-zero when the report contains failures")

	return cmd
}

// runCheck wires the collaborators for a run, executes it and writes the
// report, metrics and archive record.
func (c *CLI) runCheck(ctx context.Context, s *config.Settings, opts checkOptions) error {
	var metrics *observability.Metrics
	if s.MetricsTextfile != "" {
		metrics = observability.NewMetrics()
		observability.SetPipelineHooks(metrics)
		observability.SetCacheHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	yc := yarn.NewClient(opts.dir)
	cfg, err := c.configLoader(opts.dir, s, yc).Load(ctx)
	if err != nil {
		return err
	}
	regs := registry.FromConfig(cfg)
	c.Logger.Debug("registries resolved", "default", regs.Default.URL, "scopes", len(regs.Scoped))

	respCache := c.newCache(ctx, s)
	defer respCache.Close()

	client := npm.NewClient(respCache, s.CacheTTL, proxy.NewResolver(cfg).Func())
	fetcher := metadata.NewFetcher(client, metadata.Options{
		Registries:   regs,
		NPMAuthToken: s.NPMAuthToken,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	})

	collector := &report.Collector{}
	runner := &pipeline.Runner{
		Diffs:    &diff.GitSource{Dir: opts.dir, Base: s.Base, Head: s.Head},
		Fetcher:  fetcher,
		Sink:     collector,
		Renderer: c.renderer(s),
		Logger:   c.Logger,
	}
	if s.Provenance {
		runner.Explainer = yc
	}

	spinner := startSpinner(ctx, s)
	prog := newProgress(c.Logger)
	res, runErr := runner.Run(ctx, pipeline.Options{
		Paths:       s.Manifests,
		Lockfile:    s.Lockfile,
		Concurrency: s.Concurrency,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if res == nil {
		return runErr
	}
	prog.done(fmt.Sprintf("Checked %d manifests, %d new dependencies", len(res.Manifests), len(res.Dependencies)))

	rep := collector.Report()
	writeErr := writeReport(s, rep)

	c.archive(ctx, s, res.Record(s.Base, s.Head, rep, runErr))
	if metrics != nil {
		if err := metrics.WriteTextfile(s.MetricsTextfile); err != nil {
			c.Logger.Warn("write metrics failed", "path", s.MetricsTextfile, "err", err)
		}
	}

	switch {
	case runErr != nil:
		return runErr
	case writeErr != nil:
		return writeErr
	case s.FailOnError && collector.Failed():
		return ErrReportFailed
	}
	return nil
}

func (c *CLI) renderer(s *config.Settings) table.Renderer {
	if s.Format != config.FormatTerminal {
		return table.HTML{}
	}
	t := table.Terminal{}
	if s.Output == "" {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			t.Width = w
		}
	} else {
		t.Style = "notty"
	}
	return t
}

// startSpinner shows a spinner on stderr while a terminal report is being
// built. It returns nil for markdown runs and when stderr is not a terminal.
func startSpinner(ctx context.Context, s *config.Settings) *Spinner {
	if s.Format != config.FormatTerminal || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Checking %s...", strings.Join(s.Manifests, ", ")))
	sp.Start()
	return sp
}

// writeReport writes the report in the configured format to the output
// file, or stdout when none is set.
func writeReport(s *config.Settings, rep report.Report) error {
	var w io.Writer = os.Stdout
	if s.Output != "" {
		f, err := os.Create(s.Output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", s.Output)
		}
		defer f.Close()
		w = f
	}
	if s.Format == config.FormatTerminal {
		return report.WriteTerminal(w, rep)
	}
	return report.WriteMarkdown(w, rep)
}

// archive stores the run record. Failures are logged, never returned.
func (c *CLI) archive(ctx context.Context, s *config.Settings, rec *report.Record) {
	a, err := openArchive(ctx, s)
	if err != nil {
		c.Logger.Warn("archive unavailable", "err", err)
		return
	}
	if a == nil {
		return
	}
	defer a.Close()
	if err := a.Save(ctx, rec); err != nil {
		c.Logger.Warn("archive run failed", "run", rec.RunID, "err", err)
		return
	}
	c.Logger.Debug("run archived", "run", rec.RunID)
}

// openArchive returns the configured archive, or nil when none is. MongoDB
// wins over S3, which wins over a local directory.
func openArchive(ctx context.Context, s *config.Settings) (report.Archive, error) {
	switch {
	case s.MongoURI != "":
		return report.NewMongoArchive(ctx, s.MongoURI, s.MongoDatabase)
	case s.S3Bucket != "":
		return report.NewS3Archive(report.S3Options{
			Bucket:   s.S3Bucket,
			Prefix:   s.S3Prefix,
			Region:   s.S3Region,
			Endpoint: s.S3Endpoint,
		})
	case s.ArchiveDir != "":
		return report.NewFileArchive(s.ArchiveDir)
	}
	return nil, nil
}

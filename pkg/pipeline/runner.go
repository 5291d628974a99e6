package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depreport/pkg/diff"
	"github.com/matzehuels/depreport/pkg/errors"
	"github.com/matzehuels/depreport/pkg/metadata"
	"github.com/matzehuels/depreport/pkg/observability"
	"github.com/matzehuels/depreport/pkg/report"
	"github.com/matzehuels/depreport/pkg/table"
)

// Runner executes report runs. Its collaborators are set once; a Runner
// may execute several runs, each with its own [DedupCache].
type Runner struct {
	Diffs   diff.Source
	Fetcher MetadataFetcher

	// Explainer is asked why each new dependency is installed. Nil skips
	// provenance.
	Explainer Explainer

	Sink report.Sink

	// Renderer renders tables and report lines. Defaults to [table.HTML].
	Renderer table.Renderer

	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// Run checks every manifest in opts.Paths and reports the dependencies
// they add. If a manifest cannot be diffed, the others still complete and
// everything gathered is posted before the first such error is returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if r.Diffs == nil || r.Fetcher == nil || r.Sink == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "runner needs a diff source, a metadata fetcher and a sink")
	}
	logger := r.logger()

	res := &Result{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
		Manifests: make([]ManifestResult, len(opts.Paths)),
	}
	for i, p := range opts.Paths {
		res.Manifests[i].Path = p
	}

	modified, err := r.Diffs.ModifiedFiles(ctx)
	if err != nil {
		res.Duration = time.Since(res.StartedAt)
		return res, err
	}

	cache := NewDedupCache()
	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for i, p := range opts.Paths {
		g.Go(func() error {
			added, err := r.manifest(ctx, p, opts, modified, cache)
			res.Manifests[i].Added = added
			res.Manifests[i].Err = err
			return err
		})
	}
	err = g.Wait()

	res.Dependencies = cache.Entries()
	r.flush(res.Dependencies)
	res.Duration = time.Since(res.StartedAt)

	logger.Debug("report complete",
		"run", res.RunID,
		"manifests", len(opts.Paths),
		"dependencies", len(res.Dependencies),
		"duration", res.Duration)
	return res, err
}

// manifest runs the checks for one manifest and populates the cache with
// the dependencies it adds.
func (r *Runner) manifest(ctx context.Context, p string, opts Options, modified []string, cache *DedupCache) ([]string, error) {
	hooks := observability.Pipeline()
	hooks.OnManifestStart(ctx, p)
	start := time.Now()

	d, err := r.Diffs.Diff(ctx, p)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeDiffRead, err, "diff %s", p)
		}
		r.logger().Error("could not diff manifest", "path", p, "err", err)
		hooks.OnManifestComplete(ctx, p, 0, time.Since(start), err)
		return nil, err
	}

	sink := r.lines()
	CheckRelease(sink, d)
	CheckLockfile(sink, d, p, modified, opts.Lockfile)
	CheckTypesInDeps(sink, d, p)

	added := FindNewDependencies(d)
	if len(added) > 0 {
		var where string
		if len(opts.Paths) > 1 {
			where = p
		}
		sink.Markdown(NewDependenciesMarkdown(where, added))
	}

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for _, dep := range added {
		created, e := cache.GetOrCreate(ctx, dep)
		e.AddPath(p)
		if created {
			g.Go(func() error {
				r.populate(ctx, e)
				return nil
			})
		}
	}
	_ = g.Wait()

	r.logger().Debug("checked manifest", "path", p, "added", len(added), "duration", time.Since(start))
	hooks.OnManifestComplete(ctx, p, len(added), time.Since(start), nil)
	return added, nil
}

// populate fetches metadata and provenance for a freshly created entry.
// Failures are recorded on the entry and reported as warnings later.
func (r *Runner) populate(ctx context.Context, e *Entry) {
	var g errgroup.Group
	g.Go(func() error {
		start := time.Now()
		m, err := r.Fetcher.Fetch(ctx, e.Name)
		e.Model, e.Found, e.FetchErr = m, err == nil, err
		if err != nil {
			r.logger().Debug("no registry metadata", "package", e.Name, "err", err)
		}
		observability.Pipeline().OnDependencyFetched(ctx, e.Name, err == nil, time.Since(start))
		return nil
	})
	if r.Explainer != nil {
		g.Go(func() error {
			text, err := r.Explainer.Explain(ctx, e.Name)
			if err == nil && text == "" {
				err = errors.New(errors.ErrCodeProvenanceUnavailable, "no explanation for %s", e.Name)
			}
			e.Provenance, e.ExplainErr = text, err
			if err != nil {
				r.logger().Debug("no provenance", "package", e.Name, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// flush posts every entry in order: its table or a warning, then its
// provenance or a warning.
func (r *Runner) flush(entries []*Entry) {
	renderer := r.renderer()
	lines := r.lines()
	for _, e := range entries {
		if e.Found {
			r.Sink.Markdown(renderer.Render(e.Paths(), e.Model))
		} else {
			lines.Warn("Could not get info from npm on " + metadata.SafeLink(e.Name))
		}
		if r.Explainer == nil {
			continue
		}
		if e.Provenance != "" {
			lines.Markdown(e.Provenance)
		} else {
			lines.Warn("Could not get info from yarn on " + metadata.SafeLink(e.Name))
		}
	}
}

func (r *Runner) renderer() table.Renderer {
	if r.Renderer == nil {
		return table.HTML{}
	}
	return r.Renderer
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// lines returns the sink with every text converted by the renderer.
func (r *Runner) lines() report.Sink {
	return fragmentSink{sink: r.Sink, renderer: r.renderer()}
}

type fragmentSink struct {
	sink     report.Sink
	renderer table.Renderer
}

func (s fragmentSink) Message(text string)  { s.sink.Message(s.renderer.Fragment(text)) }
func (s fragmentSink) Warn(text string)     { s.sink.Warn(s.renderer.Fragment(text)) }
func (s fragmentSink) Fail(text string)     { s.sink.Fail(s.renderer.Fragment(text)) }
func (s fragmentSink) Markdown(text string) { s.sink.Markdown(s.renderer.Fragment(text)) }

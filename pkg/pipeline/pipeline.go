// Package pipeline reports on the dependencies a change adds to its
// package.json manifests.
//
// A [Runner] diffs every manifest concurrently, runs the manifest checks
// (release, lockfile, @types), and looks up each newly added dependency
// once, however many manifests add it. When all manifests are done, every
// dependency the registry knew is rendered to the report sink in name
// order, even if a manifest failed; that failure is returned afterwards.
//
// # Usage
//
//	runner := &pipeline.Runner{
//	    Diffs:     &diff.GitSource{Base: "origin/main"},
//	    Fetcher:   metadata.NewFetcher(npmClient, metadata.Options{Registries: regs}),
//	    Explainer: yarn.NewClient(""),
//	    Sink:      collector,
//	}
//	result, err := runner.Run(ctx, pipeline.Options{
//	    Paths: []string{"package.json", "web/package.json"},
//	})
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/depreport/pkg/errors"
	"github.com/matzehuels/depreport/pkg/report"
	"github.com/matzehuels/depreport/pkg/table"
)

const (
	// DefaultManifest is checked when no manifest is given.
	DefaultManifest = "package.json"

	// DefaultLockfile is the lockfile expected next to each manifest.
	DefaultLockfile = "yarn.lock"

	// DefaultConcurrency is the number of manifests processed at once.
	DefaultConcurrency = 8
)

// MetadataFetcher builds the table for a dependency.
// [metadata.Fetcher] implements it.
//
// [metadata.Fetcher]: github.com/matzehuels/depreport/pkg/metadata.Fetcher
type MetadataFetcher interface {
	Fetch(ctx context.Context, name string) (table.Model, error)
}

// Explainer explains why a dependency is installed. [yarn.Client]
// implements it.
//
// [yarn.Client]: github.com/matzehuels/depreport/pkg/integrations/yarn.Client
type Explainer interface {
	Explain(ctx context.Context, dep string) (string, error)
}

// Options configures a run.
type Options struct {
	// Paths are the manifests to check, relative to the repository root.
	Paths []string

	// Lockfile is the lockfile name expected next to each manifest.
	Lockfile string

	// Concurrency bounds the manifests processed at once.
	Concurrency int
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Paths) == 0 {
		o.Paths = []string{DefaultManifest}
	}
	seen := make(map[string]bool, len(o.Paths))
	paths := make([]string, 0, len(o.Paths))
	for _, p := range o.Paths {
		if err := errors.ValidatePath(p); err != nil {
			return err
		}
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	o.Paths = paths
	if o.Lockfile == "" {
		o.Lockfile = DefaultLockfile
	}
	if err := errors.ValidatePath(o.Lockfile); err != nil {
		return err
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency cannot be negative, got %d", o.Concurrency)
	}
	return nil
}

// Result describes a finished run.
type Result struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration

	// Manifests holds one result per path, in the order given.
	Manifests []ManifestResult

	// Dependencies are the new dependencies, sorted by name.
	Dependencies []*Entry
}

// ManifestResult is the outcome for one manifest.
type ManifestResult struct {
	Path  string
	Added []string
	Err   error
}

// Record converts the result to an archive record.
func (r *Result) Record(base, head string, rep report.Report, runErr error) *report.Record {
	rec := &report.Record{
		RunID:     r.RunID.String(),
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Base:      base,
		Head:      head,
		Report:    rep,
	}
	for _, m := range r.Manifests {
		rec.Manifests = append(rec.Manifests, m.Path)
	}
	for _, e := range r.Dependencies {
		rec.Dependencies = append(rec.Dependencies, report.Dependency{
			Name:       e.Name,
			Paths:      e.Paths(),
			Found:      e.Found,
			Provenance: e.Provenance != "",
		})
	}
	if runErr != nil {
		rec.Error = errors.UserMessage(runErr)
	}
	return rec
}

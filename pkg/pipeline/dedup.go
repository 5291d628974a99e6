package pipeline

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/depreport/pkg/observability"
	"github.com/matzehuels/depreport/pkg/table"
)

// Entry aggregates one dependency across every manifest of a run that adds
// it. Model, Found, Provenance and the errors are written only by the
// goroutine that created the entry, and must be read only after the run's
// workers have finished.
type Entry struct {
	Name string

	// Model is the dependency's table; empty until fetched.
	Model table.Model

	// Found reports whether the registry returned metadata.
	Found bool

	// Provenance is the package manager's explanation, if one was asked
	// for and given.
	Provenance string

	// FetchErr and ExplainErr record why Model or Provenance is missing.
	FetchErr   error
	ExplainErr error

	mu    sync.Mutex
	paths []string
}

// AddPath records a manifest that adds the dependency. Duplicates are
// ignored.
func (e *Entry) AddPath(p string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.Contains(e.paths, p) {
		e.paths = append(e.paths, p)
	}
}

// Paths returns the recorded manifests, sorted.
func (e *Entry) Paths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := slices.Clone(e.paths)
	slices.Sort(p)
	return p
}

// DedupCache maps dependency names to their [Entry] for one run, so each
// dependency is fetched once however many manifests add it.
type DedupCache struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewDedupCache creates an empty cache.
func NewDedupCache() *DedupCache {
	return &DedupCache{entries: make(map[string]*Entry)}
}

// GetOrCreate returns the entry for name, creating it if needed. created
// is true for exactly one caller per name; that caller owns the fetch.
func (c *DedupCache) GetOrCreate(ctx context.Context, name string) (created bool, e *Entry) {
	c.mu.Lock()
	e, ok := c.entries[name]
	if !ok {
		e = &Entry{Name: name}
		c.entries[name] = e
	}
	c.mu.Unlock()

	if ok {
		observability.Cache().OnCacheHit(ctx, "dedup")
	} else {
		observability.Cache().OnCacheMiss(ctx, "dedup")
	}
	return !ok, e
}

// Entries returns all entries sorted by name.
func (c *DedupCache) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Entry, 0, len(c.entries))
	for _, name := range slices.Sorted(maps.Keys(c.entries)) {
		out = append(out, c.entries[name])
	}
	return out
}

// Len returns the number of entries.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

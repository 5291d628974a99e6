package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is the archived outcome of one run.
type Record struct {
	RunID        string        `json:"run_id" bson:"_id"`
	StartedAt    time.Time     `json:"started_at" bson:"started_at"`
	Duration     time.Duration `json:"duration" bson:"duration"`
	Base         string        `json:"base,omitempty" bson:"base,omitempty"`
	Head         string        `json:"head,omitempty" bson:"head,omitempty"`
	Manifests    []string      `json:"manifests" bson:"manifests"`
	Dependencies []Dependency  `json:"dependencies,omitempty" bson:"dependencies,omitempty"`
	Report       Report        `json:"report" bson:"report"`
	Error        string        `json:"error,omitempty" bson:"error,omitempty"`
}

// Dependency summarizes one new dependency of a run.
type Dependency struct {
	Name       string   `json:"name" bson:"name"`
	Paths      []string `json:"paths" bson:"paths"`
	Found      bool     `json:"found" bson:"found"`
	Provenance bool     `json:"provenance" bson:"provenance"`
}

// Archive stores run records.
type Archive interface {
	// Save stores a record, replacing one with the same run ID.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record of a run, or nil, nil if there is none.
	Get(ctx context.Context, runID string) (*Record, error)

	Close() error
}

// FileArchive keeps one JSON file per run in a directory.
type FileArchive struct {
	mu  sync.RWMutex
	dir string
}

// NewFileArchive creates a file archive. If dir is empty, defaults to
// ~/.config/depreport/runs/.
func NewFileArchive(dir string) (*FileArchive, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "depreport", "runs")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FileArchive{dir: dir}, nil
}

func (a *FileArchive) path(runID string) string {
	return filepath.Join(a.dir, filepath.Base(runID)+".json")
}

func (a *FileArchive) Save(_ context.Context, rec *Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(a.path(rec.RunID), data, 0o600); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (a *FileArchive) Get(_ context.Context, runID string) (*Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, err := os.ReadFile(a.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &rec, nil
}

func (a *FileArchive) Close() error { return nil }

// Dir returns the archive directory.
func (a *FileArchive) Dir() string { return a.dir }

var _ Archive = (*FileArchive)(nil)

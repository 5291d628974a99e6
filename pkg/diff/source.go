package diff

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/depreport/internal/command"
	"github.com/matzehuels/depreport/pkg/errors"
)

// Source provides manifest diffs and the list of files touched by a change.
type Source interface {
	Diff(ctx context.Context, path string) (*PackageDiff, error)
	ModifiedFiles(ctx context.Context) ([]string, error)
}

// GitSource diffs manifests between two revisions of a git repository.
type GitSource struct {
	// Dir is the repository root. Manifest paths are relative to it.
	Dir string

	// Base is the revision the change is compared against, e.g. origin/main.
	Base string

	// Head is the revision under review. Empty means the working tree.
	Head string

	// Runner executes git. Defaults to [command.Exec].
	Runner command.Runner
}

// Diff implements [Source]. A manifest missing at one revision diffs as
// empty on that side, so a new manifest lists all its dependencies as added.
func (g *GitSource) Diff(ctx context.Context, manifest string) (*PackageDiff, error) {
	if err := errors.ValidatePath(manifest); err != nil {
		return nil, err
	}
	if err := g.verify(ctx, g.Base); err != nil {
		return nil, err
	}

	before := g.show(ctx, g.Base, manifest)

	var after []byte
	if g.Head == "" {
		data, err := os.ReadFile(filepath.Join(g.Dir, filepath.FromSlash(manifest)))
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeDiffRead, err, "read %s", manifest)
		}
		after = data
	} else {
		if err := g.verify(ctx, g.Head); err != nil {
			return nil, err
		}
		after = g.show(ctx, g.Head, manifest)
	}

	d, err := Compute(before, after)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDiffRead, err, "diff %s", manifest)
	}
	return d, nil
}

// ModifiedFiles implements [Source]. When Head is empty the working tree
// is compared, so untracked files that are not ignored count as modified.
func (g *GitSource) ModifiedFiles(ctx context.Context) ([]string, error) {
	args := []string{"diff", "--name-only", g.Base}
	if g.Head != "" {
		args = append(args, g.Head)
	}
	out, err := g.git(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDiffRead, err, "list modified files")
	}
	files := splitLines(out)
	if g.Head != "" {
		return files, nil
	}

	out, err = g.git(ctx, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDiffRead, err, "list untracked files")
	}
	for _, f := range splitLines(out) {
		if !slices.Contains(files, f) {
			files = append(files, f)
		}
	}
	return files, nil
}

func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (g *GitSource) verify(ctx context.Context, rev string) error {
	if rev == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a base revision is required")
	}
	if _, err := g.git(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}"); err != nil {
		return errors.Wrap(errors.ErrCodeDiffRead, err, "unknown revision %q", rev)
	}
	return nil
}

// show returns a file at a revision, or nil if it does not exist there.
func (g *GitSource) show(ctx context.Context, rev, file string) []byte {
	out, err := g.git(ctx, "show", rev+":"+path.Clean(file))
	if err != nil {
		return nil
	}
	return out
}

func (g *GitSource) git(ctx context.Context, args ...string) ([]byte, error) {
	runner := g.Runner
	if runner == nil {
		runner = command.Exec{}
	}
	return runner.Run(ctx, g.Dir, "git", args...)
}

// StaticSource serves precomputed diffs.
type StaticSource struct {
	Diffs    map[string]*PackageDiff
	Modified []string

	// Errs makes Diff fail for the given paths.
	Errs map[string]error
}

// Diff implements [Source]. Unknown paths are a DIFF_READ error.
func (s *StaticSource) Diff(_ context.Context, manifest string) (*PackageDiff, error) {
	if err, ok := s.Errs[manifest]; ok {
		return nil, errors.Wrap(errors.ErrCodeDiffRead, err, "diff %s", manifest)
	}
	d, ok := s.Diffs[manifest]
	if !ok {
		return nil, errors.New(errors.ErrCodeDiffRead, "no diff for %s", manifest)
	}
	return d, nil
}

// ModifiedFiles implements [Source].
func (s *StaticSource) ModifiedFiles(context.Context) ([]string, error) {
	return s.Modified, nil
}

var (
	_ Source = (*GitSource)(nil)
	_ Source = (*StaticSource)(nil)
)

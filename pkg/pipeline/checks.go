package pipeline

import (
	"html"
	"path"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/depreport/pkg/diff"
	"github.com/matzehuels/depreport/pkg/metadata"
	"github.com/matzehuels/depreport/pkg/report"
)

// ReleaseMessage is posted when a manifest's version goes up.
const ReleaseMessage = ":tada: - congrats on your new release"

// CheckRelease posts [ReleaseMessage] when the version increased. Missing
// or unparsable versions are ignored.
func CheckRelease(sink report.Sink, d *diff.PackageDiff) bool {
	if d == nil || d.Version == nil || d.Version.Before == "" || d.Version.After == "" {
		return false
	}
	before, err := semver.NewVersion(d.Version.Before)
	if err != nil {
		return false
	}
	after, err := semver.NewVersion(d.Version.After)
	if err != nil {
		return false
	}
	if !before.LessThan(after) {
		return false
	}
	sink.Message(ReleaseMessage)
	return true
}

// CheckLockfile warns when dependencies or devDependencies of manifest
// changed but the lockfile next to it is not among the modified files.
func CheckLockfile(sink report.Sink, d *diff.PackageDiff, manifest string, modified []string, lockfile string) bool {
	if !d.DependenciesChanged() {
		return false
	}
	lock := path.Join(path.Dir(manifest), lockfile)
	if slices.Contains(modified, lock) {
		return false
	}
	sink.Warn("Changes were made to " + manifest + ", but not to " + lock + ".<br/>" +
		"<i>Perhaps you need to run `" + installCommand(lockfile) + "`?</i>")
	return true
}

func installCommand(lockfile string) string {
	switch path.Base(lockfile) {
	case "package-lock.json", "npm-shrinkwrap.json":
		return "npm install"
	case "pnpm-lock.yaml":
		return "pnpm install"
	}
	return "yarn install"
}

// CheckTypesInDeps fails when @types packages were added to dependencies
// rather than devDependencies.
func CheckTypesInDeps(sink report.Sink, d *diff.PackageDiff, manifest string) bool {
	if d == nil || d.Dependencies == nil {
		return false
	}
	var types []string
	for _, dep := range d.Dependencies.Added {
		if strings.HasPrefix(dep, "@types/") {
			types = append(types, metadata.PrintDep(dep))
		}
	}
	if len(types) == 0 {
		return false
	}
	sink.Fail("@types dependencies were added to " + manifest + ", as a dependency for others.<br/>" +
		"<i>You need to move " + metadata.Sentence(types) + " into \"devDependencies\"?</i>")
	return true
}

// FindNewDependencies lists the packages added to dependencies, then those
// added to devDependencies.
func FindNewDependencies(d *diff.PackageDiff) []string {
	if d == nil {
		return nil
	}
	var added []string
	for _, c := range []*diff.KeyedChange{d.Dependencies, d.DevDependencies} {
		if c != nil {
			added = append(added, c.Added...)
		}
	}
	return added
}

// NewDependenciesMarkdown announces the dependencies a manifest added.
// manifest is named only when non-empty.
func NewDependenciesMarkdown(manifest string, deps []string) string {
	links := make([]string, len(deps))
	for i, dep := range deps {
		links[i] = metadata.SafeLink(dep)
	}
	where := ""
	if manifest != "" {
		where = " to <code>" + html.EscapeString(manifest) + "</code>"
	}
	return "New dependencies added" + where + ": " + metadata.Sentence(links) + "."
}

// Package diff computes what changed in package.json manifests.
//
// [Compute] compares two versions of a manifest and reports, per dependency
// map, which packages were added, removed or had their range changed, plus
// a version bump if there was one. Unchanged sections are nil, so
// "dependencies changed at all" is a nil check:
//
//	d, err := diff.Compute(before, after)
//	if d.Dependencies != nil {
//	    fmt.Println("new:", d.Dependencies.Added)
//	}
//
// A [Source] supplies diffs for a change under review. [GitSource] reads
// both sides from git (or the working tree); [StaticSource] serves
// precomputed diffs.
package diff

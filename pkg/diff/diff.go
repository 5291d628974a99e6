package diff

import (
	"maps"
	"slices"
)

// ValueChange is a scalar field that differs between two manifests.
type ValueChange struct {
	Before string
	After  string
}

// KeyedChange lists the keys of a dependency map that were added, removed
// or changed (same key, different range). Each list is sorted.
type KeyedChange struct {
	Added   []string
	Removed []string
	Changed []string
}

// PackageDiff is the difference between two versions of a package.json.
// A field is nil when that part of the manifest did not change.
type PackageDiff struct {
	Version          *ValueChange
	Dependencies     *KeyedChange
	DevDependencies  *KeyedChange
	PeerDependencies *KeyedChange
}

// Compute diffs two manifest documents. Either side may be empty.
func Compute(before, after []byte) (*PackageDiff, error) {
	b, err := ParsePackageJSON(before)
	if err != nil {
		return nil, err
	}
	a, err := ParsePackageJSON(after)
	if err != nil {
		return nil, err
	}
	return Between(b, a), nil
}

// Between diffs two decoded manifests.
func Between(before, after *PackageJSON) *PackageDiff {
	d := &PackageDiff{
		Dependencies:     diffKeys(before.Dependencies, after.Dependencies),
		DevDependencies:  diffKeys(before.DevDependencies, after.DevDependencies),
		PeerDependencies: diffKeys(before.PeerDependencies, after.PeerDependencies),
	}
	if before.Version != after.Version {
		d.Version = &ValueChange{Before: before.Version, After: after.Version}
	}
	return d
}

// DependenciesChanged reports whether dependencies or devDependencies
// changed in any way.
func (d *PackageDiff) DependenciesChanged() bool {
	return d != nil && (d.Dependencies != nil || d.DevDependencies != nil)
}

func diffKeys(before, after map[string]string) *KeyedChange {
	var c KeyedChange
	for _, k := range slices.Sorted(maps.Keys(after)) {
		old, ok := before[k]
		switch {
		case !ok:
			c.Added = append(c.Added, k)
		case old != after[k]:
			c.Changed = append(c.Changed, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(before)) {
		if _, ok := after[k]; !ok {
			c.Removed = append(c.Removed, k)
		}
	}
	if c.Added == nil && c.Removed == nil && c.Changed == nil {
		return nil
	}
	return &c
}

package npm

import (
	"time"

	"github.com/matzehuels/depreport/pkg/integrations"
)

// Packument is the subset of a registry document used for reports.
//
// Several fields are loosely typed in the wild: license and author may be a
// string or an object, keywords occasionally a single string, and the time
// map carries an "unpublished" object next to the timestamps.
type Packument struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Homepage    string             `json:"homepage,omitempty"`
	License     any                `json:"license,omitempty"`
	Author      any                `json:"author,omitempty"`
	Repository  any                `json:"repository,omitempty"`
	Keywords    any                `json:"keywords,omitempty"`
	Maintainers []any              `json:"maintainers,omitempty"`
	Time        map[string]any     `json:"time,omitempty"`
	DistTags    map[string]string  `json:"dist-tags,omitempty"`
	Versions    map[string]Version `json:"versions,omitempty"`
	Readme      string             `json:"readme,omitempty"`
}

// Version is the per-release part of a packument. Old releases sometimes
// publish dependencies as an empty array; [Version.DependencyMap] only
// reads object shapes.
type Version struct {
	License      any `json:"license,omitempty"`
	Dependencies any `json:"dependencies,omitempty"`
}

// DependencyMap returns the dependencies with string ranges, or nil.
func (v Version) DependencyMap() map[string]string {
	m, ok := v.Dependencies.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for name, r := range m {
		if s, ok := r.(string); ok {
			out[name] = s
		}
	}
	return out
}

// LicenseName returns the package-level license, or "".
func (p *Packument) LicenseName() string { return extractField(p.License, "type") }

// AuthorName returns the author's name, or "".
func (p *Packument) AuthorName() string { return extractField(p.Author, "name") }

// RepositoryURL returns the repository as an https URL, or "".
func (p *Packument) RepositoryURL() string {
	return integrations.NormalizeRepoURL(extractField(p.Repository, "url"))
}

// KeywordList returns the keywords, skipping non-string entries.
func (p *Packument) KeywordList() []string {
	switch v := p.Keywords.(type) {
	case string:
		if v != "" {
			return []string{v}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, k := range v {
			if s, ok := k.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// Created returns the time of the first publish.
func (p *Packument) Created() (time.Time, bool) { return p.timeOf("created") }

// Modified returns the time of the last change to the document.
func (p *Packument) Modified() (time.Time, bool) { return p.timeOf("modified") }

func (p *Packument) timeOf(key string) (time.Time, bool) {
	s, ok := p.Time[key].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Latest returns the version the "latest" dist-tag points at.
func (p *Packument) Latest() (string, *Version, bool) {
	tag := p.DistTags["latest"]
	if tag == "" {
		return "", nil, false
	}
	v, ok := p.Versions[tag]
	if !ok {
		return tag, nil, false
	}
	return tag, &v, true
}

// VersionLicense returns the license declared by a single version.
func (v Version) VersionLicense() string { return extractField(v.License, "type") }

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

package metadata

import (
	"cmp"
	"html"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/depreport/pkg/integrations/npm"
	"github.com/matzehuels/depreport/pkg/table"
)

// NoLicense is shown when neither the package nor any release declares a
// license.
const NoLicense = "<b>NO LICENSE FOUND</b>"

var counts = message.NewPrinter(language.English)

// Build turns a packument into the report table of a dependency. now is the
// reference time for the "ago" columns.
func Build(name string, pkt *npm.Packument, now time.Time) table.Model {
	homepage := Homepage(name, pkt)
	b := table.NewBuilder()

	b.Row(
		table.Formatted{Content: `<h2><a href="` + html.EscapeString(homepage) + `">` + PrintDep(name) + `</a></h2>`},
		table.Placeholder{Key: table.UsedInPackages},
	)

	b.Row(
		table.LabelValue{Name: "Author", Message: orUnknown(html.EscapeString(pkt.AuthorName()))},
		table.LabelValue{Name: "Description", Message: orUnknown(html.EscapeString(pkt.Description))},
	)

	b.Row(
		table.LabelValue{Name: "License", Message: License(pkt)},
		table.LabelValue{Name: "Homepage", Message: `<a href="` + html.EscapeString(homepage) + `">` + WrapSlashes(html.EscapeString(homepage)) + `</a>`},
	)

	if kw := pkt.KeywordList(); len(kw) > 0 {
		escaped := make([]string, len(kw))
		for i, k := range kw {
			escaped[i] = html.EscapeString(k)
		}
		b.Row(table.LabelValue{Name: "Keywords", Message: Sentence(escaped), Colspan: 2})
	}

	created, hasCreated := pkt.Created()
	modified, hasModified := pkt.Modified()
	if !hasModified {
		modified, hasModified = created, hasCreated
	}
	b.Row(
		table.LabelValue{Name: "Updated", Message: ago(modified, hasModified, now)},
		table.LabelValue{Name: "Created", Message: ago(created, hasCreated, now)},
	)

	var stats []table.Deet
	if n := len(pkt.Versions); n > 0 {
		stats = append(stats, table.LabelValue{Name: "Releases", Message: counts.Sprintf("%d", n)})
	}
	if n := len(pkt.Maintainers); n > 0 {
		stats = append(stats, table.LabelValue{Name: "Maintainers", Message: counts.Sprintf("%d", n)})
	}
	if len(stats) == 1 {
		lv := stats[0].(table.LabelValue)
		lv.Colspan = 2
		stats[0] = lv
	}
	b.Row(stats...)

	if _, latest, ok := pkt.Latest(); ok && len(latest.DependencyMap()) > 0 {
		deps := slices.Sorted(maps.Keys(latest.DependencyMap()))
		links := make([]string, len(deps))
		for i, d := range deps {
			links[i] = SafeLink(d)
		}
		b.Row(table.LabelValue{Name: "Direct Dependencies", Message: strings.Join(links, ",<wbr> "), Colspan: 2})
	}

	return b.Readme(table.NewReadme(pkt.Readme)).Build()
}

// Homepage returns the package homepage, its repository, or its npmjs.com
// page, whichever is known first.
func Homepage(name string, pkt *npm.Packument) string {
	if pkt.Homepage != "" {
		return pkt.Homepage
	}
	if repo := pkt.RepositoryURL(); strings.HasPrefix(repo, "https://") || strings.HasPrefix(repo, "http://") {
		return repo
	}
	return LinkToNPM(name)
}

// License returns the declared license. Packages without a top-level
// license often declare one per release; the newest release that does wins.
func License(pkt *npm.Packument) string {
	if l := pkt.LicenseName(); l != "" {
		return html.EscapeString(l)
	}
	for _, v := range versionsDescending(pkt.Versions) {
		if l := pkt.Versions[v].VersionLicense(); l != "" {
			return html.EscapeString(l)
		}
	}
	return NoLicense
}

// versionsDescending sorts version strings newest first. Strings that are
// not semantic versions sort last, in reverse lexical order.
func versionsDescending(versions map[string]npm.Version) []string {
	type parsed struct {
		raw string
		v   *semver.Version
	}
	list := make([]parsed, 0, len(versions))
	for raw := range versions {
		v, _ := semver.NewVersion(raw)
		list = append(list, parsed{raw, v})
	}
	slices.SortFunc(list, func(a, b parsed) int {
		switch {
		case a.v != nil && b.v != nil:
			if c := b.v.Compare(a.v); c != 0 {
				return c
			}
		case a.v != nil:
			return -1
		case b.v != nil:
			return 1
		}
		return cmp.Compare(b.raw, a.raw)
	})

	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.raw
	}
	return out
}

func ago(t time.Time, ok bool, now time.Time) string {
	if !ok {
		return "Unknown"
	}
	return DistanceInWords(t, now) + " ago"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

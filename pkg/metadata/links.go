package metadata

import (
	"html"
	"regexp"
	"strings"
)

// PrintDep makes a package name safe to print in a review comment, where a
// bare "@scope" would turn into a user mention.
func PrintDep(name string) string {
	return strings.Replace(html.EscapeString(name), "@", "&#64;", 1)
}

// LinkToNPM returns the npmjs.com page of a package.
func LinkToNPM(name string) string {
	return "https://www.npmjs.com/package/" + name
}

// SafeLink renders a package name as a link to its npmjs.com page.
func SafeLink(name string) string {
	return "<a href='" + html.EscapeString(LinkToNPM(name)) + "'><code>" + PrintDep(name) + "</code></a>"
}

// Sentence joins items as "a", "a and b" or "a, b and c".
func Sentence(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

var slashRuns = regexp.MustCompile(`/+`)

// WrapSlashes inserts a <wbr> line-break opportunity after every run of
// slashes so long URLs wrap in narrow table cells.
func WrapSlashes(s string) string {
	return slashRuns.ReplaceAllString(s, "$0<wbr>")
}

package table

import (
	"slices"
	"strings"
	"unicode/utf16"
)

// UsedInPackages is the placeholder key that expands to the list of
// manifests referencing a dependency.
const UsedInPackages = "used-in-packages"

// ReadmeLimit is the length from which a README is considered too long to
// show.
const ReadmeLimit = 10_000

// TooLongNotice replaces a README of [ReadmeLimit] characters or more.
const TooLongNotice = "This README is too long to show."

// Deet is one declarative unit of table content. The set of implementations
// is closed: [LabelValue], [Formatted], [Placeholder] and [RowBreak].
type Deet interface {
	deet()
}

// LabelValue is a cell showing "Name: Message".
type LabelValue struct {
	Name    string
	Message string
	Colspan int
}

// Formatted is a cell whose content is emitted as-is.
type Formatted struct {
	Content string
	Colspan int
}

// Placeholder is a cell resolved at render time from run-scoped context.
type Placeholder struct {
	Key     string
	Colspan int
}

// RowBreak ends the current row.
type RowBreak struct{}

func (LabelValue) deet()  {}
func (Formatted) deet()   {}
func (Placeholder) deet() {}
func (RowBreak) deet()    {}

// Readme is the README shown below the table.
type Readme struct {
	Text    string
	TooLong bool
}

// NewReadme keeps text when it is shorter than [ReadmeLimit] and otherwise
// records that it was too long. Empty text yields the zero Readme.
func NewReadme(text string) Readme {
	switch {
	case text == "":
		return Readme{}
	case textLength(text) >= ReadmeLimit:
		return Readme{TooLong: true}
	default:
		return Readme{Text: text}
	}
}

// textLength counts UTF-16 code units, the length JavaScript reports for a
// string.
func textLength(text string) int {
	n := 0
	for _, r := range text {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}

// Empty reports whether there is nothing to show.
func (r Readme) Empty() bool { return r.Text == "" && !r.TooLong }

// Model is a declarative table plus the README that follows it.
type Model struct {
	Deets  []Deet
	Readme Readme
}

// Empty reports whether the model has no cells and no README.
func (m Model) Empty() bool {
	return len(m.Rows()) == 0 && m.Readme.Empty()
}

// Rows splits the deets into rows. Empty rows, from leading or repeated
// breaks, are dropped.
func (m Model) Rows() [][]Deet {
	var rows [][]Deet
	var cur []Deet
	for _, d := range m.Deets {
		if _, ok := d.(RowBreak); ok {
			if len(cur) > 0 {
				rows = append(rows, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, d)
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	return rows
}

// Columns returns the width of the widest row in grid columns.
func (m Model) Columns() int {
	width := 0
	for _, row := range m.Rows() {
		n := 0
		for _, d := range row {
			n += span(d)
		}
		width = max(width, n)
	}
	return width
}

// Builder assembles a [Model].
type Builder struct {
	deets  []Deet
	readme Readme
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// Add appends cells to the current row.
func (b *Builder) Add(deets ...Deet) *Builder {
	b.deets = append(b.deets, deets...)
	return b
}

// Break ends the current row.
func (b *Builder) Break() *Builder {
	b.deets = append(b.deets, RowBreak{})
	return b
}

// Row appends cells followed by a row break. Calling Row with no cells does
// nothing.
func (b *Builder) Row(deets ...Deet) *Builder {
	if len(deets) == 0 {
		return b
	}
	return b.Add(deets...).Break()
}

// Readme sets the README.
func (b *Builder) Readme(r Readme) *Builder {
	b.readme = r
	return b
}

// Build returns the model with trailing row breaks trimmed.
func (b *Builder) Build() Model {
	deets := slices.Clone(b.deets)
	for len(deets) > 0 {
		if _, ok := deets[len(deets)-1].(RowBreak); !ok {
			break
		}
		deets = deets[:len(deets)-1]
	}
	return Model{Deets: deets, Readme: b.readme}
}

// Renderer turns a model into text. paths are the manifests that use the
// dependency the model describes.
type Renderer interface {
	Render(paths []string, m Model) string

	// Fragment converts a standalone HTML fragment, such as a report line
	// built around links, to the renderer's output format.
	Fragment(html string) string
}

func span(d Deet) int {
	var n int
	switch d := d.(type) {
	case LabelValue:
		n = d.Colspan
	case Formatted:
		n = d.Colspan
	case Placeholder:
		n = d.Colspan
	}
	return max(n, 1)
}

// usedIn renders the manifest list for the [UsedInPackages] placeholder.
// quote wraps each path.
func usedIn(paths []string, quote func(string) string) string {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = "'" + quote(p) + "'"
	}
	return "Used in: " + strings.Join(quoted, ", ")
}

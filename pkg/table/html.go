package table

import (
	"html"
	"strconv"
	"strings"
)

// HTML renders a model as an HTML table, the format code review comments
// accept.
type HTML struct{}

// Render implements [Renderer].
func (HTML) Render(paths []string, m Model) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	for _, row := range m.Rows() {
		b.WriteString("  <tr>")
		for _, d := range row {
			writeCell(&b, span(d), htmlCell(d, paths))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")

	switch {
	case m.Readme.TooLong:
		b.WriteString(TooLongNotice + "\n")
	case m.Readme.Text != "":
		b.WriteString("\n<details>\n<summary><code>README</code></summary></br>\n\n")
		b.WriteString(m.Readme.Text)
		b.WriteString("\n\n</details>\n")
	}
	return b.String()
}

// Fragment implements [Renderer]; HTML passes through unchanged.
func (HTML) Fragment(html string) string { return html }

func htmlCell(d Deet, paths []string) string {
	switch d := d.(type) {
	case LabelValue:
		return "<b>" + d.Name + "</b>: " + d.Message
	case Formatted:
		return d.Content
	case Placeholder:
		if d.Key == UsedInPackages {
			return usedIn(paths, html.EscapeString)
		}
	}
	return ""
}

func writeCell(b *strings.Builder, colspan int, content string) {
	b.WriteString("<td")
	if colspan > 1 {
		b.WriteString(` colspan="` + strconv.Itoa(colspan) + `"`)
	}
	b.WriteString(">")
	b.WriteString(content)
	b.WriteString("</td>")
}

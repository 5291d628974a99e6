package table

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Terminal renders a model for a terminal. HTML in cells is reduced to
// plain text and the README is rendered as markdown.
type Terminal struct {
	// Width limits the table and README width. Zero means unlimited for the
	// table and 80 columns for the README.
	Width int

	// Style is a glamour style name ("dark", "light", "notty", ...). Empty
	// selects one based on the terminal background.
	Style string
}

// Render implements [Renderer].
func (t Terminal) Render(paths []string, m Model) string {
	var b strings.Builder

	if rows := m.Rows(); len(rows) > 0 {
		cols := m.Columns()
		grid := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells := make([]string, 0, cols)
			for _, d := range row {
				cells = append(cells, terminalCell(d, paths))
				for range span(d) - 1 {
					cells = append(cells, "")
				}
			}
			for len(cells) < cols {
				cells = append(cells, "")
			}
			grid = append(grid, cells)
		}

		tbl := lgtable.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			Rows(grid...).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
		if t.Width > 0 {
			tbl = tbl.Width(t.Width)
		}
		b.WriteString(tbl.Render())
		b.WriteString("\n")
	}

	switch {
	case m.Readme.TooLong:
		b.WriteString(TooLongNotice + "\n")
	case m.Readme.Text != "":
		b.WriteString(t.markdown(m.Readme.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// Fragment implements [Renderer] by reducing html to plain text.
func (Terminal) Fragment(html string) string { return PlainText(html) }

func (t Terminal) markdown(md string) string {
	width := t.Width
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if t.Style != "" {
		style = glamour.WithStandardStyle(t.Style)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}

func terminalCell(d Deet, paths []string) string {
	switch d := d.(type) {
	case LabelValue:
		return labelStyle.Render(PlainText(d.Name)+":") + " " + PlainText(d.Message)
	case Formatted:
		return PlainText(d.Content)
	case Placeholder:
		if d.Key == UsedInPackages {
			return usedIn(paths, func(s string) string { return s })
		}
	}
	return ""
}

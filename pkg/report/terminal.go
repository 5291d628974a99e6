package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// WriteTerminal writes r for a terminal. Texts are written as posted, so
// the run should render them with a terminal renderer.
func WriteTerminal(w io.Writer, r Report) error {
	var b strings.Builder
	writeLines(&b, r.Failures, failStyle.Render("✗ fail"))
	writeLines(&b, r.Warnings, warnStyle.Render("! warn"))
	writeLines(&b, r.Messages, messageStyle.Render("✓ note"))
	if len(r.Markdown) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render("Dependencies"))
		b.WriteString("\n\n")
		for _, md := range r.Markdown {
			b.WriteString(strings.TrimRight(md, "\n"))
			b.WriteString("\n\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeLines(b *strings.Builder, rows []string, prefix string) {
	pad := strings.Repeat(" ", lipgloss.Width(prefix)+1)
	for _, row := range rows {
		lines := strings.Split(strings.TrimSpace(row), "\n")
		b.WriteString(prefix + " " + lines[0] + "\n")
		for _, l := range lines[1:] {
			b.WriteString(pad + l + "\n")
		}
	}
}

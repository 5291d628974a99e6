package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes r as a review comment: failures, warnings and
// messages each in a two-column table headed by its count, followed by the
// markdown bodies separated by blank lines.
func WriteMarkdown(w io.Writer, r Report) error {
	var b strings.Builder
	writeSection(&b, r.Failures, "Fail", "Fails", ":no_entry_sign:")
	writeSection(&b, r.Warnings, "Warning", "Warnings", ":warning:")
	writeSection(&b, r.Messages, "Message", "Messages", ":book:")
	for _, md := range r.Markdown {
		b.WriteString(strings.TrimSpace(md))
		b.WriteString("\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, rows []string, one, many, emoji string) {
	if len(rows) == 0 {
		return
	}
	title := many
	if len(rows) == 1 {
		title = one
	}
	fmt.Fprintf(b, "<table>\n  <thead><tr><th></th><th width=\"100%%\">%d %s</th></tr></thead>\n  <tbody>\n", len(rows), title)
	for _, row := range rows {
		fmt.Fprintf(b, "    <tr><td>%s</td><td>%s</td></tr>\n", emoji, row)
	}
	b.WriteString("  </tbody>\n</table>\n\n")
}

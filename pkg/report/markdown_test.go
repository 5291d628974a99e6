package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdown(t *testing.T) {
	r := Report{
		Warnings: []string{"one", "two"},
		Failures: []string{"bad"},
		Markdown: []string{"\nNew dependencies added: x.\n", "<table>\n</table>\n"},
	}
	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, r))

	want := `<table>
  <thead><tr><th></th><th width="100%">1 Fail</th></tr></thead>
  <tbody>
    <tr><td>:no_entry_sign:</td><td>bad</td></tr>
  </tbody>
</table>

<table>
  <thead><tr><th></th><th width="100%">2 Warnings</th></tr></thead>
  <tbody>
    <tr><td>:warning:</td><td>one</td></tr>
    <tr><td>:warning:</td><td>two</td></tr>
  </tbody>
</table>

New dependencies added: x.

<table>
</table>

`
	assert.Equal(t, want, b.String())
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteMarkdown(&b, Report{}))
	assert.Empty(t, b.String())
}

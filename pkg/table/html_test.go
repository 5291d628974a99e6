package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleModel() Model {
	return NewBuilder().
		Row(Formatted{Content: "<h2>left-pad</h2>"}, Placeholder{Key: UsedInPackages}).
		Row(LabelValue{Name: "Author", Message: "azer"}, LabelValue{Name: "Description", Message: "String left pad"}).
		Row(LabelValue{Name: "Keywords", Message: "pad, string", Colspan: 2}).
		Readme(NewReadme("# left-pad")).
		Build()
}

func TestHTMLRender(t *testing.T) {
	got := HTML{}.Render([]string{"packages/web/package.json", "package.json"}, sampleModel())

	want := `<table>
  <tr><td><h2>left-pad</h2></td><td>Used in: 'package.json', 'packages/web/package.json'</td></tr>
  <tr><td><b>Author</b>: azer</td><td><b>Description</b>: String left pad</td></tr>
  <tr><td colspan="2"><b>Keywords</b>: pad, string</td></tr>
</table>

<details>
<summary><code>README</code></summary></br>

# left-pad

</details>
`
	assert.Equal(t, want, got)
}

func TestHTMLRenderIdempotent(t *testing.T) {
	paths := []string{"b/package.json", "a/package.json"}
	m := sampleModel()

	first := HTML{}.Render(paths, m)
	second := HTML{}.Render(paths, m)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"b/package.json", "a/package.json"}, paths, "paths must not be reordered in place")
}

func TestHTMLRenderReadmeVariants(t *testing.T) {
	tooLong := Model{Deets: []Deet{Formatted{Content: "x"}}, Readme: Readme{TooLong: true}}
	assert.Equal(t, "<table>\n  <tr><td>x</td></tr>\n</table>\n"+TooLongNotice+"\n", HTML{}.Render(nil, tooLong))

	none := Model{Deets: []Deet{Formatted{Content: "x"}}}
	assert.Equal(t, "<table>\n  <tr><td>x</td></tr>\n</table>\n", HTML{}.Render(nil, none))
}

func TestHTMLRenderPlaceholders(t *testing.T) {
	m := Model{Deets: []Deet{
		Placeholder{Key: "unknown"},
		Placeholder{Key: UsedInPackages, Colspan: 2},
	}}
	got := HTML{}.Render([]string{"<odd>/package.json"}, m)
	assert.Equal(t, "<table>\n  <tr><td></td><td colspan=\"2\">Used in: '&lt;odd&gt;/package.json'</td></tr>\n</table>\n", got)
}

func TestHTMLRenderColspanOne(t *testing.T) {
	m := Model{Deets: []Deet{LabelValue{Name: "Releases", Message: "12", Colspan: 1}}}
	assert.Equal(t, "<table>\n  <tr><td><b>Releases</b>: 12</td></tr>\n</table>\n", HTML{}.Render(nil, m))
}

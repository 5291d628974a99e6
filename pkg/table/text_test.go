package table

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"  spaced   out ", "spaced out"},
		{"<b>NO LICENSE FOUND</b>", "NO LICENSE FOUND"},
		{"&#64;types/node", "@types/node"},
		{`<a href="https://www.npmjs.com/package/a"><code>a</code></a>,<wbr> <a href="#"><code>b</code></a>`, "a, b"},
		{"one<br/>two", "one\ntwo"},
		{"a &amp; b", "a & b"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFragment(t *testing.T) {
	in := "Changes were made to package.json, but not to yarn.lock.<br/><i>Perhaps you need to run `yarn install`?</i>"
	if got := (HTML{}).Fragment(in); got != in {
		t.Errorf("HTML.Fragment changed its input: %q", got)
	}
	want := "Changes were made to package.json, but not to yarn.lock.\nPerhaps you need to run `yarn install`?"
	if got := (Terminal{}).Fragment(in); got != want {
		t.Errorf("Terminal.Fragment() = %q, want %q", got, want)
	}
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/depreport/pkg/diff"
	"github.com/matzehuels/depreport/pkg/report"
)

func TestCheckRelease(t *testing.T) {
	tests := []struct {
		name   string
		change *diff.ValueChange
		want   bool
	}{
		{"bump", &diff.ValueChange{Before: "1.2.3", After: "1.3.0"}, true},
		{"prerelease to release", &diff.ValueChange{Before: "2.0.0-beta.1", After: "2.0.0"}, true},
		{"same", &diff.ValueChange{Before: "1.0.0", After: "1.0.0"}, false},
		{"downgrade", &diff.ValueChange{Before: "2.0.0", After: "1.9.9"}, false},
		{"new manifest", &diff.ValueChange{Before: "", After: "1.0.0"}, false},
		{"removed", &diff.ValueChange{Before: "1.0.0", After: ""}, false},
		{"unparsable", &diff.ValueChange{Before: "latest", After: "1.0.0"}, false},
		{"no change", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c report.Collector
			got := CheckRelease(&c, &diff.PackageDiff{Version: tt.change})
			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.Equal(t, []string{ReleaseMessage}, c.Report().Messages)
			} else {
				assert.True(t, c.Report().Empty())
			}
		})
	}
}

func TestCheckLockfile(t *testing.T) {
	changed := &diff.PackageDiff{DevDependencies: &diff.KeyedChange{Changed: []string{"jest"}}}

	var c report.Collector
	assert.True(t, CheckLockfile(&c, changed, "web/package.json", []string{"web/package.json", "yarn.lock"}, "yarn.lock"))
	assert.Equal(t, []string{
		"Changes were made to web/package.json, but not to web/yarn.lock.<br/><i>Perhaps you need to run `yarn install`?</i>",
	}, c.Report().Warnings)

	c = report.Collector{}
	assert.False(t, CheckLockfile(&c, changed, "web/package.json", []string{"web/package.json", "web/yarn.lock"}, "yarn.lock"))
	assert.False(t, CheckLockfile(&c, &diff.PackageDiff{Version: &diff.ValueChange{Before: "1", After: "2"}}, "package.json", nil, "yarn.lock"))
	assert.True(t, c.Report().Empty())

	c = report.Collector{}
	CheckLockfile(&c, changed, "package.json", nil, "package-lock.json")
	assert.Contains(t, c.Report().Warnings[0], "but not to package-lock.json.")
	assert.Contains(t, c.Report().Warnings[0], "`npm install`")
}

func TestCheckTypesInDeps(t *testing.T) {
	var c report.Collector
	d := &diff.PackageDiff{
		Dependencies:    &diff.KeyedChange{Added: []string{"@types/node", "react", "@types/react"}},
		DevDependencies: &diff.KeyedChange{Added: []string{"@types/jest"}},
	}
	assert.True(t, CheckTypesInDeps(&c, d, "package.json"))
	assert.Equal(t, []string{
		`@types dependencies were added to package.json, as a dependency for others.<br/>` +
			`<i>You need to move &#64;types/node and &#64;types/react into "devDependencies"?</i>`,
	}, c.Report().Failures)

	c = report.Collector{}
	assert.False(t, CheckTypesInDeps(&c, &diff.PackageDiff{DevDependencies: d.DevDependencies}, "package.json"))
	assert.False(t, CheckTypesInDeps(&c, nil, "package.json"))
	assert.True(t, c.Report().Empty())
}

func TestFindNewDependencies(t *testing.T) {
	d := &diff.PackageDiff{
		Dependencies:    &diff.KeyedChange{Added: []string{"react"}, Removed: []string{"vue"}},
		DevDependencies: &diff.KeyedChange{Added: []string{"vite"}},
	}
	assert.Equal(t, []string{"react", "vite"}, FindNewDependencies(d))
	assert.Nil(t, FindNewDependencies(&diff.PackageDiff{}))
	assert.Nil(t, FindNewDependencies(nil))
}

func TestNewDependenciesMarkdown(t *testing.T) {
	assert.Equal(t,
		"New dependencies added: <a href='https://www.npmjs.com/package/react'><code>react</code></a>.",
		NewDependenciesMarkdown("", []string{"react"}))
	assert.Equal(t,
		"New dependencies added to <code>web/package.json</code>: "+
			"<a href='https://www.npmjs.com/package/a'><code>a</code></a> and "+
			"<a href='https://www.npmjs.com/package/b'><code>b</code></a>.",
		NewDependenciesMarkdown("web/package.json", []string{"a", "b"}))
}

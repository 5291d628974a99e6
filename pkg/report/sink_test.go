package report

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorKeepsOrderPerChannel(t *testing.T) {
	var c Collector
	c.Warn("first")
	c.Markdown("body")
	c.Warn("second")
	c.Message("yay")

	r := c.Report()
	assert.Equal(t, []string{"first", "second"}, r.Warnings)
	assert.Equal(t, []string{"body"}, r.Markdown)
	assert.Equal(t, []string{"yay"}, r.Messages)
	assert.False(t, c.Failed())

	c.Fail("nope")
	assert.True(t, c.Failed())
	assert.Empty(t, r.Failures, "earlier snapshot is not affected")
}

func TestCollectorConcurrent(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Markdown(fmt.Sprint(i))
		}()
	}
	wg.Wait()
	assert.Len(t, c.Report().Markdown, 50)
}

func TestReportEmpty(t *testing.T) {
	assert.True(t, Report{}.Empty())
	assert.False(t, Report{Warnings: []string{"w"}}.Empty())
}

package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrCreateExactlyOnce(t *testing.T) {
	c := NewDedupCache()
	ctx := context.Background()

	var created atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := c.GetOrCreate(ctx, "react"); ok {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, 1, c.Len())
}

func TestEntryPaths(t *testing.T) {
	_, e := NewDedupCache().GetOrCreate(context.Background(), "react")
	e.AddPath("web/package.json")
	e.AddPath("package.json")
	e.AddPath("web/package.json")

	assert.Equal(t, []string{"package.json", "web/package.json"}, e.Paths())
}

func TestEntriesSorted(t *testing.T) {
	c := NewDedupCache()
	ctx := context.Background()
	for _, n := range []string{"zod", "@types/node", "axios"} {
		c.GetOrCreate(ctx, n)
	}
	var names []string
	for _, e := range c.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"@types/node", "axios", "zod"}, names)
}

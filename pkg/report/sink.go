package report

import (
	"slices"
	"sync"
)

// Sink receives the output of a report run on four channels. Calls on one
// channel keep their order; there is no ordering between channels.
type Sink interface {
	// Message posts a celebratory notice.
	Message(text string)

	// Warn posts a non-blocking warning.
	Warn(text string)

	// Fail posts a blocking failure.
	Fail(text string)

	// Markdown posts a long-form body.
	Markdown(text string)
}

// Report is everything posted to a [Collector].
type Report struct {
	Messages []string `json:"messages,omitempty" bson:"messages,omitempty"`
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Failures []string `json:"failures,omitempty" bson:"failures,omitempty"`
	Markdown []string `json:"markdown,omitempty" bson:"markdown,omitempty"`
}

// Empty reports whether nothing was posted.
func (r Report) Empty() bool {
	return len(r.Messages)+len(r.Warnings)+len(r.Failures)+len(r.Markdown) == 0
}

// Collector is a [Sink] that keeps everything in memory. It is safe for
// concurrent use.
type Collector struct {
	mu     sync.Mutex
	report Report
}

func (c *Collector) Message(text string)  { c.add(&c.report.Messages, text) }
func (c *Collector) Warn(text string)     { c.add(&c.report.Warnings, text) }
func (c *Collector) Fail(text string)     { c.add(&c.report.Failures, text) }
func (c *Collector) Markdown(text string) { c.add(&c.report.Markdown, text) }

func (c *Collector) add(ch *[]string, text string) {
	c.mu.Lock()
	*ch = append(*ch, text)
	c.mu.Unlock()
}

// Report returns a copy of what has been collected so far.
func (c *Collector) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Report{
		Messages: slices.Clone(c.report.Messages),
		Warnings: slices.Clone(c.report.Warnings),
		Failures: slices.Clone(c.report.Failures),
		Markdown: slices.Clone(c.report.Markdown),
	}
}

// Failed reports whether a failure was posted.
func (c *Collector) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.report.Failures) > 0
}

var _ Sink = (*Collector)(nil)

package yarn

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"strings"

	"github.com/matzehuels/depreport/internal/command"
	"github.com/matzehuels/depreport/pkg/errors"
	"github.com/matzehuels/depreport/pkg/metadata"
)

// Client runs the yarn CLI in a project directory.
type Client struct {
	// Dir is the project directory. Empty means the working directory.
	Dir string

	// Bin is the yarn executable. Defaults to "yarn".
	Bin string

	// Runner executes commands. Defaults to [command.Exec].
	Runner command.Runner
}

// NewClient creates a client for the project in dir.
func NewClient(dir string) *Client {
	return &Client{Dir: dir}
}

// ConfigList returns the output of `yarn config list --json`.
func (c *Client) ConfigList(ctx context.Context) ([]byte, error) {
	out, err := c.run(ctx, "config", "list", "--json")
	if err != nil && len(bytes.TrimSpace(out)) == 0 {
		return nil, err
	}
	return out, nil
}

// Why returns the explanation lines yarn gives for why dep is installed.
func (c *Client) Why(ctx context.Context, dep string) ([]string, error) {
	if err := errors.ValidateNpmPackageName(dep); err != nil {
		return nil, err
	}
	if strings.HasPrefix(dep, "-") {
		return nil, errors.New(errors.ErrCodeInvalidPackage, "package name cannot start with '-': %q", dep)
	}
	out, err := c.run(ctx, "why", dep, "--json")
	lines := ParseWhy(out)
	if len(lines) == 0 {
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeProvenanceUnavailable, err, "yarn why %s", dep)
		}
		return nil, errors.New(errors.ErrCodeProvenanceUnavailable, "yarn why %s printed nothing", dep)
	}
	return lines, nil
}

// Explain renders the output of [Client.Why] as a collapsible HTML block.
func (c *Client) Explain(ctx context.Context, dep string) (string, error) {
	lines, err := c.Why(ctx, dep)
	if err != nil {
		return "", err
	}
	return RenderWhy(dep, lines), nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := c.Bin
	if bin == "" {
		bin = "yarn"
	}
	runner := c.Runner
	if runner == nil {
		runner = command.Exec{}
	}
	return runner.Run(ctx, c.Dir, bin, args...)
}

type whyEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseWhy extracts the messages of a `yarn why --json` stream. Only
// messages after the last activityEnd event of activity 0 are kept; the
// ones before it are progress noise. Lines that are not JSON are skipped.
func ParseWhy(out []byte) []string {
	var lines []string
	for _, raw := range bytes.Split(out, []byte("\n")) {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		var ev whyEvent
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if ev.Type == "activityEnd" {
			var data struct {
				ID *int `json:"id"`
			}
			if json.Unmarshal(ev.Data, &data) == nil && data.ID != nil && *data.ID == 0 {
				lines = lines[:0]
			}
			continue
		}
		var msg string
		if json.Unmarshal(ev.Data, &msg) == nil {
			lines = append(lines, msg)
		}
	}
	return lines
}

// RenderWhy formats explanation lines as a <details> block.
func RenderWhy(dep string, lines []string) string {
	escaped := make([]string, len(lines))
	for i, l := range lines {
		escaped[i] = html.EscapeString(l)
	}
	var b strings.Builder
	b.WriteString("\n<details>\n")
	b.WriteString("  <summary><code>yarn why " + metadata.PrintDep(dep) + "</code> output</summary>\n")
	b.WriteString("  <ul><li><code>" + strings.Join(escaped, "</code></li><li><code>") + "</code></li></ul>\n")
	b.WriteString("</details>\n")
	return b.String()
}

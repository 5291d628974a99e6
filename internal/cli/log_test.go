package cli

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		verbose bool
		wantLog bool
	}{
		{"info", LogInfo, false, false},
		{"verbose", LogInfo, true, true},
		{"debug", LogDebug, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, tt.level)
			if tt.verbose {
				c.SetLogLevel(LogDebug)
			}
			c.Logger.Debug("fetching packument", "package", "react")

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("debug output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.done("Checked 2 manifests, 3 new dependencies")

	re := regexp.MustCompile(`Checked 2 manifests, 3 new dependencies \(\d+(\.\d+)?m?s\)`)
	if !re.Match(buf.Bytes()) {
		t.Errorf("progress output = %q", buf.String())
	}
}

package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()

	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Error("log levels are not ordered by severity")
	}
}

func TestOutputIncludesLevelPrefix(t *testing.T) {
	orig := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	Error("something broke: %s", "disk")

	out := buf.String()
	if !strings.Contains(out, "[ERROR]") {
		t.Errorf("output %q missing [ERROR] prefix", out)
	}
	if !strings.Contains(out, "something broke: disk") {
		t.Errorf("output %q missing formatted message", out)
	}
}

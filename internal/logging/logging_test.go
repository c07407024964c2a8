package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestVerbosityGatesOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetVerbosity(0) })

	SetVerbosity(0)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info must be suppressed at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown 2") {
		t.Fatalf("warn must be printed: %q", buf.String())
	}

	buf.Reset()
	SetVerbosity(2)
	Debugf("debug line")
	Tracef("trace line")
	if !strings.Contains(buf.String(), "debug line") || strings.Contains(buf.String(), "trace line") {
		t.Fatalf("unexpected output at debug level: %q", buf.String())
	}
	if LevelName() != "debug" || Verbosity() != 2 {
		t.Fatalf("level bookkeeping mismatch: %s x%d", LevelName(), Verbosity())
	}
}

func TestSetVerbosityClamps(t *testing.T) {
	t.Cleanup(func() { SetVerbosity(0) })
	SetVerbosity(9)
	if Verbosity() != 4 || LevelName() != "trace" {
		t.Fatalf("expected clamp to trace, got %s x%d", LevelName(), Verbosity())
	}
	SetVerbosity(-3)
	if Verbosity() != 0 || LevelName() != "warn" {
		t.Fatalf("expected clamp to warn, got %s x%d", LevelName(), Verbosity())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level Level
		count int
	}{
		{"error", LevelError, 0},
		{"WARNING", LevelWarn, 0},
		{"info", LevelInfo, 1},
		{"debug", LevelDebug, 2},
		{"trace", LevelTrace, 4},
	}
	for _, tc := range tests {
		l, c, err := ParseLevel(tc.in)
		if err != nil || l != tc.level || c != tc.count {
			t.Fatalf("ParseLevel(%q) = %v,%d,%v", tc.in, l, c, err)
		}
	}
	if _, _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

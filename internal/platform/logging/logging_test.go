package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]log.Lvl{
		"debug":   log.DEBUG,
		" WARN ":  log.WARN,
		"error":   log.ERROR,
		"off":     log.OFF,
		"info":    log.INFO,
		"unknown": log.INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New("feedback", "warn", &buf)

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"prefix":"feedback"`) {
		t.Fatalf("expected warn line with prefix, got %s", out)
	}
}

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "url", "http://radio.example/")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "url=http://radio.example/") {
		t.Errorf("warn entry missing:\n%s", out)
	}
}

func TestWith_AddsPrefix(t *testing.T) {
	var buf bytes.Buffer
	With(New(&buf, "info"), "stream").Info("connected")

	if !strings.Contains(buf.String(), "stream") {
		t.Errorf("prefix missing:\n%s", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "airwaves.log")

	l, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	l.Info("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "started") {
		t.Errorf("log file = %q, want entry", data)
	}
}

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "DEBUG", want: zapcore.DebugLevel},
		{in: "10", want: zapcore.DebugLevel},
		{in: "info", want: zapcore.InfoLevel},
		{in: "20", want: zapcore.InfoLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: "30", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "40", want: zapcore.ErrorLevel},
		{in: "critical", want: zapcore.DPanicLevel},
		{in: "50", want: zapcore.DPanicLevel},
		{in: " Warn ", want: zapcore.WarnLevel},
		{in: "verbose", wantErr: true},
		{in: "15", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLevel(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	c, err := New("debug", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Info("hello from test")
	c.Critical("something dire")
	c.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "hello from test") {
		t.Errorf("log file missing info message: %q", out)
	}
	if !strings.Contains(out, "CRITICAL") {
		t.Errorf("critical entry should render as CRITICAL: %q", out)
	}
	if strings.Contains(out, "DPANIC") {
		t.Errorf("DPANIC label leaked into output: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	c, err := New("error", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.Debug("quiet")
	c.Warn("also quiet")
	c.Error("loud")
	c.Sync()

	data, _ := os.ReadFile(path)
	out := string(data)
	if strings.Contains(out, "quiet") {
		t.Errorf("messages below level were logged: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("error message missing: %q", out)
	}
}

func TestSetLevelIdempotent(t *testing.T) {
	c, err := New("warn", filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel(same) error = %v", err)
	}
	if c.Level() != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", c.Level())
	}

	if err := c.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error = %v", err)
	}
	if c.Level() != zapcore.DebugLevel {
		t.Errorf("level = %v, want debug after switch", c.Level())
	}

	if err := c.SetLevel("chatty"); err == nil {
		t.Error("SetLevel with unknown name should fail")
	}
}

func TestSetDestinationConsoleToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "switched.log")

	c, err := New("info", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.SetDestination(path); err != nil {
		t.Fatalf("SetDestination(file) error = %v", err)
	}
	if c.Destination() != path {
		t.Errorf("Destination() = %q, want %q", c.Destination(), path)
	}

	c.Info("after switch")
	c.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading switched log: %v", err)
	}
	if !strings.Contains(string(data), "after switch") {
		t.Errorf("message missing after destination switch: %q", data)
	}

	// Re-applying the same destination is a no-op.
	if err := c.SetDestination(path); err != nil {
		t.Errorf("SetDestination(same) error = %v", err)
	}
}

func TestSetDestinationFileToConsoleUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	c, err := New("info", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.SetDestination(""); err == nil {
		t.Fatal("switching from file to console should fail")
	}
	if c.Destination() != path {
		t.Errorf("destination changed after failed switch: %q", c.Destination())
	}
}

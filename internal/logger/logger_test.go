package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"info", levelPtr(zapcore.InfoLevel)},
		{"warn", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"verbose", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseLevel(tt.in)
		if (got == nil) != (tt.want == nil) {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pagemark.log")

	log, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	log.Info("capture finished", zap.String("url", "https://example.com"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "capture finished") {
		t.Errorf("expected message in log file, got %q", string(data))
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagemark.log")

	log, err := New(Options{Level: "error", File: path})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	log.Info("should be dropped")
	_ = log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "should be dropped") {
		t.Error("info message should not be written at error level")
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }

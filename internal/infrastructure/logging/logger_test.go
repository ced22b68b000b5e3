package logging

import (
	"log/slog"
	"testing"

	"github.com/nerrad567/litesync/internal/infrastructure/config"
)

// TestParseLevel verifies string-to-level conversion.
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestNew verifies logger construction with different configs.
func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		logger := New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "1.0")
		if logger == nil || logger.Logger == nil {
			t.Fatal("New() returned nil logger")
		}
	})

	t.Run("text format", func(t *testing.T) {
		logger := New(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}, "1.0")
		if logger == nil || logger.Logger == nil {
			t.Fatal("New() returned nil logger")
		}
	})
}

// TestWith verifies attribute chaining returns a distinct logger.
func TestWith(t *testing.T) {
	base := Default()
	child := base.With("component", "schema")

	if child == nil || child.Logger == nil {
		t.Fatal("With() returned nil logger")
	}
	if child == base {
		t.Error("With() should return a new logger")
	}
}

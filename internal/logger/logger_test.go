package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Rana718/thesisgen/internal/config"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json", ""} {
		log, err := New(config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format %q: unexpected error %v", format, err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("format %q: expected debug level to be enabled", format)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

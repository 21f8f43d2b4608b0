package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
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
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got != nil && *got != *tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := wrap(zap.New(core)).With(String("component", "synchronizer"))

	log.Debug("hidden")
	log.Warn("refresh failed", Error(errors.New("boom")), Int("entries", 3), Bool("retry", true))

	if logs.Len() != 1 {
		t.Fatalf("entries = %d, want 1", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if fields["component"] != "synchronizer" {
		t.Errorf("component = %v", fields["component"])
	}
	if fields["error"] != "boom" {
		t.Errorf("error = %v", fields["error"])
	}
	if fields["entries"] != int64(3) {
		t.Errorf("entries = %v (%T)", fields["entries"], fields["entries"])
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("dropped")
	log.Infof("dropped %d", 1)
	if err := log.Sync(); err != nil {
		t.Errorf("Sync: %v", err)
	}
}

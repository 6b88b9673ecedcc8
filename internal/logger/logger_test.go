package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": DebugLevel,
		"INFO":  InfoLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
		"bogus": InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	Use(zap.New(core))
	t.Cleanup(func() { defaultLogger = zap.NewNop().Sugar() })

	Debug("dropped %d", 1)
	Info("dropped %d", 2)
	Warn("kept %d", 3)
	Error("kept %d", 4)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "kept 3" || entries[1].Message != "kept 4" {
		t.Errorf("unexpected messages: %q, %q", entries[0].Message, entries[1].Message)
	}
}

func TestInitFormats(t *testing.T) {
	t.Cleanup(func() { defaultLogger = zap.NewNop().Sugar() })
	for _, format := range []string{"json", "text"} {
		Init("debug", format)
		if defaultLogger == nil {
			t.Fatalf("Init(%q) left logger nil", format)
		}
		Debug("format %s", format)
	}
}

package logger

import (
	"testing"

	"github.com/samvad-hq/samvad-board-client/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	t.Cleanup(func() { S = nil })

	log, err := Init(&config.Config{AppName: "test", Env: "test", LogLevel: "error"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if log == nil || S == nil {
		t.Fatalf("expected logger to be initialized")
	}
	log.DebugObj("dropped", "k", 1)
	InfoObj("dropped", "k", 1)
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("m", "k", nil)
	WarnObj("m", "k", nil)
	if err := Close(); err != nil {
		t.Fatalf("Close before Init: %v", err)
	}
	var l Logger = NopLogger{}
	l.ErrorObj("m", "k", nil)
}

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerEvents(t *testing.T) {
	original := Logger
	defer func() { Logger = original }()

	var buf bytes.Buffer
	Logger = zerolog.New(&buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()

	Info().Str("host", "192.0.2.1").Msg("probe ok")
	Warn().Msg("probe failed")
	Debug().Msg("cycle complete")

	output := buf.String()
	for _, want := range []string{"probe ok", "192.0.2.1", "probe failed", "cycle complete", "info", "warn", "debug"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected log output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestSetDebugMode(t *testing.T) {
	original := Logger
	defer func() { Logger = original }()

	SetDebugMode()
	if Logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", Logger.GetLevel())
	}
}

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLoggerLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetupLogger(tt.verbosity)
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("SetupLogger(%d) global level = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestGetLogger(t *testing.T) {
	SetupLogger(0)
	logger := GetLogger("dispatch")
	// Must be usable without further configuration
	logger.Debug().Msg("check")
}

func TestLogCommand(t *testing.T) {
	var buf bytes.Buffer
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	LogCommand("javac", []string{"-d", "out"})

	out := buf.String()
	if !strings.Contains(out, "javac") || !strings.Contains(out, "out") {
		t.Errorf("LogCommand output = %q, want command and args", out)
	}
}

func TestLogOperationStart(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	finish := LogOperationStart(logger, "compile")
	finish()

	out := buf.String()
	if !strings.Contains(out, "Operation started") || !strings.Contains(out, "Operation completed") {
		t.Errorf("LogOperationStart output = %q, want start and completion events", out)
	}
}

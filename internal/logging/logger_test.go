package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/snipsync/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(testCase.level)
			if logger.GetLevel() != testCase.expected {
				t.Errorf("expected level %v, got %v", testCase.expected, logger.GetLevel())
			}
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info", "json")
	logger.Info("spliced", logging.FieldDocument, "main.go")

	out := buf.String()
	if !strings.Contains(out, `"document":"main.go"`) {
		t.Errorf("expected JSON field in output, got %q", out)
	}
}

func TestSetDefault(t *testing.T) {
	// Not parallel because it modifies global state.

	original := logging.Default()
	defer logging.SetDefault(original)

	newLogger := logging.New("error")
	logging.SetDefault(newLogger)

	if logging.Default() != newLogger {
		t.Error("SetDefault did not change the default logger")
	}

	logging.SetLevel("debug")
	if newLogger.GetLevel() != log.DebugLevel {
		t.Error("SetLevel to debug failed")
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	if logging.FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil for empty context")
	}

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug", "logfmt")
	ctx := logging.WithLogger(context.Background(), logger)
	ctx = logging.With(ctx, logging.FieldDocument, "a.go")

	logging.FromContext(ctx).Debug("resolved")

	if !strings.Contains(buf.String(), "document=a.go") {
		t.Errorf("expected contextual field, got %q", buf.String())
	}
}

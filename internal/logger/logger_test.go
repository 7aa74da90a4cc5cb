package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New(false)
	if log.GetLevel() != zerolog.WarnLevel {
		t.Errorf("Expected warn level by default, got %s", log.GetLevel())
	}

	log = New(true)
	if log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level with debug enabled, got %s", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	output := buf.String()
	if output == "" {
		t.Error("Expected log output, got empty string")
	}
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
}

func TestWithContext(t *testing.T) {
	log := New(false)
	ctx := WithContext(context.Background(), log)

	if ctx.Value(LoggerKey) == nil {
		t.Error("Expected logger in context, got nil")
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf)
	ctx := WithContext(context.Background(), testLog)

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	// Should return a default logger when none is in context
	log := FromContext(context.Background())

	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}

func TestComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := Component(NewWithWriter(buf), "snapshot")

	log.Info().Msg("loaded")

	output := buf.String()
	if !strings.Contains(output, "component") || !strings.Contains(output, "snapshot") {
		t.Errorf("Expected output to carry the component field, got: %s", output)
	}
}

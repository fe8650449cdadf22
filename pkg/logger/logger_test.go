package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithUserID(ctx, uuid.New())

	log.Error(ctx, "boom", errors.New("boom"))

	for _, key := range []string{"\"request_id\"", "\"user_id\"", "\"stack\""} {
		if !bytes.Contains(buf.Bytes(), []byte(key)) {
			t.Fatalf("expected %s in entry=%s", key, buf.String())
		}
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})
	log.Warn(context.Background(), "quiet")
	if bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("did not expect stack when warn stack disabled")
	}

	buf.Reset()
	log = New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "loud")
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack when warn stack enabled")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: buf})
	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", lvl)
	}
}

func TestLoggerTagsServiceEnvAndOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Env: " Prod ", Output: buf})

	orderID := uuid.New()
	log.Info(log.WithOrder(context.Background(), orderID, 2, "57.98"), "checkout completed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v (%s)", err, buf.String())
	}
	want := map[string]any{
		"service":    "api",
		"env":        "prod",
		"order_id":   orderID.String(),
		"item_count": float64(2),
		"total":      "57.98",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("expected %s=%v, got %v", key, value, entry[key])
		}
	}
}

func TestLoggerOmitsEmptyEnv(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "migrate", Output: buf})
	log.Info(context.Background(), "hello")
	if bytes.Contains(buf.Bytes(), []byte("\"env\"")) {
		t.Fatalf("did not expect env field, got %s", buf.String())
	}
}

func TestLoggerWithErrorSkipsNil(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "outbox-publisher", Output: buf})

	ctx := context.Background()
	if got := log.WithError(ctx, nil); got != ctx {
		t.Fatalf("nil error should leave the context untouched")
	}
	log.Warn(log.WithError(ctx, errors.New("topic missing")), "outbox publish failed")
	if !bytes.Contains(buf.Bytes(), []byte("topic missing")) {
		t.Fatalf("expected error text in entry=%s", buf.String())
	}
}

func TestLoggerConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Format: FormatConsole, Output: buf})
	log.Info(context.Background(), "listening")
	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got %s", out)
	}
	if !strings.Contains(out, "listening") {
		t.Fatalf("expected message in console output, got %s", out)
	}
}

package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithOrderID(context.Background(), "order-123")
	ctx = log.WithComponent(ctx, "payment.usecase")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"order_id":"order-123"`)) {
		t.Fatalf("expected order_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"payment.usecase"`)) {
		t.Fatalf("expected component field; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := New(Options{ServiceName: "test", Output: buf})
		log.Warn(context.Background(), "warny")
		if bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
			t.Fatalf("did not expect stack; entry=%s", buf.String())
		}
	})

	t.Run("enabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := New(Options{ServiceName: "test", Output: buf, WarnStack: true})
		log.Warn(context.Background(), "warny")
		if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
			t.Fatalf("expected stack when warn stack enabled; entry=%s", buf.String())
		}
	})
}

func TestLoggerLevelFiltersInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: buf})
	log.Info(context.Background(), "quiet")
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

func TestNopDiscards(t *testing.T) {
	log := Nop()
	ctx := log.WithField(context.Background(), "k", "v")
	log.Info(ctx, "nothing")
	log.Error(ctx, "nothing", errors.New("x"))
}

func TestLoggerFieldsStayOnTheirContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "checkout", Output: buf})

	parent := log.WithFields(context.Background(), map[string]any{"offering_id": "go-101"})
	child := log.WithRequestID(parent, "req-9")

	log.Info(child, "child")
	if !bytes.Contains(buf.Bytes(), []byte(`"offering_id":"go-101"`)) || !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-9"`)) {
		t.Fatalf("expected inherited and own fields; entry=%s", buf.String())
	}

	buf.Reset()
	log.Info(parent, "parent")
	if bytes.Contains(buf.Bytes(), []byte(`"request_id"`)) {
		t.Fatalf("child fields must not leak to the parent context; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"service":"checkout"`)) {
		t.Fatalf("expected service field; entry=%s", buf.String())
	}
}

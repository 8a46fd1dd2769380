package logger

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"log/slog"
)

func newKVHandler(buf *bytes.Buffer) (*structuredHandler, *asyncWriter) {
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	return newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	}), aw
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newKVHandler(buf)
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	if len(tokens) < 6 {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatJSON,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(handler).With("component", "forward")
	LogEvent(ctx, log, slog.LevelError, "order.forward",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "SEND_FAIL"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"forward"`, `"event":"order.forward"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Fatalf("expected ts_unix_nano in JSON output, got %s", line)
	}
}

func TestStructuredHandlerLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newKVHandler(buf)

	log := slog.New(handler).With("component", "app")
	LogEvent(Background(), log, slog.LevelDebug, "should.be.dropped")
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := strings.TrimSpace(buf.String()); got != "" {
		t.Fatalf("expected no output below min level, got %s", got)
	}
}

func TestStructuredHandlerContextMeta(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newKVHandler(buf)
	ctx := WithUpdateMeta(Background(), 42, 7, 9)
	ctx = WithHandler(ctx, "order")

	log := slog.New(handler).With("component", "flow")
	LogEvent(ctx, log, slog.LevelInfo, "step.advance",
		slog.String("step", "await_quantity"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"update_id=42", "user_id=7", "chat_id=9", "handler=order", "step=await_quantity"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
}

func TestStructuredHandlerQuotesAndDurations(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newKVHandler(buf)

	log := slog.New(handler).With("component", "app")
	LogEvent(Background(), log, slog.LevelInfo, "handler.handled",
		slog.String("payload", "two words"),
		slog.Duration("duration", 1503*time.Millisecond),
		slog.Any("err", errors.New("boom")),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `payload="two words"`) {
		t.Fatalf("expected quoted payload in %s", line)
	}
	if !strings.Contains(line, "duration_ms=1503") {
		t.Fatalf("expected duration_ms in %s", line)
	}
	if !strings.Contains(line, "err=boom") {
		t.Fatalf("expected err in %s", line)
	}
}

func TestStructuredHandlerDropsEmptyFields(t *testing.T) {
	buf := &bytes.Buffer{}
	handler, aw := newKVHandler(buf)

	log := slog.New(handler).With("component", "app")
	LogEvent(Background(), log, slog.LevelInfo, "test.event",
		slog.String("cause", ""),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "cause=") {
		t.Fatalf("empty field should be pruned, got %s", line)
	}
}

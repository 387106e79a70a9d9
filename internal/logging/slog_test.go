package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func captureLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_AllLevels(t *testing.T) {
	log, buf := captureLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "starting", "step", 1)
	log.Info(ctx, "listening", "addr", ":8080")
	log.Warn(ctx, "slow query", "ms", 250)
	log.Error(ctx, "store failed", "table", "entries")

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=starting", "step=1",
		"level=INFO", "msg=listening", "addr=:8080",
		"level=WARN", `msg="slow query"`, "ms=250",
		"level=ERROR", `msg="store failed"`, "table=entries",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogLogger_WithCarriesAttributes(t *testing.T) {
	log, buf := captureLogger(t)

	child := log.With("request_id", "r-42")
	child.Info(context.Background(), "done", "status", 200)

	out := buf.String()
	for _, want := range []string{"request_id=r-42", "msg=done", "status=200"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

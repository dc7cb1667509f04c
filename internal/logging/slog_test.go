package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_WithAddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "cache").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "component=cache")
	assert.Contains(t, out, "k=v")
}

func TestSlogLogger_RequestIDFromContext(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := WithRequestID(context.Background(), "req-42")

	log.Info(ctx, "handled")

	assert.Contains(t, buf.String(), "request_id=req-42")
}

func TestRequestID_Absent(t *testing.T) {
	_, ok := RequestID(context.Background())
	assert.False(t, ok)
	_, ok = RequestID(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{BackendSlog, BackendZap, ""} {
		t.Run("backend "+backend, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(backend, "info", &buf)
			require.NoError(t, err)

			l.Debug(context.Background(), "hidden")
			l.With("svc", "profile").Info(WithRequestID(context.Background(), "r1"), "visible", "n", 1)
			if z, ok := l.(*ZapLogger); ok {
				_ = z.Sync()
			}

			out := buf.String()
			assert.False(t, strings.Contains(out, "hidden"))
			assert.Contains(t, out, `"visible"`)
			assert.Contains(t, out, `"svc":"profile"`)
			assert.Contains(t, out, `"request_id":"r1"`)
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("logrus", "info", &bytes.Buffer{})
	require.Error(t, err)

	_, err = New(BackendSlog, "loud", &bytes.Buffer{})
	require.Error(t, err)

	_, err = New(BackendZap, "loud", &bytes.Buffer{})
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "nothing")
	l.With("a", 1).Error(context.Background(), "still nothing")
}

// Package logging provides a slog handler that tees records into an
// in-memory buffer, so a pipeline run's log text can be attached to its run
// record when it completes.
package logging

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
)

// CaptureHandler duplicates every record to an inner handler and to an
// in-memory text buffer. Derived handlers from WithAttrs/WithGroup share the
// same buffer, so Logs returns everything logged through the family.
type CaptureHandler struct {
	inner   slog.Handler
	capture slog.Handler
	buf     *lockedBuffer
}

// NewCapture wraps inner with buffer capture. The buffer records at Debug
// level regardless of the inner handler's level, so the run record keeps the
// full trace even when console output is quieter.
func NewCapture(inner slog.Handler) *CaptureHandler {
	buf := &lockedBuffer{}
	return &CaptureHandler{
		inner: inner,
		capture: slog.NewTextHandler(buf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}),
		buf: buf,
	}
}

// Logs returns the captured log text so far.
func (h *CaptureHandler) Logs() string {
	return h.buf.String()
}

// Enabled reports whether either destination wants the level.
func (h *CaptureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || h.capture.Enabled(ctx, level)
}

// Handle forwards the record to the inner handler (when enabled) and always
// to the capture buffer.
func (h *CaptureHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.inner.Enabled(ctx, record.Level) {
		if err := h.inner.Handle(ctx, record); err != nil {
			return err
		}
	}
	return h.capture.Handle(ctx, record)
}

// WithAttrs returns a handler whose both destinations carry the attrs.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CaptureHandler{
		inner:   h.inner.WithAttrs(attrs),
		capture: h.capture.WithAttrs(attrs),
		buf:     h.buf,
	}
}

// WithGroup returns a handler whose both destinations carry the group.
func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	return &CaptureHandler{
		inner:   h.inner.WithGroup(name),
		capture: h.capture.WithGroup(name),
		buf:     h.buf,
	}
}

// lockedBuffer is a mutex-guarded bytes.Buffer. slog handlers may be used
// from multiple goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

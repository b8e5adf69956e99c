package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

const (
	initialBufferCapacity = 256

	// maxValueLength truncates long values such as runner stderr.
	maxValueLength = 512

	timeLayout = "2006-01-02T15:04:05-07:00"
)

// CustomHandler writes "<time> <LEVEL> msg key=value" lines.
// Clones made by WithAttrs and WithGroup share the writer and its lock.
type CustomHandler struct {
	out    *output
	level  slog.Leveler
	prefix string
	attrs  []byte
}

type output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewFileHandler creates a handler that appends to the specified file.
func NewFileHandler(path string, level Level) (*CustomHandler, error) {
	//nolint:gosec // path comes from config or the XDG state dir
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", path)
	}

	return NewWriterHandler(file, level), nil
}

// NewWriterHandler creates a handler that writes to w.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		out:   &output{w: w},
		level: level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes one record.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity)

	buf = r.Time.Local().AppendFormat(buf, timeLayout)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.prefix, a)

		return true
	})

	buf = append(buf, '\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	_, err := h.out.w.Write(buf)

	return err
}

// appendAttr writes " key=value", flattening nested groups into dotted keys.
func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, groupPrefix, ga)
		}

		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	var s string

	switch v.Kind() {
	case slog.KindDuration:
		s = v.Duration().String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case []byte:
			// Wire values are often image data; log their size only.
			return fmt.Appendf(buf, "<%d bytes>", len(x))
		case error:
			s = x.Error()
		default:
			s = v.String()
		}
	default:
		s = v.String()
	}

	if len(s) > maxValueLength {
		s = s[:maxValueLength] + "..."
	}

	if needsQuoting(s) {
		return strconv.AppendQuote(buf, s)
	}

	return append(buf, s...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	return strings.ContainsAny(s, " \t\r\n\"=")
}

// WithAttrs returns a handler that pre-renders attrs on every line.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	rendered := append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		rendered = appendAttr(rendered, h.prefix, a)
	}

	return &CustomHandler{
		out:    h.out,
		level:  h.level,
		prefix: h.prefix,
		attrs:  rendered,
	}
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &CustomHandler{
		out:    h.out,
		level:  h.level,
		prefix: h.prefix + name + ".",
		attrs:  h.attrs,
	}
}

// Close closes the underlying writer if it implements io.Closer.
func (h *CustomHandler) Close() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if closer, ok := h.out.w.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

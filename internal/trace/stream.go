package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer formats events onto a buffered writer. The buffer is flushed
// whenever a driver-scope event is written and on Flush or Close.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
	err    error
}

// NewStreamTracer creates a StreamTracer writing to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{out: w, buf: bufio.NewWriter(w), level: level, format: format}
}

// Emit writes ev if its scope is enabled. After the first write error the
// tracer goes quiet; Flush reports the error.
func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	if _, t.err = t.buf.Write(data); t.err == nil && ev.Scope == ScopeDriver {
		t.err = t.buf.Flush()
	}
}

// Flush writes buffered events and returns the first write error.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err == nil {
		t.err = t.buf.Flush()
	}
	return t.err
}

// Close flushes and closes the writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if closer, ok := t.out.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Level returns the configured level.
func (t *StreamTracer) Level() Level {
	return t.level
}

package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be safe for concurrent
// use since targets may run in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

// Enabled reports whether t records anything.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

type nopTracer struct{}

func (nopTracer) Emit(*Event) {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }

// Nop discards every event.
var Nop Tracer = nopTracer{}

// Config selects where and how much to trace.
type Config struct {
	Level Level
	// Format FormatAuto picks ndjson for *.ndjson paths and text otherwise.
	Format Format
	// Output takes precedence over OutputPath.
	Output io.Writer
	// OutputPath "" and "-" mean stderr.
	OutputPath string
}

// New returns Nop for LevelOff and a StreamTracer otherwise.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}
	w := cfg.Output
	if w == nil {
		switch cfg.OutputPath {
		case "", "-":
			w = stderrWriter{os.Stderr}
		default:
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

// stderrWriter hides os.Stderr's Close from StreamTracer.Close.
type stderrWriter struct{ io.Writer }

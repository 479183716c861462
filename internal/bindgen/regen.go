package bindgen

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"nxsdl/internal/trace"
)

// Generator regenerates binding files through a Translator.
type Generator struct {
	Translator Translator
}

// NewGenerator returns a Generator backed by t.
func NewGenerator(t Translator) *Generator {
	return &Generator{Translator: t}
}

// Result describes a written binding file.
type Result struct {
	Output  string
	Bytes   int
	Macros  RewriteStats
	Command []string
	Steps   StepTimings
}

// StepTimings holds how long each step of a regeneration took.
type StepTimings struct {
	Translate time.Duration
	Rewrite   time.Duration
	Write     time.Duration
}

// Regenerate removes opts.Output, translates opts.Header and writes the shim
// module followed by the translated declarations.
func (g *Generator) Regenerate(ctx context.Context, opts Options) (Result, error) {
	result := Result{Output: opts.Output}
	if g == nil || g.Translator == nil {
		return result, fmt.Errorf("missing translator")
	}
	if opts.Header == "" || opts.Output == "" {
		return result, fmt.Errorf("header and output paths are required")
	}

	if err := removeOutput(ctx, opts.Output); err != nil {
		return result, err
	}

	inv := Plan(opts)
	result.Command = inv.Args()

	tctx, span := trace.BeginIn(ctx, trace.ScopeStep, "translate")
	data, err := g.Translator.Translate(tctx, inv)
	if err != nil {
		result.Steps.Translate = span.Fail(err)
		if !errors.Is(err, ErrTranslate) {
			err = fmt.Errorf("%w: %v", ErrTranslate, err)
		}
		return result, err
	}
	result.Steps.Translate = span.WithInt("bytes", len(data)).End("")

	_, span = trace.BeginIn(ctx, trace.ScopeStep, "rewrite")
	data, result.Macros = ApplyMacroRules(data, inv.Rules)
	result.Steps.Rewrite = span.WithInt("seen", result.Macros.Seen).
		WithInt("rewritten", result.Macros.Rewritten).
		End("")

	_, span = trace.BeginIn(ctx, trace.ScopeStep, "write")
	n, err := writeOutput(opts.Output, data)
	result.Bytes = n
	if err != nil {
		result.Steps.Write = span.Fail(err)
		return result, err
	}
	result.Steps.Write = span.WithInt("bytes", n).End(opts.Output)
	return result, nil
}

// removeOutput deletes path, ignoring the removal error itself; the file
// being gone afterwards is what counts.
func removeOutput(ctx context.Context, path string) error {
	_ = os.Remove(path)
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		trace.PointIn(ctx, trace.ScopeStep, "remove", "stale output")
		return fmt.Errorf("%w: %s", ErrStaleOutput, path)
	}
	return nil
}

func writeOutput(path string, data []byte) (n int, err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %q: %w", path, closeErr)
		}
	}()
	w := bufio.NewWriter(f)
	shim := RenderShim()
	if _, err := w.WriteString(shim); err != nil {
		return 0, fmt.Errorf("failed to write %q: %w", path, err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write %q: %w", path, err)
	}
	return len(shim) + len(data), nil
}

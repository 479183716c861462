package bindgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Translator turns a header into declaration source.
type Translator interface {
	Translate(ctx context.Context, inv *Invocation) ([]byte, error)
}

// DefaultTranslatorPath is the bindgen CLI looked up on PATH.
const DefaultTranslatorPath = "bindgen"

// CLITranslator runs the bindgen command line tool and captures its stdout.
type CLITranslator struct {
	Path          string
	PrintCommands bool
	// CommandOutput receives echoed commands; os.Stdout when nil.
	CommandOutput io.Writer
}

func (t *CLITranslator) path() string {
	if t == nil || t.Path == "" {
		return DefaultTranslatorPath
	}
	return t.Path
}

// EnsureAvailable fails when the translator binary cannot be found.
func (t *CLITranslator) EnsureAvailable() error {
	if _, err := exec.LookPath(t.path()); err != nil {
		return fmt.Errorf("%s not found; install with: cargo install bindgen-cli", t.path())
	}
	return nil
}

// Version returns the first line of `bindgen --version`.
func (t *CLITranslator) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, t.path(), "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", t.path(), err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// Identity names the translator for incremental fingerprints: the path plus
// the reported version when the binary answers --version.
func (t *CLITranslator) Identity(ctx context.Context) string {
	id := t.path()
	if v, err := t.Version(ctx); err == nil && v != "" {
		id += " " + v
	}
	return id
}

// Translate implements Translator.
func (t *CLITranslator) Translate(ctx context.Context, inv *Invocation) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("%w: missing invocation", ErrTranslate)
	}
	name := t.path()
	args := inv.Args()
	if t != nil && t.PrintCommands {
		out := t.CommandOutput
		if out == nil {
			out = os.Stdout
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", name, strings.Join(args, " ")); err != nil {
			return nil, fmt.Errorf("failed to print command: %w", err)
		}
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrTranslate, name, msg)
	}
	return stdout.Bytes(), nil
}

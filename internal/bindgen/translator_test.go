package bindgen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unavailable on windows")
	}
	path := filepath.Join(t.TempDir(), "bindgen")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLITranslatorCapturesStdout(t *testing.T) {
	// argument count proves the full vector reached the tool
	script := writeScript(t, `echo "// $# args, header ${16}"`+"\n")
	var echoed bytes.Buffer
	tr := &CLITranslator{Path: script, PrintCommands: true, CommandOutput: &echoed}
	inv := Plan(Options{Header: "sdl2.h", Host: FlavorUnix})

	out, err := tr.Translate(context.Background(), inv)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "// 24 args, header sdl2.h\n"
	if string(out) != want {
		t.Fatalf("stdout = %q, want %q", out, want)
	}
	if !strings.HasPrefix(echoed.String(), script+" --distrust-clang-mangling") {
		t.Fatalf("command not echoed: %q", echoed.String())
	}
}

func TestCLITranslatorFailure(t *testing.T) {
	script := writeScript(t, "echo 'fatal error: SDL.h not found' >&2\nexit 1\n")
	tr := &CLITranslator{Path: script}
	_, err := tr.Translate(context.Background(), Plan(Options{Header: "sdl2.h"}))
	if !errors.Is(err, ErrTranslate) {
		t.Fatalf("want ErrTranslate, got %v", err)
	}
	if !strings.Contains(err.Error(), "SDL.h not found") {
		t.Errorf("stderr should be reported: %v", err)
	}
}

func TestCLITranslatorEnsureAvailable(t *testing.T) {
	tr := &CLITranslator{Path: filepath.Join(t.TempDir(), "no-such-bindgen")}
	if err := tr.EnsureAvailable(); err == nil {
		t.Fatal("expected error for missing translator")
	}
}

func TestCLITranslatorIdentity(t *testing.T) {
	script := writeScript(t, "echo 'bindgen 0.69.4'\necho 'extra'\n")
	tr := &CLITranslator{Path: script}
	v, err := tr.Version(context.Background())
	if err != nil || v != "bindgen 0.69.4" {
		t.Fatalf("Version = %q, %v", v, err)
	}
	if got := tr.Identity(context.Background()); got != script+" bindgen 0.69.4" {
		t.Fatalf("Identity = %q", got)
	}

	broken := &CLITranslator{Path: writeScript(t, "exit 3\n")}
	if got := broken.Identity(context.Background()); got != broken.Path {
		t.Fatalf("Identity without a version = %q, want the path", got)
	}
}

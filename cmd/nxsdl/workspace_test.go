package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"nxsdl/internal/pipeline"
)

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, defaultManifest)
	nested := filepath.Join(root, "src", "video")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	ws, err := resolveWorkspace([]string{nested})
	if err != nil {
		t.Fatalf("resolveWorkspace: %v", err)
	}
	want, _ := filepath.Abs(root)
	if ws.Root != want || ws.Manifest == nil {
		t.Fatalf("root = %q, want %q", ws.Root, want)
	}
}

func newFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "gen"}
	addFeatureFlags(cmd)
	return cmd
}

func TestResolveFeaturesPrecedence(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[features]\nimage = true\n")
	ws, err := resolveWorkspace([]string{root})
	if err != nil {
		t.Fatal(err)
	}

	cmd := newFeatureCmd()
	f, err := resolveFeatures(cmd, ws)
	if err != nil || f != (pipeline.Features{Image: true}) {
		t.Fatalf("manifest features = %+v, %v", f, err)
	}

	t.Setenv("CARGO_FEATURE_BINDGEN", "1")
	t.Setenv("CARGO_FEATURE_TTF", "1")
	cmd = newFeatureCmd()
	if err := cmd.Flags().Set("cargo-env", "true"); err != nil {
		t.Fatal(err)
	}
	f, err = resolveFeatures(cmd, ws)
	if err != nil || f != (pipeline.Features{Bindgen: true, TTF: true}) {
		t.Fatalf("cargo env features = %+v, %v", f, err)
	}

	if err := cmd.Flags().Set("features", "image"); err != nil {
		t.Fatal(err)
	}
	f, err = resolveFeatures(cmd, ws)
	if err != nil || f != (pipeline.Features{Image: true}) {
		t.Fatalf("--features = %+v, %v", f, err)
	}

	if err := cmd.Flags().Set("features", "bindgen,audio"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveFeatures(cmd, ws); err == nil {
		t.Fatal("expected error for unknown feature")
	}
}

func TestFormatPathForOutput(t *testing.T) {
	root := filepath.Join("work", "game")
	if got := formatPathForOutput(root, filepath.Join(root, "bindgen", "sdl2.rs")); got != "bindgen/sdl2.rs" {
		t.Errorf("inside root = %q", got)
	}
	outside := filepath.Join("work", "other.rs")
	if got := formatPathForOutput(root, outside); got != outside {
		t.Errorf("outside root = %q", got)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"nxsdl/internal/bindgen"
	"nxsdl/internal/pipeline"
)

// workspace is the resolved project a command operates on.
type workspace struct {
	Root     string
	Manifest *projectManifest
	Targets  []pipeline.Target
}

func resolveWorkspace(args []string) (*workspace, error) {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", base, err)
	}
	if !info.IsDir() {
		base = filepath.Dir(base)
	}
	manifest, ok, err := loadProjectManifest(base)
	if err != nil {
		return nil, err
	}
	if ok {
		return &workspace{
			Root:     manifest.Root,
			Manifest: manifest,
			Targets:  manifest.Config.targets(),
		}, nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		abs = base
	}
	return &workspace{Root: abs, Targets: pipeline.DefaultTargets()}, nil
}

// config returns the manifest config, or the zero config when there is no
// manifest.
func (w *workspace) config() projectConfig {
	if w == nil || w.Manifest == nil {
		return projectConfig{}
	}
	return w.Manifest.Config
}

// cargoFeatureEnv is how cargo exposes enabled features to build steps.
func cargoFeatureEnv(name string) string {
	return "CARGO_FEATURE_" + strings.ToUpper(name)
}

// resolveFeatures applies, in increasing priority: the manifest, the
// CARGO_FEATURE_* environment (with --cargo-env) and --features.
func resolveFeatures(cmd *cobra.Command, ws *workspace) (pipeline.Features, error) {
	features := ws.config().features()

	fromEnv, err := cmd.Flags().GetBool("cargo-env")
	if err != nil {
		return features, err
	}
	if fromEnv {
		features = pipeline.Features{}
		for _, name := range []string{pipeline.FeatureBindgen, pipeline.FeatureTTF, pipeline.FeatureImage} {
			if _, ok := os.LookupEnv(cargoFeatureEnv(name)); ok {
				if err := features.Set(name, true); err != nil {
					return features, err
				}
			}
		}
	}

	if cmd.Flags().Changed("features") {
		list, err := cmd.Flags().GetString("features")
		if err != nil {
			return features, err
		}
		features, err = pipeline.ParseFeatures(list)
		if err != nil {
			return features, err
		}
	}
	return features, nil
}

func resolveHost(cmd *cobra.Command, ws *workspace) (bindgen.HostFlavor, error) {
	value := ws.config().Translator.Host
	if cmd.Flags().Changed("host") {
		flagValue, err := cmd.Flags().GetString("host")
		if err != nil {
			return "", err
		}
		value = flagValue
	}
	return bindgen.ParseHostFlavor(value)
}

func resolveTranslatorPath(cmd *cobra.Command, ws *workspace) (string, error) {
	if cmd.Flags().Changed("bindgen-path") {
		return cmd.Flags().GetString("bindgen-path")
	}
	if p := strings.TrimSpace(ws.config().Translator.Path); p != "" {
		return p, nil
	}
	return bindgen.DefaultTranslatorPath, nil
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

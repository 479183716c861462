package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"nxsdl/internal/bindgen"
	"nxsdl/internal/pipeline"
)

const manifestName = "nxsdl.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Features   featuresConfig          `toml:"features"`
	Translator translatorConfig        `toml:"translator"`
	Targets    map[string]targetConfig `toml:"targets"`
}

type featuresConfig struct {
	Bindgen bool `toml:"bindgen"`
	TTF     bool `toml:"ttf"`
	Image   bool `toml:"image"`
}

type translatorConfig struct {
	Path     string   `toml:"path"`
	Host     string   `toml:"host"`
	Includes []string `toml:"includes"`
}

type targetConfig struct {
	Header string   `toml:"header"`
	Output string   `toml:"output"`
	Allow  []string `toml:"allow"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0].String())
	}
	if meta.IsDefined("translator", "host") {
		if _, err := bindgen.ParseHostFlavor(cfg.Translator.Host); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [translator].host: %w", path, err)
		}
	}
	for name, tc := range cfg.Targets {
		switch name {
		case pipeline.TargetCore, pipeline.TargetTTF, pipeline.TargetImage:
		default:
			return projectConfig{}, fmt.Errorf("%s: unknown target [targets.%s] (expected core|ttf|image)", path, name)
		}
		if meta.IsDefined("targets", name, "header") && strings.TrimSpace(tc.Header) == "" {
			return projectConfig{}, fmt.Errorf("%s: empty [targets.%s].header", path, name)
		}
		if meta.IsDefined("targets", name, "output") && strings.TrimSpace(tc.Output) == "" {
			return projectConfig{}, fmt.Errorf("%s: empty [targets.%s].output", path, name)
		}
	}
	return cfg, nil
}

// features returns the feature set declared in [features].
func (c projectConfig) features() pipeline.Features {
	return pipeline.Features{
		Bindgen: c.Features.Bindgen,
		TTF:     c.Features.TTF,
		Image:   c.Features.Image,
	}
}

// targets overlays [targets.*] on the default target table.
func (c projectConfig) targets() []pipeline.Target {
	targets := pipeline.DefaultTargets()
	for i := range targets {
		tc, ok := c.Targets[targets[i].Name]
		if !ok {
			continue
		}
		if tc.Header != "" {
			targets[i].Header = tc.Header
		}
		if tc.Output != "" {
			targets[i].Output = tc.Output
		}
		if len(tc.Allow) > 0 {
			targets[i].AllowFunctions = append([]string(nil), tc.Allow...)
		}
	}
	return targets
}

const defaultManifest = `# nxsdl binding generation settings.

[features]
# Regenerate bindings instead of only checking that they exist.
bindgen = false
ttf = false
image = false

[translator]
path = "bindgen"
# host = "unix"

[targets.core]
header = "bindgen/sdl2.h"
output = "bindgen/sdl2.rs"

[targets.ttf]
header = "bindgen/sdl2-ttf.h"
output = "bindgen/sdl2-ttf.rs"

[targets.image]
header = "bindgen/sdl2-image.h"
output = "bindgen/sdl2-image.rs"
`

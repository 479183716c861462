package pipeline

import (
	"fmt"
	"strings"
)

// Target is one binding set.
type Target struct {
	// Name is the manifest key: core, ttf or image.
	Name string
	// Label names the bindings in messages, e.g. "sdl2-ttf".
	Label string
	// Feature gates the target; empty means always enabled.
	Feature        string
	Header         string
	Output         string
	AllowFunctions []string
}

// Target names.
const (
	TargetCore  = "core"
	TargetTTF   = "ttf"
	TargetImage = "image"
)

// DefaultTargets returns the three binding sets in processing order.
func DefaultTargets() []Target {
	return []Target{
		{Name: TargetCore, Label: "sdl2", Header: "bindgen/sdl2.h", Output: "bindgen/sdl2.rs"},
		{Name: TargetTTF, Label: "sdl2-ttf", Feature: FeatureTTF, Header: "bindgen/sdl2-ttf.h", Output: "bindgen/sdl2-ttf.rs"},
		{Name: TargetImage, Label: "sdl2-image", Feature: FeatureImage, Header: "bindgen/sdl2-image.h", Output: "bindgen/sdl2-image.rs"},
	}
}

// Feature names.
const (
	FeatureBindgen = "bindgen"
	FeatureTTF     = "ttf"
	FeatureImage   = "image"
)

// Features is the set of enabled build features.
type Features struct {
	Bindgen bool
	TTF     bool
	Image   bool
}

// Has reports whether the named feature is enabled. The empty name is
// always enabled.
func (f Features) Has(name string) bool {
	switch name {
	case "":
		return true
	case FeatureBindgen:
		return f.Bindgen
	case FeatureTTF:
		return f.TTF
	case FeatureImage:
		return f.Image
	default:
		return false
	}
}

// Set enables or disables the named feature.
func (f *Features) Set(name string, on bool) error {
	switch name {
	case FeatureBindgen:
		f.Bindgen = on
	case FeatureTTF:
		f.TTF = on
	case FeatureImage:
		f.Image = on
	default:
		return fmt.Errorf("unknown feature %q (expected bindgen|ttf|image)", name)
	}
	return nil
}

// ParseFeatures reads a comma or space separated feature list.
func ParseFeatures(s string) (Features, error) {
	var f Features
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	for _, name := range fields {
		if err := f.Set(strings.ToLower(strings.TrimSpace(name)), true); err != nil {
			return Features{}, err
		}
	}
	return f, nil
}

// String lists enabled features, comma separated.
func (f Features) String() string {
	var names []string
	for _, n := range []string{FeatureBindgen, FeatureTTF, FeatureImage} {
		if f.Has(n) {
			names = append(names, n)
		}
	}
	return strings.Join(names, ",")
}

// ResolveMode decides what to do with t under f.
func ResolveMode(t Target, f Features) Mode {
	if !f.Has(t.Feature) {
		return ModeSkip
	}
	if f.Bindgen {
		return ModeRegenerate
	}
	return ModeVerify
}

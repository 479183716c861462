package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelDriver emits run boundaries.
	LevelDriver
	// LevelTarget adds per-target spans.
	LevelTarget
	// LevelStep adds the steps inside a target.
	LevelStep
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelDriver:
		return "driver"
	case LevelTarget:
		return "target"
	case LevelStep:
		return "step"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "driver":
		return LevelDriver, nil
	case "target":
		return LevelTarget, nil
	case "step":
		return LevelStep, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|driver|target|step)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelDriver:
		return scope <= ScopeDriver
	case LevelTarget:
		return scope <= ScopeTarget
	case LevelStep:
		return true
	}
	return false
}

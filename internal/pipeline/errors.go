package pipeline

import (
	"errors"
	"fmt"
)

// ErrMissingOutput is returned when regeneration is disabled and the
// expected output does not exist.
var ErrMissingOutput = errors.New("bindgen disabled but output missing")

// TargetError attributes a failure to a binding target.
type TargetError struct {
	Label string
	Mode  Mode
	Path  string
	Err   error
}

func (e *TargetError) Error() string {
	switch {
	case e.Mode == ModeVerify && errors.Is(e.Err, ErrMissingOutput):
		return fmt.Sprintf("bindgen disabled but %s bindings missing: %s", e.Label, e.Path)
	case e.Mode == ModeVerify:
		return fmt.Sprintf("failed to verify %s bindings: %v", e.Label, e.Err)
	default:
		return fmt.Sprintf("error generating %s bindings: %v", e.Label, e.Err)
	}
}

func (e *TargetError) Unwrap() error { return e.Err }

package bindgen

import "errors"

var (
	// ErrTranslate is returned when the translator could not produce bindings.
	ErrTranslate = errors.New("could not create file")

	// ErrStaleOutput is returned when a previous output survived removal.
	ErrStaleOutput = errors.New("previous output could not be removed")
)

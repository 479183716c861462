package bindgen

import (
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"
)

// IntKind is the integer type assigned to a macro constant.
type IntKind uint8

const (
	// IntDefault leaves the choice to the translator.
	IntDefault IntKind = iota
	// IntI16 is a signed 16-bit integer.
	IntI16
	// IntU8 is an unsigned 8-bit integer.
	IntU8
	// IntU32 is an unsigned 32-bit integer.
	IntU32
	// IntI32 is a signed 32-bit integer.
	IntI32
)

// String returns the Rust spelling of the kind, or "default".
func (k IntKind) String() string {
	switch k {
	case IntI16:
		return "i16"
	case IntU8:
		return "u8"
	case IntU32:
		return "u32"
	case IntI32:
		return "i32"
	default:
		return "default"
	}
}

// Check reports whether v is representable in k.
func (k IntKind) Check(v int64) error {
	var err error
	switch k {
	case IntI16:
		_, err = safecast.Conv[int16](v)
	case IntU8:
		_, err = safecast.Conv[uint8](v)
	case IntU32:
		_, err = safecast.Conv[uint32](v)
	case IntI32:
		_, err = safecast.Conv[int32](v)
	case IntDefault:
		return nil
	default:
		return fmt.Errorf("unknown int kind %d", k)
	}
	if err != nil {
		return fmt.Errorf("%d does not fit %s: %w", v, k, err)
	}
	return nil
}

// MacroRule assigns Kind to macros whose name starts with Prefix and whose
// value lies strictly between Lo and Hi. An empty Prefix matches any name.
type MacroRule struct {
	Prefix string
	Lo     int64
	Hi     int64
	Kind   IntKind
}

// Matches reports whether the rule applies to the macro.
func (r MacroRule) Matches(name string, value int64) bool {
	return strings.HasPrefix(name, r.Prefix) && value > r.Lo && value < r.Hi
}

// MacroRules is an ordered rule list; the first matching rule wins.
type MacroRules []MacroRule

// DefaultMacroRules keeps poll flags, directory entry types and file mode
// bits at the width the console libc declares them with.
var DefaultMacroRules = MacroRules{
	{Prefix: "POLL", Lo: math.MinInt16, Hi: math.MaxInt16, Kind: IntI16},
	{Prefix: "DT_", Lo: 0, Hi: math.MaxUint8, Kind: IntU8},
	{Prefix: "S_IF", Lo: 0, Hi: math.MaxUint32, Kind: IntU32},
	{Lo: math.MinInt32, Hi: math.MaxInt32, Kind: IntI32},
}

// Classify returns the kind of the first rule matching the macro. ok is false
// when no rule matches and the translator default applies.
func (rs MacroRules) Classify(name string, value int64) (kind IntKind, ok bool) {
	for _, r := range rs {
		if r.Matches(name, value) {
			return r.Kind, true
		}
	}
	return IntDefault, false
}

// ClassifyMacro classifies using DefaultMacroRules.
func ClassifyMacro(name string, value int64) (IntKind, bool) {
	return DefaultMacroRules.Classify(name, value)
}

package bindgen

import (
	"regexp"
	"strconv"

	"fortio.org/safecast"
)

// Macro constants come out of the translator as `pub const NAME: TY = LIT;`
// with TY a primitive integer. Typed enum constants use an alias name and are
// left alone.
var macroConstRe = regexp.MustCompile(`(?m)^(\s*pub const ([A-Za-z_][A-Za-z0-9_]*): )(u8|u16|u32|u64|i8|i16|i32|i64)( = )(-?[0-9]+)(;)`)

// RewriteStats counts what ApplyMacroRules did.
type RewriteStats struct {
	Seen      int
	Rewritten int
}

// ApplyMacroRules retypes integer macro constants in src according to rules.
func ApplyMacroRules(src []byte, rules MacroRules) ([]byte, RewriteStats) {
	var stats RewriteStats
	out := macroConstRe.ReplaceAllFunc(src, func(line []byte) []byte {
		m := macroConstRe.FindSubmatch(line)
		if m == nil {
			return line
		}
		stats.Seen++
		name := string(m[2])
		value, ok := parseMacroValue(string(m[5]))
		if !ok {
			return line
		}
		kind, ok := rules.Classify(name, value)
		if !ok || kind.Check(value) != nil {
			return line
		}
		if kind.String() == string(m[3]) {
			return line
		}
		stats.Rewritten++
		var b []byte
		b = append(b, m[1]...)
		b = append(b, kind.String()...)
		b = append(b, m[4]...)
		b = append(b, m[5]...)
		b = append(b, m[6]...)
		return b
	})
	return out, stats
}

// parseMacroValue reads a decimal literal as the signed 64-bit value the
// classifier works on. Unsigned literals above the int64 range are rejected.
func parseMacroValue(lit string) (int64, bool) {
	if v, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return v, true
	}
	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return 0, false
	}
	v, err := safecast.Conv[int64](u)
	if err != nil {
		return 0, false
	}
	return v, true
}

package bindgen

import (
	"strings"
	"testing"
)

func TestApplyMacroRules(t *testing.T) {
	src := strings.Join([]string{
		"pub const POLLIN: u32 = 1;",
		"pub const DT_DIR: u32 = 4;",
		"pub const S_IFREG: u32 = 32768;",
		"pub const SDL_INIT_VIDEO: u32 = 32;",
		"pub const NEG: i32 = -1;",
		"pub const BIG: u64 = 18446744073709551615;",
		"pub const SDL_FALSE: SDL_bool = 0;",
		"    pub const INDENTED_POLLX: u32 = 2;",
		"pub const ALREADY: i32 = 7;",
		"pub fn SDL_Init(flags: u32) -> ctypes::c_int;",
	}, "\n") + "\n"

	out, stats := ApplyMacroRules([]byte(src), DefaultMacroRules)
	got := string(out)

	for _, want := range []string{
		"pub const POLLIN: i16 = 1;",
		"pub const DT_DIR: u8 = 4;",
		"pub const S_IFREG: u32 = 32768;",
		"pub const SDL_INIT_VIDEO: i32 = 32;",
		"pub const NEG: i32 = -1;",
		"pub const BIG: u64 = 18446744073709551615;",
		"pub const SDL_FALSE: SDL_bool = 0;",
		"    pub const INDENTED_POLLX: i32 = 2;",
		"pub const ALREADY: i32 = 7;",
		"pub fn SDL_Init(flags: u32) -> ctypes::c_int;",
	} {
		if !strings.Contains(got, want+"\n") {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if stats.Seen != 8 {
		t.Errorf("Seen = %d, want 8", stats.Seen)
	}
	if stats.Rewritten != 4 {
		t.Errorf("Rewritten = %d, want 4", stats.Rewritten)
	}
}

func TestApplyMacroRulesNoMatchLeavesInputAlone(t *testing.T) {
	src := []byte("pub struct SDL_Rect { pub x: ctypes::c_int }\n")
	out, stats := ApplyMacroRules(src, DefaultMacroRules)
	if string(out) != string(src) || stats.Seen != 0 {
		t.Fatalf("unexpected rewrite: %q %+v", out, stats)
	}
}

func TestParseMacroValue(t *testing.T) {
	if v, ok := parseMacroValue("9223372036854775807"); !ok || v != 9223372036854775807 {
		t.Errorf("max int64 should parse, got %d %v", v, ok)
	}
	if _, ok := parseMacroValue("9223372036854775808"); ok {
		t.Error("values above int64 must be rejected")
	}
	if v, ok := parseMacroValue("-12"); !ok || v != -12 {
		t.Errorf("negative literal, got %d %v", v, ok)
	}
}

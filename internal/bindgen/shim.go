package bindgen

import (
	"fmt"
	"io"
	"strings"
)

// Alias is one entry of the ctypes shim module. Size marks the size_t
// family; the rest are C primitive aliases.
type Alias struct {
	Name string
	Type string
	Size bool
}

// ShimModule is the module name the translator is told to prefix C types with.
const ShimModule = "ctypes"

// shimAliases map C scalar types to the widths of the aarch64 target,
// independent of the host compiler.
var shimAliases = []Alias{
	{Name: "c_void", Type: "core::ffi::c_void"},
	{Name: "c_char", Type: "u8"},
	{Name: "c_int", Type: "i32"},
	{Name: "c_long", Type: "i64"},
	{Name: "c_longlong", Type: "i64"},
	{Name: "c_schar", Type: "i8"},
	{Name: "c_short", Type: "i16"},
	{Name: "c_uchar", Type: "u8"},
	{Name: "c_uint", Type: "u32"},
	{Name: "c_ulong", Type: "u64"},
	{Name: "c_ulonglong", Type: "u64"},
	{Name: "c_ushort", Type: "u16"},
	{Name: "size_t", Type: "u64", Size: true},
	{Name: "ssize_t", Type: "i64", Size: true},
	{Name: "c_float", Type: "f32"},
	{Name: "c_double", Type: "f64"},
}

// ShimAliases returns every alias in emission order.
func ShimAliases() []Alias {
	out := make([]Alias, len(shimAliases))
	copy(out, shimAliases)
	return out
}

// PrimitiveAliases returns the aliases that are not part of the size_t family.
func PrimitiveAliases() []Alias {
	out := make([]Alias, 0, len(shimAliases))
	for _, a := range shimAliases {
		if !a.Size {
			out = append(out, a)
		}
	}
	return out
}

// RenderShim returns the shim module source.
func RenderShim() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mod %s {\n", ShimModule)
	for _, a := range ShimAliases() {
		fmt.Fprintf(&b, "    pub type %s = %s;\n", a.Name, a.Type)
	}
	b.WriteString("}\n")
	return b.String()
}

// WriteShim writes the shim module to w.
func WriteShim(w io.Writer) error {
	_, err := io.WriteString(w, RenderShim())
	return err
}

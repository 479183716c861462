// Package bindgen drives the external bindgen translator for the console SDL2
// headers.
//
// A generation run removes the previous output, asks the translator for the
// declarations with a fixed toolchain include set and compiler flags, narrows
// integer macro constants through an ordered rule table, and writes the
// ctypes shim module followed by the translated declarations.
//
//	inv := bindgen.Plan(bindgen.Options{Header: "bindgen/sdl2.h", Output: "bindgen/sdl2.rs"})
//	fmt.Println(strings.Join(inv.Args(), " "))
package bindgen

package bindgen

// Options describes one generation run.
type Options struct {
	Header string
	Output string
	// AllowFunctions restricts generation to the named functions. Empty
	// means every declaration is translated.
	AllowFunctions []string
	Host           HostFlavor
	// IncludeDirs replaces the host include set when non-empty.
	IncludeDirs []string
	// Rules replaces DefaultMacroRules when non-nil.
	Rules MacroRules
}

func (o Options) includeDirs() []string {
	if len(o.IncludeDirs) > 0 {
		out := make([]string, len(o.IncludeDirs))
		copy(out, o.IncludeDirs)
		return out
	}
	host := o.Host
	if host == "" {
		host = CurrentHostFlavor()
	}
	return IncludeDirs(host)
}

func (o Options) rules() MacroRules {
	if o.Rules != nil {
		return o.Rules
	}
	return DefaultMacroRules
}

// RustTarget is the language level the bindings are generated for.
const RustTarget = "nightly"

// BlockedTypes are provided by the crate itself and must not be generated.
var BlockedTypes = []string{"u8", "u16", "u32", "u64"}

// Invocation is a fully resolved translator command line.
type Invocation struct {
	Header    string
	Flags     []string
	ClangArgs []string
	Rules     MacroRules
}

// Args returns the translator argument vector: flags, header, "--", clang args.
func (inv *Invocation) Args() []string {
	args := make([]string, 0, len(inv.Flags)+len(inv.ClangArgs)+2)
	args = append(args, inv.Flags...)
	args = append(args, inv.Header, "--")
	args = append(args, inv.ClangArgs...)
	return args
}

// Plan resolves opts into a translator invocation without running anything.
func Plan(opts Options) *Invocation {
	flags := []string{
		"--distrust-clang-mangling",
		"--use-core",
		"--rust-target", RustTarget,
		"--ctypes-prefix", ShimModule,
		"--generate-inline-functions",
	}
	for _, t := range BlockedTypes {
		flags = append(flags, "--blocklist-type", t)
	}
	for _, fn := range opts.AllowFunctions {
		flags = append(flags, "--allowlist-function", fn)
	}

	clang := []string{"-mcrc"}
	for _, dir := range opts.includeDirs() {
		clang = append(clang, "-I"+dir)
	}
	clang = append(clang, "-nostdinc", "-U__linux__")

	return &Invocation{
		Header:    opts.Header,
		Flags:     flags,
		ClangArgs: clang,
		Rules:     opts.rules(),
	}
}

package bindgen

import (
	"fmt"
	"runtime"
	"strings"
)

// HostFlavor selects the spelling of toolchain include paths.
type HostFlavor string

const (
	// FlavorUnix uses absolute paths under /opt/devkitpro.
	FlavorUnix HostFlavor = "unix"
	// FlavorWindows uses drive paths under c:\devkitpro.
	FlavorWindows HostFlavor = "windows"
)

// HostFlavorFor maps a GOOS value to its include flavor.
func HostFlavorFor(goos string) HostFlavor {
	if goos == "windows" {
		return FlavorWindows
	}
	return FlavorUnix
}

// CurrentHostFlavor returns the flavor of the running host.
func CurrentHostFlavor() HostFlavor {
	return HostFlavorFor(runtime.GOOS)
}

// ParseHostFlavor accepts "unix", "windows" or "" (current host).
func ParseHostFlavor(s string) (HostFlavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CurrentHostFlavor(), nil
	case "unix":
		return FlavorUnix, nil
	case "windows":
		return FlavorWindows, nil
	default:
		return "", fmt.Errorf("invalid host %q (expected unix|windows)", s)
	}
}

// Order: console SDK, ported libraries, cross compiler headers, compiler
// intrinsics.
var includeSets = map[HostFlavor][]string{
	FlavorWindows: {
		`c:\devkitpro\libnx\include`,
		`c:\devkitpro\portlibs\switch\include`,
		`c:\devkitpro\devkitA64\aarch64-none-elf\include`,
		`c:\devkitpro\devkitA64\lib\gcc\aarch64-none-elf\8.3.0\include`,
	},
	FlavorUnix: {
		"/opt/devkitpro/libnx/include",
		"/opt/devkitpro/portlibs/switch/include",
		"/opt/devkitpro/devkitA64/aarch64-none-elf/include",
		"/opt/devkitpro/devkitA64/lib/gcc/aarch64-none-elf/8.3.0/include",
	},
}

// IncludeDirs returns a copy of the include set for flavor. Unknown flavors
// get the unix set.
func IncludeDirs(flavor HostFlavor) []string {
	set, ok := includeSets[flavor]
	if !ok {
		set = includeSets[FlavorUnix]
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}

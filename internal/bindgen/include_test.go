package bindgen

import (
	"strings"
	"testing"
)

func TestIncludeDirs(t *testing.T) {
	unix := IncludeDirs(FlavorUnix)
	win := IncludeDirs(FlavorWindows)
	if len(unix) != 4 || len(win) != 4 {
		t.Fatalf("want 4 include dirs per flavor, got unix=%d windows=%d", len(unix), len(win))
	}
	for _, dir := range unix {
		if !strings.HasPrefix(dir, "/opt/devkitpro/") {
			t.Errorf("unix include %q not under /opt/devkitpro", dir)
		}
	}
	for _, dir := range win {
		if !strings.HasPrefix(dir, `c:\devkitpro\`) || strings.Contains(dir, "/") {
			t.Errorf("windows include %q not a c:\\devkitpro drive path", dir)
		}
	}
	suffixes := []string{"libnx", "switch", "aarch64-none-elf", "8.3.0"}
	for i, s := range suffixes {
		if !strings.Contains(unix[i], s) || !strings.Contains(win[i], s) {
			t.Errorf("include %d should mention %q: %q / %q", i, s, unix[i], win[i])
		}
	}
}

func TestIncludeDirsReturnsCopy(t *testing.T) {
	dirs := IncludeDirs(FlavorUnix)
	dirs[0] = "mutated"
	if IncludeDirs(FlavorUnix)[0] == "mutated" {
		t.Fatal("IncludeDirs must not expose the shared table")
	}
}

func TestHostFlavor(t *testing.T) {
	if HostFlavorFor("windows") != FlavorWindows {
		t.Error("windows should map to the windows flavor")
	}
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		if HostFlavorFor(goos) != FlavorUnix {
			t.Errorf("%s should map to the unix flavor", goos)
		}
	}
	if _, err := ParseHostFlavor("beos"); err == nil {
		t.Error("expected error for unknown host")
	}
	if f, err := ParseHostFlavor("Windows"); err != nil || f != FlavorWindows {
		t.Errorf("ParseHostFlavor(Windows) = %q, %v", f, err)
	}
}

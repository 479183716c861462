// Package version holds build information stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X nxsdl/internal/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"runtime"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.3.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Info is a trimmed snapshot of the build variables.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build information. An empty Version reads "dev".
func Get() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
		GoVersion: runtime.Version(),
	}
}

// Colored renders v with major, minor and patch in distinct colors. Anything
// after the patch number, such as "-dev", stays with the patch part.
func Colored(v string) string {
	parts := strings.SplitN(v, ".", len(partColors))
	if len(parts) != len(partColors) {
		return v
	}
	for i, p := range parts {
		parts[i] = partColors[i].Sprint(p)
	}
	return strings.Join(parts, ".")
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nxsdl/internal/bindgen"
	"nxsdl/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
	RustTarget string `json:"rust_target,omitempty"`
}

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "include commit hash, build date and toolchain details")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show nxsdl build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Get()
		switch strings.ToLower(versionFormat) {
		case "pretty":
			return renderVersionPretty(cmd.OutOrStdout(), info, versionShowFull)
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), info, versionShowFull)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionPretty(out io.Writer, info version.Info, full bool) error {
	if _, err := fmt.Fprintf(out, "nxsdl %s\n", version.Colored(info.Version)); err != nil {
		return err
	}
	if !full {
		return nil
	}
	_, err := fmt.Fprintf(out, "commit: %s\nbuilt:  %s\ngo:     %s\nrust:   %s\n",
		valueOrUnknown(info.GitCommit), valueOrUnknown(info.BuildDate), info.GoVersion, bindgen.RustTarget)
	return err
}

func renderVersionJSON(out io.Writer, info version.Info, full bool) error {
	payload := versionPayload{Tool: "nxsdl", Info: info}
	if full {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
		payload.BuildDate = valueOrUnknown(info.BuildDate)
		payload.RustTarget = bindgen.RustTarget
	} else {
		payload.GitCommit, payload.BuildDate = "", ""
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

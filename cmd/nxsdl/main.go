// Package main implements the nxsdl CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nxsdl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nxsdl",
	Short: "SDL2 binding generator for the console toolchain",
	Long: `nxsdl drives bindgen over the SDL2, SDL2_ttf and SDL2_image headers of the
devkitpro console toolchain and checks the generated bindings at build time.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		value, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		return applyColorMode(value)
	},
}

// main registers subcommands and persistent flags, then executes the root
// command. A command error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(shimCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-target step timings")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|driver|target|step)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyColorMode(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nxsdl/internal/stamp"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove generated bindings and the stamp cache",
	Long: `Remove every generated binding file and the incremental stamp cache.

Note that with the bindgen feature disabled a later build requires the
generated files, so only clean when you intend to regenerate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace(args)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(ws.Targets)+1)
	for _, t := range ws.Targets {
		p := t.Output
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.Root, filepath.FromSlash(p))
		}
		paths = append(paths, p)
	}
	paths = append(paths, filepath.Join(ws.Root, filepath.FromSlash(stamp.DefaultPath)))

	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to remove %q: %w", p, err)
		}
		removed++
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", formatPathForOutput(ws.Root, p)); err != nil {
			return err
		}
	}
	if removed == 0 {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "nothing to clean")
	}
	return err
}

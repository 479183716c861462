package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"nxsdl/internal/bindgen"
)

var classifyCmd = &cobra.Command{
	Use:   "classify NAME VALUE",
	Short: "Show the integer type assigned to a macro constant",
	Long: `Show which integer type the generator assigns to a macro constant.

VALUE accepts decimal, 0x hex, 0o octal and 0b binary literals.`,
	Args: cobra.ExactArgs(2),
	RunE: classifyExecution,
}

func classifyExecution(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("macro name must not be empty")
	}
	value, err := strconv.ParseInt(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid macro value %q: %w", args[1], err)
	}
	kind, ok := bindgen.ClassifyMacro(name, value)
	if !ok {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %d: default (no rule matched)\n", name, value)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %d: %s\n", name, value, kind)
	return err
}

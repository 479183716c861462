package main

import (
	"github.com/spf13/cobra"

	"nxsdl/internal/bindgen"
)

var shimCmd = &cobra.Command{
	Use:   "shim",
	Short: "Print the ctypes module prepended to every binding file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return bindgen.WriteShim(cmd.OutOrStdout())
	},
}

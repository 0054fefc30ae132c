package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/casc/format"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readSource(name)
			if err != nil {
				return err
			}
			return format.NewLineEncoder(os.Stdout).EncodeSource(src)
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/casc/cascade/parser"
	"github.com/dhamidi/casc/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var expr bool
	var trivia bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a source file and dump its syntax tree",
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

			parse := parser.Parse
			if expr {
				parse = parser.ParseExpression
			}
			tree, errs := parse(src, parser.WithFile(name), parser.WithLogger(commonlog.GetLogger("cascade.parser")))
			doc := format.NewDocument(name, tree, errs)

			switch outputFormat {
			case "text":
				enc := format.NewTextEncoder(os.Stdout)
				enc.Trivia = trivia
				err = enc.Encode(doc)
			case "json":
				enc := format.NewJSONEncoder(os.Stdout)
				enc.Trivia = trivia
				err = enc.Encode(doc)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&expr, "expr", false, "parse a single expression instead of a file")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace and comments in the output")

	return cmd
}

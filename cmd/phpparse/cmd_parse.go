package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jorgsowa/php-parser/format"
	"github.com/jorgsowa/php-parser/php/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a PHP file and dump the syntax tree",
		Long:  "Parse a PHP file (or standard input when no file or '-' is given) and print the syntax tree. Diagnostics go to standard error.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseInput(cmd, args)
			if err != nil {
				return err
			}

			var opts []format.Option
			if includePositions {
				opts = append(opts, format.WithPositions())
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewASTJSONEncoder(cmd.OutOrStdout(), opts...)
			case "sexp":
				encoder = format.NewSExprEncoder(cmd.OutOrStdout(), opts...)
			case "tokens":
				encoder = format.NewTokenEncoder(cmd.OutOrStdout(), opts...)
			default:
				return fmt.Errorf("unknown format: %s (expected json, sexp, or tokens)", outputFormat)
			}

			if err := encoder.Encode(res); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			if outputFormat != "json" {
				if err := format.NewLineEncoder(cmd.ErrOrStderr()).Encode(res); err != nil {
					return fmt.Errorf("encode diagnostics: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, sexp, tokens)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include line:column positions")

	return cmd
}

// parseInput parses the named file, or the command's input for no name or "-".
func parseInput(cmd *cobra.Command, args []string) (*parser.Result, error) {
	r := cmd.InOrStdin()
	var opts []parser.Option
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("read php file: %w", err)
		}
		defer f.Close()
		r = f
		opts = append(opts, parser.WithFile(args[0]))
	}
	res, err := parser.ParseReader(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("read php file: %w", err)
	}
	return res, nil
}

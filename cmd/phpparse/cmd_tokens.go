package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jorgsowa/php-parser/format"
)

func newTokensCmd() *cobra.Command {
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "List the tokens of a PHP file",
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
			if err := format.NewTokenEncoder(cmd.OutOrStdout(), opts...).Encode(res); err != nil {
				return fmt.Errorf("encode tokens: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includePositions, "positions", false, "show line:column instead of byte spans")

	return cmd
}

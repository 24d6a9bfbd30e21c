package main

import (
	"github.com/spf13/cobra"

	"github.com/jorgsowa/php-parser/php/codebase"
)

func newLSPCmd() *cobra.Command {
	var extensions []string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, extensions...)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", codebase.DefaultExtensions, "file extensions to watch")

	return cmd
}

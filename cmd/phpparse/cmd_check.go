package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jorgsowa/php-parser/format"
	"github.com/jorgsowa/php-parser/php/codebase"
)

func newCheckCmd() *cobra.Command {
	var timeout time.Duration
	var extensions []string

	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Parse every PHP file under a directory and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], timeout, extensions)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", time.Minute, "timeout for the whole scan")
	cmd.Flags().StringSliceVar(&extensions, "ext", codebase.DefaultExtensions, "file extensions to check")

	return cmd
}

func runCheck(cmd *cobra.Command, path string, timeout time.Duration, extensions []string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	cb := codebase.New(path, extensions...)
	if !info.IsDir() {
		f, err := cb.ScanFile(path)
		if err != nil {
			return err
		}
		return report(cmd, []*codebase.File{f})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err := cb.ScanAll(ctx); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}

	var files []*codebase.File
	for _, p := range cb.Paths() {
		files = append(files, cb.GetFile(p))
	}
	return report(cmd, files)
}

func report(cmd *cobra.Command, files []*codebase.File) error {
	enc := format.NewLineEncoder(cmd.OutOrStdout())
	bad := 0
	for _, f := range files {
		if len(f.Diagnostics()) == 0 {
			continue
		}
		bad++
		if err := enc.Encode(f.Result); err != nil {
			return fmt.Errorf("encode diagnostics: %w", err)
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "checked %d files, %d with errors\n", len(files), bad)
	if bad > 0 {
		return fmt.Errorf("%d files have syntax errors", bad)
	}
	return nil
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go gen-docs --path ../../docs
//go:generate go run gen-docs.go gen-docs --path ../../docs/man --format man

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	icmptracecmd "github.com/telekom/icmptrace/cmd"
)

func main() {
	execute()
}

func execute() {
	rootCmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates docs for icmptrace",
	}
	rootCmd.AddCommand(NewCmdGenDocs())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCmdGenDocs creates a new gen-docs command
func NewCmdGenDocs() *cobra.Command {
	var docPath, format string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate the command line documentation",
		Long:  `Generate the markdown documentation or the man pages of the icmptrace commands and flags`,
		RunE:  runGenDocs(&docPath, &format),
	}

	cmd.PersistentFlags().StringVar(&docPath, "path", "docs", "directory path where the files will be created")
	cmd.PersistentFlags().StringVar(&format, "format", "markdown", "documentation format: markdown or man")

	return cmd
}

// runGenDocs generates one file per command
func runGenDocs(path, format *string) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		c := icmptracecmd.BuildCmd("")
		c.DisableAutoGenTag = true

		if err := os.MkdirAll(*path, 0o750); err != nil {
			return fmt.Errorf("failed to create docs directory: %w", err)
		}

		var err error
		switch *format {
		case "markdown":
			err = doc.GenMarkdownTree(c, *path)
		case "man":
			err = doc.GenManTree(c, &doc.GenManHeader{Title: "ICMPTRACE", Section: "1"}, *path)
		default:
			return fmt.Errorf("unsupported documentation format %q", *format)
		}
		if err != nil {
			return fmt.Errorf("failed to generate docs: %w", err)
		}
		return nil
	}
}

// Package main provides the entry point for the ctxpack CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ctxpack/ctxpack/cmd/ctxpack/commands"
	"github.com/ctxpack/ctxpack/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ctxpack",
		Short: "ctxpack - package source context into chat-ready text bundles",
		Long: `ctxpack packages source-code context into single text bundles.

Commands:
  bundle    Trace the local import closure of entry files and concatenate it
  scan      Report per-extension file statistics for a directory
  commits   Save a snapshot bundle of a commit or commit range`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewBundleCommand())
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewCommitsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "ctxpack %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

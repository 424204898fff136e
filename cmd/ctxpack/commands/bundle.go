// Package commands implements the ctxpack subcommands.
package commands

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ctxpack/ctxpack/internal/config"
	"github.com/ctxpack/ctxpack/pkg/bundle"
	"github.com/ctxpack/ctxpack/pkg/trace"
)

// minBundleArgs is the project root plus at least one entry file.
const minBundleArgs = 2

// BundleCommand holds the flags for the bundle command.
type BundleCommand struct {
	output     string
	compress   bool
	configPath string
}

// NewBundleCommand creates and configures the bundle command.
func NewBundleCommand() *cobra.Command {
	cmd := &BundleCommand{}

	cobraCmd := &cobra.Command{
		Use:   "bundle <root> <entry>...",
		Short: "Trace the import closure of entry files and concatenate it",
		Long: "Trace the local Python import closure of the entry files under the\n" +
			"project root and write the closure into a single concatenated bundle.\n" +
			"Entry files given as relative paths are taken relative to the root.",
		Args: cobra.MinimumNArgs(minBundleArgs),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "Output file (default: <root>_concatenated.txt)")
	cobraCmd.Flags().BoolVar(&cmd.compress, "compress", false, "LZ4-compress the bundle")
	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "Config file path")

	return cobraCmd
}

// Run executes the bundle command.
func (c *BundleCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	root := args[0]

	// Relative entry paths are anchored at the project root, not the
	// process working directory.
	entries := make([]string, 0, len(args)-1)
	for _, entry := range args[1:] {
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(root, entry)
		}

		entries = append(entries, entry)
	}

	tracer, err := trace.NewTracer(root)
	if err != nil {
		return err
	}

	files, err := tracer.Trace(entries)
	if err != nil {
		return err
	}

	outPath := c.output
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Dir, bundle.OutputName(root))
	}

	writer := bundle.NewWriter(tracer.Root(), cfg.Bundle.HeaderWidth)

	written, err := writer.WriteFile(outPath, files, c.compress || cfg.Bundle.Compress)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %s (%d files)\n", written, len(files))

	return nil
}

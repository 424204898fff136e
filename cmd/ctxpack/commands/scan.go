package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ctxpack/ctxpack/internal/config"
	"github.com/ctxpack/ctxpack/pkg/scan"
)

// ScanCommand holds the flags for the scan command.
type ScanCommand struct {
	configPath string
}

// NewScanCommand creates and configures the scan command.
func NewScanCommand() *cobra.Command {
	cmd := &ScanCommand{}

	cobraCmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Report per-extension file statistics for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "Config file path")

	return cobraCmd
}

// Run executes the scan command.
func (c *ScanCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	stats, err := scan.NewScanner(dir, cfg.Scan.IgnoreDirs).Scan()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	color.New(color.FgCyan).Fprintf(out, "Scanning %s\n\n", dir)
	scan.Report(out, dir, stats, cfg.Scan.PathWidth)

	return nil
}

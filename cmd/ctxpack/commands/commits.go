package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ctxpack/ctxpack/internal/config"
	"github.com/ctxpack/ctxpack/pkg/gitlib"
	"github.com/ctxpack/ctxpack/pkg/snapshot"
)

// CommitsCommand holds the flags for the commits command.
type CommitsCommand struct {
	this       string
	base       string
	repoPath   string
	outputDir  string
	configPath string
}

// NewCommitsCommand creates and configures the commits command.
func NewCommitsCommand() *cobra.Command {
	cmd := &CommitsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "commits --this <rev> [--base <rev>]",
		Short: "Save a snapshot bundle of a commit or commit range",
		Long: "Save a text snapshot of a single commit, or of the range base..this:\n" +
			"oneline history, the changed files with a diffstat, and their contents\n" +
			"at the target commit.",
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.this, "this", "", "Target commit (required)")
	cobraCmd.Flags().StringVar(&cmd.base, "base", "", "Base commit (optional, selects range mode)")
	cobraCmd.Flags().StringVar(&cmd.repoPath, "repo", ".", "Repository path")
	cobraCmd.Flags().StringVar(&cmd.outputDir, "output-dir", "", "Output directory (default: from config)")
	cobraCmd.Flags().StringVar(&cmd.configPath, "config", "", "Config file path")

	_ = cobraCmd.MarkFlagRequired("this")

	return cobraCmd
}

// Run executes the commits command.
func (c *CommitsCommand) Run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	repo, err := gitlib.OpenRepository(c.repoPath)
	if err != nil {
		return err
	}
	defer repo.Free()

	snap, err := snapshot.Take(repo, c.base, c.this)
	if err != nil {
		return err
	}

	outDir := c.outputDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	outPath := filepath.Join(outDir, snap.OutputName())

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", outPath, err)
	}
	defer out.Close()

	err = snap.Write(out)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %s (%d files)\n", outPath, len(snap.Files))

	return nil
}

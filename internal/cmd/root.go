package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for ctxgen
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctxgen",
		Short: "Consolidate a project's source files into one context file",
		Long: `ctxgen walks a project directory, selects files by suffix, skips excluded
files and directories, and writes every selected file into a single annotated
text file that can be handed to a language model or a reviewer.

Configuration is loaded from .ctxgen/config.yaml if present.
CTXGEN_* environment variables and CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewInitCommand())

	return cmd
}

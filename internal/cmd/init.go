package cmd

import (
	"fmt"
	"os"

	"github.com/harrison/ctxgen/internal/config"
	"github.com/harrison/ctxgen/internal/filelock"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the 'ctxgen init' command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [project-directory]",
		Short: "Write a default .ctxgen/config.yaml",
		Long: `Create .ctxgen/config.yaml in the project directory (default: current
directory) with the default include suffixes, exclude names and output file,
ready to be edited.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	cmd.Flags().Bool("print", false, "Print the default config instead of writing it")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return err
	}

	if printOnly, _ := cmd.Flags().GetBool("print"); printOnly {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	path := config.PathInDir(dir)
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

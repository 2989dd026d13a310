package cmd

import (
	"fmt"
	"io"

	"github.com/harrison/ctxgen/internal/artifact"
	"github.com/harrison/ctxgen/internal/display"
	"github.com/spf13/cobra"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <context-file>",
		Short: "Summarize a generated context file",
		Long: `Parse a context file written by 'ctxgen generate' and report the project
name, the files it contains with their languages and line counts, and any
files that could not be read when it was generated.

Exit code: 0 if the file is a context file, 1 otherwise`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, _ := cmd.Flags().GetBool("files")
			return inspectArtifact(args[0], files, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("files", false, "List every file block")

	return cmd
}

func inspectArtifact(path string, listFiles bool, out io.Writer) error {
	report, err := artifact.InspectFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Project: %s\n", report.Project)
	fmt.Fprintf(out, "Files: %s\n", display.FormatThousands(int64(len(report.Blocks))))
	fmt.Fprintf(out, "Total Lines of Code: %s\n", display.FormatThousands(int64(report.TotalLines())))

	if listFiles && len(report.Blocks) > 0 {
		fmt.Fprintln(out)
		for _, b := range report.Blocks {
			lang := b.Language
			if lang == "" {
				lang = "text"
			}
			fmt.Fprintf(out, "  %s (%s, %d lines)\n", b.Path, lang, b.Lines)
		}
	}

	if len(report.Errors) > 0 {
		fmt.Fprintln(out)
		display.Warning{
			Title: fmt.Sprintf("%d file(s) could not be read when this file was generated", len(report.Errors)),
			Files: report.Errors,
		}.Display(out)
	}

	return nil
}

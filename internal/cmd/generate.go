package cmd

import (
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command as an alias for commit --dry-run.
func NewGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Show a suggested commit message without committing",
		Long: `Suggest a commit message for the staged diff and print it.
Nothing is committed and no input is read.

This is equivalent to running 'commitassist --dry-run'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, &CommitFlags{DryRun: true})
		},
	}
}

// Package cmd contains the CLI command definitions for commitassist.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the commitassist CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &CommitFlags{}

	rootCmd := &cobra.Command{
		Use:   "commitassist",
		Short: "Suggest a commit message for staged changes using a local model",
		Long: `commitassist reads your staged changes, asks a locally running
inference server (Ollama by default) for a one-line commit message,
lets you accept or replace it, and commits.

Press Enter at the prompt to keep the suggestion, or type your own
message to use that instead.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Default action is to run the commit command
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	rootCmd.SetVersionTemplate(`commitassist {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.commitassist/config.yaml)")
	rootCmd.PersistentFlags().String("api", "", "Inference API to use (generate, openai)")
	rootCmd.PersistentFlags().String("endpoint", "", "Inference server base URL")
	rootCmd.PersistentFlags().String("model", "", "Model to request")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Inference request timeout (0 waits indefinitely)")

	addCommitFlags(rootCmd, flags)

	rootCmd.AddCommand(NewCommitCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}

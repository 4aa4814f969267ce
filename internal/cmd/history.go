package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/commitassist/commitassist/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View past suggestions and commits",
		Long: `View the history of suggested and committed messages.

By default, displays the most recent 20 entries. Use --limit to change the number of entries shown.

Examples:
  commitassist history           # Show last 20 entries
  commitassist history --limit 5 # Show last 5 entries
  commitassist history clear     # Clear all history`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// runHistoryList displays the history entries, most recent first.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !cfg.History.Enabled {
		fmt.Fprintln(out, "History is disabled. Enable it with: commitassist config set history.enabled true")
		return nil
	}

	historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)

	entries, err := historyMgr.List(limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(out, entries[i], len(entries)-i)
	}

	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(w io.Writer, entry *history.Entry, index int) {
	timestamp := entry.Timestamp.Local().Format(time.RFC3339)

	fmt.Fprintf(w, "[%d] %s (%s)\n", index, timestamp, entry.Outcome)

	if entry.API != "" || entry.Model != "" {
		fmt.Fprintf(w, "    API: %s", entry.API)
		if entry.Model != "" {
			fmt.Fprintf(w, " (%s)", entry.Model)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "    Message: %s\n", entry.Message)
	if entry.Edited {
		fmt.Fprintf(w, "    Suggested: %s\n", entry.Suggestion)
	}
	if entry.Error != "" {
		fmt.Fprintf(w, "    Error: %s\n", entry.Error)
	}

	fmt.Fprintln(w)
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)

			if err := historyMgr.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "History cleared successfully.")
			return nil
		},
	}
}

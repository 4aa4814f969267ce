package cmd

import (
	"github.com/spf13/cobra"

	"github.com/commitassist/commitassist/internal/app"
	"github.com/commitassist/commitassist/internal/pkg/ai"
	"github.com/commitassist/commitassist/internal/pkg/config"
	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
	"github.com/commitassist/commitassist/internal/pkg/git"
	"github.com/commitassist/commitassist/internal/pkg/history"
	"github.com/commitassist/commitassist/internal/pkg/ui"
)

// CommitFlags holds the flags for the commit command.
type CommitFlags struct {
	DryRun bool
	Yes    bool
}

// overrideFlags maps persistent flags to the config keys they override.
var overrideFlags = []struct {
	flag string
	key  string
}{
	{"api", "inference.api"},
	{"endpoint", "inference.endpoint"},
	{"model", "inference.model"},
	{"timeout", "inference.timeout"},
}

// NewCommitCmd creates the commit command.
func NewCommitCmd() *cobra.Command {
	flags := &CommitFlags{}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Suggest a message for the staged changes and commit",
		Long: `Suggest a commit message for the staged diff, ask for confirmation,
and commit. This is what running commitassist without a subcommand does.

Examples:
  commitassist commit              # Interactive commit
  commitassist commit --yes        # Commit the suggestion without asking
  commitassist commit --dry-run    # Show the suggestion only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	addCommitFlags(cmd, flags)

	return cmd
}

func addCommitFlags(cmd *cobra.Command, flags *CommitFlags) {
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Show the suggestion without committing")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Commit the suggestion without asking")
}

// loadConfig loads the configuration for cmd with flag overrides applied.
// Priority: flags > env > file > defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	if configPath != "" {
		apperrors.Debug("Using custom config path: %s", configPath)
	}

	for _, o := range overrideFlags {
		f := cmd.Flags().Lookup(o.flag)
		if f == nil || !f.Changed {
			continue
		}
		cfgMgr.SetOverride(o.key, f.Value.String())
		apperrors.Debug("%s overridden via flag: %s", o.key, f.Value.String())
	}

	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to load config")
	}
	return cfg, nil
}

// runCommit wires the dependencies and runs the assistant once.
func runCommit(cmd *cobra.Command, flags *CommitFlags) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	apperrors.SetVerbose(verbose)
	apperrors.SetOutput(cmd.ErrOrStderr())

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	apperrors.Debug("Using %s API at %s with model %s", cfg.Inference.API, cfg.Inference.Endpoint, cfg.Inference.Model)
	if flags.DryRun {
		apperrors.Debug("Dry-run mode enabled")
	}

	gitClient := git.NewClientWithOptions(cfg.Git.Binary, cfg.Git.WorkDir)

	provider, err := ai.NewProvider(&cfg.Inference)
	if err != nil {
		return err
	}

	uiMgr := ui.NewManager(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(),
		cfg.UI.ColorEnabled, cfg.UI.Spinner)

	var historyMgr history.Manager
	if cfg.History.Enabled {
		historyMgr = history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
	}

	assistant := app.NewCommitAssistant(gitClient, provider, uiMgr, historyMgr, cfg)

	err = assistant.Run(cmd.Context(), &app.Options{
		DryRun:      flags.DryRun,
		SkipConfirm: flags.Yes,
	})
	switch {
	case apperrors.IsVCSError(err):
		apperrors.Debug("Stopped before inference: %v", err)
	case apperrors.IsInferenceError(err):
		apperrors.Debug("Inference failed, nothing was committed")
	}
	return err
}

// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"strings"

	"github.com/commitassist/commitassist/internal/pkg/ai"
	"github.com/commitassist/commitassist/internal/pkg/config"
	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
	"github.com/commitassist/commitassist/internal/pkg/git"
	"github.com/commitassist/commitassist/internal/pkg/history"
	"github.com/commitassist/commitassist/internal/pkg/message"
	"github.com/commitassist/commitassist/internal/pkg/ui"
)

// User-facing lines printed after a successful commit.
const (
	SuccessMessage = "Successfully committed changes!"
	PushHint       = "\nReady to push! Use 'git push origin' to push your changes."
)

// Options contains options for a single run.
type Options struct {
	// DryRun generates and shows a suggestion without prompting or committing.
	DryRun bool
	// SkipConfirm commits the suggestion without reading input.
	SkipConfirm bool
}

// CommitAssistant runs the diff, suggest, confirm, commit pipeline.
type CommitAssistant struct {
	gitClient  git.Client
	provider   ai.Provider
	uiManager  ui.Manager
	historyMgr history.Manager // optional
	config     *config.Config
}

// NewCommitAssistant creates a CommitAssistant. historyMgr and cfg may be nil.
func NewCommitAssistant(
	gitClient git.Client,
	provider ai.Provider,
	uiManager ui.Manager,
	historyMgr history.Manager,
	cfg *config.Config,
) *CommitAssistant {
	return &CommitAssistant{
		gitClient:  gitClient,
		provider:   provider,
		uiManager:  uiManager,
		historyMgr: historyMgr,
		config:     cfg,
	}
}

// AcquireDiff returns the staged diff. An empty string means nothing is staged.
func (a *CommitAssistant) AcquireDiff(ctx context.Context) (string, error) {
	return a.gitClient.StagedDiff(ctx)
}

// GenerateMessage asks the inference server for a one-line suggestion.
func (a *CommitAssistant) GenerateMessage(ctx context.Context, diff string) (string, error) {
	spinner := a.uiManager.ShowSpinner("Generating commit message...")
	spinner.Start()
	resp, err := a.provider.GenerateCommitMessage(ctx, &ai.GenerateRequest{Diff: diff})
	spinner.Stop()
	if err != nil {
		return "", err
	}
	return resp.Suggestion, nil
}

// ConfirmMessage shows suggestion and reads one line of input. Empty input or
// end of input keeps the suggestion; anything else replaces it, trimmed.
func (a *CommitAssistant) ConfirmMessage(suggestion string) (string, error) {
	a.present(suggestion)

	input, err := a.uiManager.PromptOverride()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrUserInput, "failed to read confirmation")
	}
	return ResolveMessage(suggestion, input), nil
}

// ResolveMessage applies the confirmation rule to a line of user input.
func ResolveMessage(suggestion, input string) string {
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		return trimmed
	}
	return suggestion
}

// Commit creates the commit. A nil error means the commit was recorded.
func (a *CommitAssistant) Commit(ctx context.Context, msg string) error {
	return a.gitClient.Commit(ctx, msg)
}

// Run executes the whole pipeline. Diff and inference failures are returned;
// a failed commit is reported through the UI and Run returns nil.
func (a *CommitAssistant) Run(ctx context.Context, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	diff, err := a.AcquireDiff(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diff) == "" {
		return apperrors.NewNoStagedChangesError()
	}

	suggestion, err := a.GenerateMessage(ctx, diff)
	if err != nil {
		return err
	}

	if opts.DryRun {
		a.present(suggestion)
		a.record(&history.Entry{Suggestion: suggestion, Message: suggestion, Outcome: history.OutcomeDryRun})
		return nil
	}

	final := suggestion
	if opts.SkipConfirm {
		a.present(suggestion)
	} else {
		final, err = a.ConfirmMessage(suggestion)
		if err != nil {
			return err
		}
	}

	entry := &history.Entry{
		Suggestion: suggestion,
		Message:    final,
		Edited:     final != suggestion,
	}

	if err := a.Commit(ctx, final); err != nil {
		a.uiManager.ShowError(err)
		entry.Outcome = history.OutcomeCommitFailed
		entry.Error = apperrors.SanitizeErrorMessage(err.Error())
		a.record(entry)
		return nil
	}

	a.uiManager.ShowSuccess(SuccessMessage)
	a.uiManager.ShowInfo(PushHint)
	entry.Outcome = history.OutcomeCommitted
	a.record(entry)
	return nil
}

// present shows the suggestion with any convention warnings.
func (a *CommitAssistant) present(suggestion string) {
	a.uiManager.DisplaySuggestion(suggestion)
	for _, w := range message.Lint(suggestion) {
		a.uiManager.ShowWarning(w.String())
	}
}

// record saves entry to history. Failures are shown as a warning and otherwise ignored.
func (a *CommitAssistant) record(entry *history.Entry) {
	if a.historyMgr == nil {
		return
	}
	if a.config != nil {
		if !a.config.History.Enabled {
			return
		}
		entry.API = a.config.Inference.API
		entry.Model = a.config.Inference.Model
	}
	if entry.API == "" {
		entry.API = a.provider.Name()
	}
	if err := a.historyMgr.Save(entry); err != nil {
		a.uiManager.ShowWarning("failed to save history: " + err.Error())
	}
}

// Package git provides the git operations commitassist needs.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Client defines the interface for git operations.
type Client interface {
	// StagedDiff returns the unified diff of the index against HEAD.
	// An empty string means nothing is staged.
	StagedDiff(ctx context.Context) (string, error)
	// Commit records the staged changes with message.
	Commit(ctx context.Context, message string) error
}

// DefaultClient implements the Client interface using exec.CommandContext.
type DefaultClient struct {
	binary string
	// workDir is the working directory for git commands.
	// If empty, uses the current directory.
	workDir string
}

// NewClientWithOptions creates a DefaultClient running binary inside workDir.
// Empty values fall back to the defaults.
func NewClientWithOptions(binary, workDir string) *DefaultClient {
	if binary == "" {
		binary = DefaultBinary
	}
	return &DefaultClient{binary: binary, workDir: workDir}
}

// StagedDiff runs "git diff --cached" and returns its output verbatim.
func (c *DefaultClient) StagedDiff(ctx context.Context) (string, error) {
	stdout, _, err := c.run(ctx, "diff", "diff", "--cached", "--no-color")
	if err != nil {
		return "", err
	}
	return stdout, nil
}

// Commit runs "git commit -m message".
func (c *DefaultClient) Commit(ctx context.Context, message string) error {
	_, _, err := c.run(ctx, "commit", "commit", "-m", message)
	return err
}

// run executes git with args. A non-zero exit becomes a git error carrying stderr,
// or stdout when stderr is empty (git commit reports "nothing to commit" there).
func (c *DefaultClient) run(ctx context.Context, op string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	apperrors.LogCommand(c.binary, args, exitCode, time.Since(start))

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", apperrors.NewGitNotFoundError(c.binary, err)
		}
		if ctx.Err() != nil {
			return "", "", apperrors.Wrap(ctx.Err(), apperrors.ErrGitCommandFailed, "git "+op+" interrupted")
		}
		output := stderr.String()
		if len(bytes.TrimSpace(stderr.Bytes())) == 0 {
			output = stdout.String()
		}
		return "", "", apperrors.NewGitError(op, err, output)
	}

	return stdout.String(), stderr.String(), nil
}

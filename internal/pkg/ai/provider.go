// Package ai talks to the local inference server that suggests commit messages.
package ai

import (
	"context"
	"time"
)

// GenerateRequest contains the data needed to generate a commit message.
type GenerateRequest struct {
	Diff string
}

// GenerateResponse contains the generated commit message.
type GenerateResponse struct {
	// Suggestion is the first line of the model output, trimmed.
	Suggestion string
	RawText    string
}

// ProviderConfig contains configuration for an inference provider.
type ProviderConfig struct {
	Model    string
	Endpoint string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

// Provider defines the interface for inference providers.
type Provider interface {
	GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	Name() string
}

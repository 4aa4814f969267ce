package ai

import (
	"fmt"

	"github.com/commitassist/commitassist/internal/pkg/config"
	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
)

// API names accepted in inference.api.
const (
	APIGenerate = "generate"
	APIOpenAI   = "openai"
)

// NewProvider creates the inference provider selected by the configuration.
func NewProvider(cfg *config.InferenceConfig) (Provider, error) {
	if cfg == nil {
		return nil, apperrors.NewInvalidConfigError("inference configuration is required")
	}

	pc := ProviderConfig{
		Model:    cfg.Model,
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout,
	}

	var (
		p   Provider
		err error
	)
	switch cfg.API {
	case APIGenerate, "":
		p, err = NewOllamaProvider(pc)
	case APIOpenAI:
		p, err = NewOpenAIProvider(pc)
	default:
		return nil, apperrors.NewInvalidConfigError(fmt.Sprintf("unknown inference api: %s", cfg.API))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "invalid inference configuration")
	}
	return p, nil
}

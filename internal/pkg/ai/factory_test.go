package ai

import (
	"testing"
	"time"

	"github.com/commitassist/commitassist/internal/pkg/config"
	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.InferenceConfig
		wantName string
		wantErr  bool
	}{
		{
			name:     "generate api",
			cfg:      &config.InferenceConfig{API: "generate", Endpoint: "http://localhost:11434", Model: "mistral"},
			wantName: "ollama",
		},
		{
			name:     "empty api defaults to generate",
			cfg:      &config.InferenceConfig{},
			wantName: "ollama",
		},
		{
			name:     "openai api",
			cfg:      &config.InferenceConfig{API: "openai", Endpoint: "http://localhost:11434", Model: "mistral"},
			wantName: "openai",
		},
		{
			name:    "unknown api",
			cfg:     &config.InferenceConfig{API: "grpc"},
			wantErr: true,
		},
		{
			name:    "bad endpoint",
			cfg:     &config.InferenceConfig{API: "generate", Endpoint: "localhost"},
			wantErr: true,
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				appErr := apperrors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, apperrors.ErrInvalidConfig, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProvider_PassesTimeout(t *testing.T) {
	p, err := NewProvider(&config.InferenceConfig{API: "generate", Timeout: 5 * time.Second})
	require.NoError(t, err)

	ollama, ok := p.(*OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, ollama.config.Timeout)
	assert.Equal(t, 5*time.Second, ollama.httpClient.Timeout)
}

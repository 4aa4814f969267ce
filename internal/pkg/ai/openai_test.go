package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider_DefaultValues(t *testing.T) {
	provider, err := NewOpenAIProvider(ProviderConfig{})
	require.NoError(t, err)

	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, DefaultOllamaModel, provider.config.Model)
	assert.Equal(t, DefaultOllamaEndpoint, provider.config.Endpoint)
}

func TestNewOpenAIProvider_InvalidEndpoint(t *testing.T) {
	_, err := NewOpenAIProvider(ProviderConfig{Endpoint: "ftp://example.com"})
	assert.Error(t, err)
}

func TestOpenAIBaseURL(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:8080/v1", "http://localhost:8080/v1"},
		{"http://localhost:8080/v1/", "http://localhost:8080/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, openAIBaseURL(tt.endpoint))
		})
	}
}

func TestOpenAIProvider_GenerateCommitMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
		assert.Contains(t, req.Messages[0].Content, "+new line")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Update parser\n\nLonger body"}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(ProviderConfig{Endpoint: server.URL, Model: "llama3"})
	require.NoError(t, err)

	resp, err := provider.GenerateCommitMessage(context.Background(), &GenerateRequest{Diff: "+new line"})
	require.NoError(t, err)
	assert.Equal(t, "Update parser", resp.Suggestion)
	assert.Equal(t, "Update parser\n\nLonger body", resp.RawText)
}

func TestOpenAIProvider_GenerateCommitMessage_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(ProviderConfig{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = provider.GenerateCommitMessage(context.Background(), &GenerateRequest{Diff: "d"})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInvalidResponse, appErr.Code)
}

func TestOpenAIProvider_GenerateCommitMessage_ServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(ProviderConfig{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = provider.GenerateCommitMessage(context.Background(), &GenerateRequest{Diff: "d"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInferenceError(err))
	assert.True(t, strings.Contains(err.Error(), "500"))
	assert.Equal(t, 1, calls, "failures must not be retried")
}

func TestOpenAIProvider_GenerateCommitMessage_NilRequest(t *testing.T) {
	provider, err := NewOpenAIProvider(ProviderConfig{})
	require.NoError(t, err)

	_, err = provider.GenerateCommitMessage(context.Background(), nil)
	assert.Error(t, err)
}

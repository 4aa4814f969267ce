package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"syscall"
	"time"

	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface against an OpenAI-compatible
// chat completions endpoint, such as the one Ollama serves under /v1.
type OpenAIProvider struct {
	client *openai.Client
	config ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(config ProviderConfig) (*OpenAIProvider, error) {
	if err := validateOpenAIConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultOllamaEndpoint
	}

	// Local servers do not check the token.
	clientConfig := openai.DefaultConfig("")
	clientConfig.BaseURL = openAIBaseURL(config.Endpoint)

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// openAIBaseURL appends /v1 to endpoint unless it is already there.
func openAIBaseURL(endpoint string) string {
	endpoint = strings.TrimRight(endpoint, "/")
	if strings.HasSuffix(endpoint, "/v1") {
		return endpoint
	}
	return endpoint + "/v1"
}

// validateOpenAIConfig validates the provider configuration.
func validateOpenAIConfig(config ProviderConfig) error {
	if config.Endpoint != "" &&
		!strings.HasPrefix(config.Endpoint, "http://") &&
		!strings.HasPrefix(config.Endpoint, "https://") {
		return errors.New("endpoint must start with http:// or https://")
	}
	if config.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// GenerateCommitMessage sends the diff as a single user message. Failures are not retried.
func (p *OpenAIProvider) GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	prompt, err := BuildPrompt(req.Diff)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Stream: false,
	}

	apperrors.LogAPIRequest("openai", p.config.Endpoint, p.config.Model, len(prompt))
	startTime := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		apperrors.LogAPIResponse("openai", statusOf(err), 0, time.Since(startTime))
		return nil, wrapAPIError(err)
	}

	responseLen := 0
	if len(resp.Choices) > 0 {
		responseLen = len(resp.Choices[0].Message.Content)
	}
	apperrors.LogAPIResponse("openai", http.StatusOK, responseLen, time.Since(startTime))

	if len(resp.Choices) == 0 {
		return nil, apperrors.NewInvalidResponseError("OpenAI-compatible server", errors.New("no choices in response"))
	}

	return newResponse(resp.Choices[0].Message.Content), nil
}

// statusOf extracts the HTTP status from a go-openai error, or 0.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// wrapAPIError maps a go-openai failure onto an inference AppError.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	if status := statusOf(err); status != 0 {
		if status == http.StatusNotFound {
			appErr := apperrors.Wrap(err, apperrors.ErrAIProviderFailed, "model or endpoint not found")
			appErr.WithSuggestion("Check inference.model and inference.endpoint")
			return appErr
		}
		return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("API error (status %d)", status))
	}

	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return apperrors.NewTimeoutError(err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused") {
		appErr := apperrors.NewNetworkError(err)
		appErr.WithSuggestion("Make sure Ollama is installed and running (ollama serve)")
		return appErr
	}

	return apperrors.NewAIProviderError("OpenAI-compatible server", err)
}

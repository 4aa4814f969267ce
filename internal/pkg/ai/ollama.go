package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	apperrors "github.com/commitassist/commitassist/internal/pkg/errors"
)

const (
	// DefaultOllamaModel is the default model for Ollama.
	DefaultOllamaModel = "mistral"

	// DefaultOllamaEndpoint is the default API endpoint for Ollama.
	DefaultOllamaEndpoint = "http://localhost:11434"

	// OllamaGeneratePath is the API path for single-shot completions.
	OllamaGeneratePath = "/api/generate"

	// maxErrorBody caps how much of an error response is kept for diagnostics.
	maxErrorBody = 512
)

// OllamaProvider implements the Provider interface for Ollama's generate API.
type OllamaProvider struct {
	httpClient *http.Client
	config     ProviderConfig
}

// OllamaGenerateRequest represents a request to the Ollama generate API.
type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// OllamaGenerateResponse represents a response from the Ollama generate API.
// Response is a pointer so a missing field can be told apart from an empty one.
type OllamaGenerateResponse struct {
	Model     string  `json:"model"`
	CreatedAt string  `json:"created_at"`
	Response  *string `json:"response"`
	Done      bool    `json:"done"`
	Error     string  `json:"error,omitempty"`
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(config ProviderConfig) (*OllamaProvider, error) {
	if err := validateOllamaConfig(config); err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultOllamaEndpoint
	}
	config.Endpoint = strings.TrimRight(config.Endpoint, "/")

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	return &OllamaProvider{
		httpClient: httpClient,
		config:     config,
	}, nil
}

// validateOllamaConfig validates the Ollama provider configuration.
func validateOllamaConfig(config ProviderConfig) error {
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
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// GenerateCommitMessage sends the diff to Ollama once and returns the first line
// of the answer. Failures are not retried.
func (p *OllamaProvider) GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	prompt, err := BuildPrompt(req.Diff)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	genReq := OllamaGenerateRequest{
		Model:  p.config.Model,
		Prompt: prompt,
		Stream: false,
	}

	apperrors.LogAPIRequest("generate", p.config.Endpoint, p.config.Model, len(prompt))
	startTime := time.Now()

	resp, status, err := p.doRequest(ctx, genReq)
	apperrors.LogAPIResponse("generate", status, responseLength(resp), time.Since(startTime))
	if err != nil {
		return nil, wrapOllamaAPIError(err)
	}

	if resp.Error != "" {
		return nil, apperrors.NewAIProviderError("Ollama", errors.New(resp.Error))
	}
	if resp.Response == nil {
		return nil, apperrors.NewInvalidResponseError("Ollama", errors.New(`response field missing`))
	}

	return newResponse(*resp.Response), nil
}

func responseLength(resp *OllamaGenerateResponse) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return len(*resp.Response)
}

// doRequest performs the HTTP request to the Ollama API.
func (p *OllamaProvider) doRequest(ctx context.Context, genReq OllamaGenerateRequest) (*OllamaGenerateResponse, int, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.config.Endpoint + OllamaGeneratePath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, httpResp.StatusCode, &OllamaAPIError{
			StatusCode: httpResp.StatusCode,
			Message:    msg,
		}
	}

	var resp OllamaGenerateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, httpResp.StatusCode, &malformedResponseError{err: err}
	}

	return &resp, httpResp.StatusCode, nil
}

// OllamaAPIError represents a non-2xx answer from the Ollama API.
type OllamaAPIError struct {
	StatusCode int
	Message    string
}

func (e *OllamaAPIError) Error() string {
	return fmt.Sprintf("ollama API error (status %d): %s", e.StatusCode, e.Message)
}

type malformedResponseError struct {
	err error
}

func (e *malformedResponseError) Error() string {
	return "failed to parse response: " + e.err.Error()
}

func (e *malformedResponseError) Unwrap() error { return e.err }

// wrapOllamaAPIError maps a request failure onto an inference AppError.
func wrapOllamaAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *OllamaAPIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			appErr := apperrors.Wrap(err, apperrors.ErrAIProviderFailed, "Ollama model not found")
			appErr.WithSuggestion("Pull the model first with 'ollama pull <model>'")
			return appErr
		case http.StatusServiceUnavailable:
			appErr := apperrors.Wrap(err, apperrors.ErrAIProviderFailed, "Ollama service unavailable")
			appErr.WithSuggestion("Make sure Ollama is installed and running (ollama serve)")
			return appErr
		default:
			return apperrors.Wrap(err, apperrors.ErrAIProviderFailed, fmt.Sprintf("Ollama API error (status %d)", apiErr.StatusCode))
		}
	}

	var malformed *malformedResponseError
	if errors.As(err, &malformed) {
		return apperrors.NewInvalidResponseError("Ollama", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		appErr := apperrors.NewTimeoutError(err)
		appErr.WithSuggestion("Increase inference.timeout or check that Ollama is responsive")
		return appErr
	}

	if errors.Is(err, syscall.ECONNREFUSED) || strings.Contains(err.Error(), "connection refused") {
		appErr := apperrors.NewNetworkError(err)
		appErr.Message = "cannot connect to Ollama"
		appErr.WithSuggestion("Make sure Ollama is installed and running (ollama serve)")
		return appErr
	}

	return apperrors.NewAIProviderError("Ollama", err)
}

// isTimeout reports whether err is a net.Error timeout, as produced by http.Client.Timeout.
func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

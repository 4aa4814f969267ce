// Package errors provides error types, formatting and logging utilities for commitassist.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

const (
	// User errors
	ErrNoStagedChanges ErrorCode = iota + 100
	ErrInvalidConfig
	ErrUserInput

	// VCS errors
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrGitNotFound

	// Inference errors
	ErrAIProviderFailed ErrorCode = iota + 300
	ErrNetworkError
	ErrTimeout
	ErrInvalidResponse
)

// ExitCode returns the process exit status for an error code.
// Every fatal error terminates with status 1; the code only selects the diagnostic.
func (c ErrorCode) ExitCode() int {
	return 1
}

// IsVCS reports whether the code describes a version-control failure.
func (c ErrorCode) IsVCS() bool {
	return c == ErrNoStagedChanges || (c >= 200 && c < 300)
}

// IsInference reports whether the code describes an inference failure.
func (c ErrorCode) IsInference() bool {
	return c >= 300 && c < 400
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNoStagedChanges:
		return "NoStagedChanges"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrUserInput:
		return "UserInput"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrGitNotFound:
		return "GitNotFound"
	case ErrAIProviderFailed:
		return "AIProviderFailed"
	case ErrNetworkError:
		return "NetworkError"
	case ErrTimeout:
		return "Timeout"
	case ErrInvalidResponse:
		return "InvalidResponse"
	default:
		return "Unknown"
	}
}

// AppError represents an application error with context.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1
}

// IsVCSError reports whether err carries a version-control error code.
func IsVCSError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code.IsVCS()
}

// IsInferenceError reports whether err carries an inference error code.
func IsInferenceError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code.IsInference()
}

// NewNoStagedChangesError creates an error for an empty staged diff.
func NewNoStagedChangesError() *AppError {
	return &AppError{
		Code:       ErrNoStagedChanges,
		Message:    "no staged changes found",
		Suggestion: "Run 'git add' first",
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'commitassist config list' to inspect the effective configuration",
	}
}

// NewGitError creates an error for a failed git subcommand.
// The command's diagnostic output, when present, becomes part of the message.
func NewGitError(subcommand string, err error, output string) *AppError {
	msg := fmt.Sprintf("git %s failed", subcommand)
	output = strings.TrimSpace(output)
	if output != "" {
		msg = fmt.Sprintf("%s: %s", msg, output)
	}
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: msg,
		Cause:   err,
	}
	if output != "" {
		appErr.WithContext("output", output)
	}
	return appErr
}

// NewGitNotFoundError creates an error for a missing git executable.
func NewGitNotFoundError(binary string, err error) *AppError {
	return &AppError{
		Code:       ErrGitNotFound,
		Message:    fmt.Sprintf("git executable %q not found", binary),
		Cause:      err,
		Suggestion: "Install git or set git.binary in the configuration",
	}
}

// NewNetworkError creates an error for network failures.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:       ErrNetworkError,
		Message:    "network error occurred",
		Cause:      err,
		Suggestion: "Please check that the inference server is reachable",
	}
}

// NewTimeoutError creates an error for timeouts.
func NewTimeoutError(err error) *AppError {
	return &AppError{
		Code:       ErrTimeout,
		Message:    "request timed out",
		Cause:      err,
		Suggestion: "Increase inference.timeout or check the inference server load",
	}
}

// NewAIProviderError creates an error for inference provider failures.
func NewAIProviderError(provider string, err error) *AppError {
	return &AppError{
		Code:    ErrAIProviderFailed,
		Message: fmt.Sprintf("%s provider error", provider),
		Cause:   err,
	}
}

// NewInvalidResponseError creates an error for a response that lacks the generated text.
func NewInvalidResponseError(provider string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidResponse,
		Message: fmt.Sprintf("malformed response from %s", provider),
		Cause:   err,
	}
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, SanitizeErrorMessage(err.Error())))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks anything that looks like an API key.
// Local servers rarely need one, but proxies in front of them do.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}

// apiKeyPattern matches common API key patterns.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`)

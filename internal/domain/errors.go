package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrRepositoryNotFound indicates every candidate branch name failed
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrFileNotFound indicates the requested path is absent from the tree
	ErrFileNotFound = errors.New("file not found")

	// ErrRateLimited indicates the provider signaled throttling
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidRepoURL indicates a repository URL could not be parsed
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")
)

// RemoteAPIError represents a non-success status from the listing or
// content API.
type RemoteAPIError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RemoteAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote API error for %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote API error for %s: status %d", e.Endpoint, e.StatusCode)
}

func (e *RemoteAPIError) Unwrap() error {
	return e.Err
}

// NewRemoteAPIError creates a new RemoteAPIError
func NewRemoteAPIError(endpoint string, statusCode int, err error) *RemoteAPIError {
	return &RemoteAPIError{Endpoint: endpoint, StatusCode: statusCode, Err: err}
}

// DecodeError indicates file content could not be interpreted as text.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error for %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FetchError represents a failure fetching a documentation page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode, Err: err}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 502, 503, 504:
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// IsNotFound reports whether err means "the resource does not exist", as
// opposed to a transport or server failure.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrRepositoryNotFound) || errors.Is(err, ErrFileNotFound) {
		return true
	}
	var apiErr *RemoteAPIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// =============================================================================
// LLM Errors
// =============================================================================

// LLM sentinel errors
var (
	// ErrLLMNotConfigured indicates LLM provider is not configured
	ErrLLMNotConfigured = errors.New("LLM provider not configured")

	// ErrLLMMissingAPIKey indicates API key is required but not provided
	ErrLLMMissingAPIKey = errors.New("LLM API key is required")

	// ErrLLMMissingModel indicates model is required but not provided
	ErrLLMMissingModel = errors.New("LLM model is required")

	// ErrLLMInvalidProvider indicates an invalid provider type
	ErrLLMInvalidProvider = errors.New("invalid LLM provider")

	// ErrLLMRateLimited indicates rate limit was exceeded
	ErrLLMRateLimited = errors.New("LLM rate limit exceeded")

	// ErrLLMAuthFailed indicates authentication failed
	ErrLLMAuthFailed = errors.New("LLM authentication failed")
)

// LLMError represents an LLM-specific error
type LLMError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// NewLLMError creates a new LLMError
func NewLLMError(provider string, statusCode int, message string, err error) *LLMError {
	return &LLMError{Provider: provider, StatusCode: statusCode, Message: message, Err: err}
}

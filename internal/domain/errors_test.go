package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "retryable error",
			err:  &RetryableError{Err: errors.New("boom")},
			want: true,
		},
		{
			name: "wrapped retryable error",
			err:  fmt.Errorf("outer: %w", &RetryableError{Err: errors.New("boom")}),
			want: true,
		},
		{
			name: "fetch error 429",
			err:  NewFetchError("https://example.com", 429, errors.New("HTTP 429")),
			want: true,
		},
		{
			name: "fetch error 503",
			err:  NewFetchError("https://example.com", 503, errors.New("HTTP 503")),
			want: true,
		},
		{
			name: "fetch error 404",
			err:  NewFetchError("https://example.com", 404, errors.New("HTTP 404")),
			want: false,
		},
		{
			name: "rate limited sentinel",
			err:  fmt.Errorf("github: %w", ErrRateLimited),
			want: true,
		},
		{
			name: "timeout sentinel",
			err:  ErrTimeout,
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrRepositoryNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrFileNotFound)))
	assert.True(t, IsNotFound(NewRemoteAPIError("https://api.github.com/x", 404, nil)))
	assert.False(t, IsNotFound(NewRemoteAPIError("https://api.github.com/x", 500, nil)))
	assert.False(t, IsNotFound(errors.New("boom")))
}

func TestRemoteAPIError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewRemoteAPIError("https://api.github.com/x", 502, inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "502")
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Path: "README.md", Err: errors.New("bad base64")}
	assert.Contains(t, err.Error(), "README.md")

	var decodeErr *DecodeError
	assert.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &decodeErr)
}

func TestLLMError(t *testing.T) {
	err := NewLLMError("openai", 401, "authentication failed", ErrLLMAuthFailed)
	assert.ErrorIs(t, err, ErrLLMAuthFailed)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "openai")
}

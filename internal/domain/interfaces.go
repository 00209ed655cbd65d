package domain

import (
	"context"
	"time"
)

// TreeFetcher lists and retrieves files from a remote repository.
type TreeFetcher interface {
	// ResolveBranch probes candidate branch names in order and returns
	// the first one the listing API accepts
	ResolveBranch(ctx context.Context, owner, name string) (string, error)
	// ListFiles returns the full file tree for a branch
	ListFiles(ctx context.Context, owner, name, branch string) ([]TreeEntry, error)
	// GetFileContent fetches and decodes one file
	GetFileContent(ctx context.Context, owner, name, path, branch string) (*FileContent, error)
}

// Normalizer converts documentation pages to LLM-ready Markdown.
type Normalizer interface {
	// FetchAndNormalize fetches one page and converts it to Markdown
	FetchAndNormalize(ctx context.Context, url string) (*DocumentPage, error)
	// FetchMany processes URLs sequentially with a politeness delay,
	// yielding one page per URL; per-page failures do not stop the batch
	FetchMany(ctx context.Context, urls []string) func(yield func(*DocumentPage) bool)
}

// Cache defines the interface for content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// Writer persists the generated digest.
type Writer interface {
	// Write saves a digest to disk
	Write(ctx context.Context, digest *Digest) error
}

// LLMProvider defines the interface for LLM interactions
type LLMProvider interface {
	// Name returns the provider name (openai, anthropic)
	Name() string
	// Complete sends a request and returns the response
	Complete(ctx context.Context, req *LLMRequest) (*LLMResponse, error)
	// Close releases resources
	Close() error
}

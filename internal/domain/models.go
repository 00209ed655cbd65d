package domain

import (
	"fmt"
	"strings"
	"time"
)

// EntryType classifies a tree entry as returned by the repository API.
type EntryType string

const (
	// EntryBlob is a regular file
	EntryBlob EntryType = "blob"
	// EntryTree is a directory
	EntryTree EntryType = "tree"
)

// RepositoryRef identifies a repository snapshot. Branch is resolved once
// per session via candidate probing and is fixed afterwards.
type RepositoryRef struct {
	Host   string
	Owner  string
	Name   string
	Branch string
}

// String returns the canonical owner/name form
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the browsable repository URL
func (r RepositoryRef) URL() string {
	host := r.Host
	if host == "" {
		host = "https://github.com"
	}
	return strings.TrimSuffix(host, "/") + "/" + r.Owner + "/" + r.Name
}

// ParseRepositoryRef extracts owner and name from a repository URL like
// https://github.com/owner/name (trailing slashes and .git are tolerated).
func ParseRepositoryRef(rawURL string) (RepositoryRef, error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(rawURL, "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return RepositoryRef{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, rawURL)
	}
	owner := parts[len(parts)-2]
	name := parts[len(parts)-1]
	if owner == "" || name == "" || strings.Contains(owner, ":") {
		return RepositoryRef{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, rawURL)
	}
	return RepositoryRef{Owner: owner, Name: name}, nil
}

// TreeEntry is one entry of a repository file listing. Entries are
// read-only and keep the ordering of the remote API response.
type TreeEntry struct {
	Path string
	Type EntryType
	Size int64
}

// IsFile reports whether the entry is a regular file
func (e TreeEntry) IsFile() bool {
	return e.Type == EntryBlob
}

// FileContent is the decoded text of a single repository file. Contents
// are fetched lazily, one file at a time, and never cached.
type FileContent struct {
	Path string
	Text string
}

// DocumentPage is a documentation page normalized to Markdown.
// The Markdown never contains text from excluded tag categories.
type DocumentPage struct {
	URL       string
	Title     string
	Markdown  string
	FetchedAt time.Time
	Err       error
}

// Empty reports whether the page yielded no extractable text
func (p *DocumentPage) Empty() bool {
	return strings.TrimSpace(p.Markdown) == ""
}

// OK reports whether the page was fetched and normalized successfully
func (p *DocumentPage) OK() bool {
	return p.Err == nil
}

// RepositoryInfo bundles everything the summarization chain consumes.
type RepositoryInfo struct {
	Ref          RepositoryRef
	FileTree     string // newline-joined sorted blob paths
	ReadmeText   string
	PackageFiles string // "=== path ===" delimited manifest contents
	DocPages     []*DocumentPage
}

// Digest is the final artifact written to disk.
type Digest struct {
	Ref         RepositoryRef
	Content     string
	GeneratedAt time.Time
	Model       string
}

// MessageRole represents the role in a conversation
type MessageRole string

const (
	// RoleSystem represents a system message
	RoleSystem MessageRole = "system"
	// RoleUser represents a user message
	RoleUser MessageRole = "user"
	// RoleAssistant represents an assistant message
	RoleAssistant MessageRole = "assistant"
)

// LLMMessage represents a message in the conversation
type LLMMessage struct {
	Role    MessageRole
	Content string
}

// LLMRequest represents a completion request
type LLMRequest struct {
	Messages    []LLMMessage
	MaxTokens   int      // 0 = use provider default
	Temperature *float64 // nil = use provider default
}

// LLMResponse represents the LLM response
type LLMResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        LLMUsage
}

// LLMUsage contains token usage statistics
type LLMUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

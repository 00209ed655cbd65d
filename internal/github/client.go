package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/OW-Research/llmsgen/internal/domain"
	"github.com/OW-Research/llmsgen/internal/utils"
)

const defaultBaseURL = "https://api.github.com"

// Client fetches repository trees and file contents over the GitHub REST
// API. Beyond the branch-candidate fallback it performs no automatic
// retries; transient errors propagate to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	branches   []string
	logger     *utils.Logger
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	BaseURL  string
	Token    string
	Branches []string
	Timeout  time.Duration
	Logger   *utils.Logger
}

// NewClient creates a new GitHub API client
func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	branches := opts.Branches
	if len(branches) == 0 {
		branches = []string{"main", "master"}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      opts.Token,
		branches:   branches,
		logger:     logger.WithComponent("github"),
	}
}

// ResolveBranch probes the candidate branch names in order against the
// tree listing endpoint and returns the first that exists. When every
// candidate is missing it returns ErrRepositoryNotFound.
func (c *Client) ResolveBranch(ctx context.Context, owner, name string) (string, error) {
	for _, branch := range c.branches {
		_, err := c.fetchTree(ctx, owner, name, branch)
		if err == nil {
			c.logger.Debug().Str("branch", branch).Msgf("resolved default branch for %s/%s", owner, name)
			return branch, nil
		}
		if domain.IsNotFound(err) {
			c.logger.Debug().Str("branch", branch).Msg("branch not found, trying next candidate")
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("%w: %s/%s (tried %s)", domain.ErrRepositoryNotFound, owner, name, strings.Join(c.branches, ", "))
}

// ListFiles returns the file tree of a branch in the order the API
// reports it. An empty repository yields an empty slice, not an error.
func (c *Client) ListFiles(ctx context.Context, owner, name, branch string) ([]domain.TreeEntry, error) {
	tree, err := c.fetchTree(ctx, owner, name, branch)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.TreeEntry, 0, len(tree.Tree))
	for _, item := range tree.Tree {
		entries = append(entries, domain.TreeEntry{
			Path: item.Path,
			Type: domain.EntryType(item.Type),
			Size: item.Size,
		})
	}

	if tree.Truncated {
		c.logger.Warn().Int("entries", len(entries)).Msg("tree listing truncated by the API")
	}

	return entries, nil
}

// GetFileContent fetches one file's raw content, base64-decoding the API
// payload. A missing path yields ErrFileNotFound; content that cannot be
// interpreted as text yields a DecodeError.
func (c *Client) GetFileContent(ctx context.Context, owner, name, path, branch string) (*domain.FileContent, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, name, escapePath(path))
	if branch != "" {
		endpoint += "?ref=" + url.QueryEscape(branch)
	}

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if status != http.StatusOK {
		return nil, c.statusError(endpoint, status, body)
	}

	var content contentResponse
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, domain.NewRemoteAPIError(endpoint, status, err)
	}

	return decodeContent(path, &content)
}

func (c *Client) fetchTree(ctx context.Context, owner, name, branch string) (*treeResponse, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL, owner, name, url.PathEscape(branch))

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, c.statusError(endpoint, status, body)
	}

	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, domain.NewRemoteAPIError(endpoint, status, err)
	}

	return &tree, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, domain.NewRemoteAPIError(endpoint, 0, err)
	}
	defer resp.Body.Close()

	if isRateLimited(resp) {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", domain.ErrRateLimited, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, domain.NewRemoteAPIError(endpoint, resp.StatusCode, err)
	}

	return body, resp.StatusCode, nil
}

func (c *Client) statusError(endpoint string, status int, body []byte) error {
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return domain.NewRemoteAPIError(endpoint, status, fmt.Errorf("%s", apiErr.Message))
	}
	return domain.NewRemoteAPIError(endpoint, status, nil)
}

// isRateLimited distinguishes throttling from a plain 403/404 so callers
// can back off or surface a clear message.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func decodeContent(path string, content *contentResponse) (*domain.FileContent, error) {
	switch content.Encoding {
	case "base64", "":
		// The API inserts newlines into base64 payloads
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
		if err != nil {
			return nil, &domain.DecodeError{Path: path, Err: err}
		}
		if !utf8.Valid(raw) {
			return nil, &domain.DecodeError{Path: path, Err: fmt.Errorf("content is not valid UTF-8 text")}
		}
		return &domain.FileContent{Path: path, Text: string(raw)}, nil
	default:
		return nil, &domain.DecodeError{Path: path, Err: fmt.Errorf("unsupported encoding %q", content.Encoding)}
	}
}

// escapePath escapes each path segment while preserving separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// Ensure Client implements domain.TreeFetcher
var _ domain.TreeFetcher = (*Client)(nil)

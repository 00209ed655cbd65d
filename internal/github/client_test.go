package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OW-Research/llmsgen/internal/domain"
)

func newTestClient(serverURL string, branches ...string) *Client {
	return NewClient(ClientOptions{
		BaseURL:  serverURL,
		Branches: branches,
		Timeout:  5 * time.Second,
	})
}

func treeHandler(t *testing.T, branches map[string][]treeEntry) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		for branch, entries := range branches {
			if r.URL.Path == "/repos/owner/repo/git/trees/"+branch {
				assert.Equal(t, "1", r.URL.Query().Get("recursive"))
				_ = json.NewEncoder(w).Encode(treeResponse{SHA: "abc", Tree: entries})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}
}

func TestClient_ResolveBranch_Main(t *testing.T) {
	server := httptest.NewServer(treeHandler(t, map[string][]treeEntry{
		"main": {{Path: "README.md", Type: "blob"}},
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main", "master")

	branch, err := client.ResolveBranch(context.Background(), "owner", "repo")

	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestClient_ResolveBranch_FallsBackToMaster(t *testing.T) {
	server := httptest.NewServer(treeHandler(t, map[string][]treeEntry{
		"master": {{Path: "README.md", Type: "blob"}},
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main", "master")

	branch, err := client.ResolveBranch(context.Background(), "owner", "repo")

	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestClient_ResolveBranch_AllCandidatesFail(t *testing.T) {
	server := httptest.NewServer(treeHandler(t, nil))
	defer server.Close()

	client := newTestClient(server.URL, "main", "master")

	_, err := client.ResolveBranch(context.Background(), "owner", "repo")

	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
	assert.Contains(t, err.Error(), "main")
	assert.Contains(t, err.Error(), "master")
}

func TestClient_ResolveBranch_ServerErrorStopsProbing(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main", "master")

	_, err := client.ResolveBranch(context.Background(), "owner", "repo")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRepositoryNotFound)
	assert.Equal(t, 1, calls)
}

func TestClient_ListFiles(t *testing.T) {
	server := httptest.NewServer(treeHandler(t, map[string][]treeEntry{
		"main": {
			{Path: "cmd", Type: "tree"},
			{Path: "cmd/main.go", Type: "blob", Size: 120},
			{Path: "README.md", Type: "blob", Size: 42},
		},
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	entries, err := client.ListFiles(context.Background(), "owner", "repo", "main")

	require.NoError(t, err)
	require.Len(t, entries, 3)
	// API ordering is preserved
	assert.Equal(t, "cmd", entries[0].Path)
	assert.False(t, entries[0].IsFile())
	assert.Equal(t, "cmd/main.go", entries[1].Path)
	assert.True(t, entries[1].IsFile())
	assert.Equal(t, int64(42), entries[2].Size)
}

func TestClient_ListFiles_EmptyRepository(t *testing.T) {
	server := httptest.NewServer(treeHandler(t, map[string][]treeEntry{
		"main": {},
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	entries, err := client.ListFiles(context.Background(), "owner", "repo", "main")

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestClient_GetFileContent(t *testing.T) {
	original := "# Hello\n\nSome *Markdown* with unicode: héllo wörld\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/contents/docs/intro.md", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))

		// The API wraps base64 payloads with newlines
		encoded := base64.StdEncoding.EncodeToString([]byte(original))
		wrapped := encoded[:20] + "\n" + encoded[20:]

		_ = json.NewEncoder(w).Encode(contentResponse{
			Path:     "docs/intro.md",
			Type:     "file",
			Content:  wrapped,
			Encoding: "base64",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	file, err := client.GetFileContent(context.Background(), "owner", "repo", "docs/intro.md", "main")

	require.NoError(t, err)
	assert.Equal(t, original, file.Text)
	assert.Equal(t, "docs/intro.md", file.Path)
}

func TestClient_GetFileContent_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	_, err := client.GetFileContent(context.Background(), "owner", "repo", "missing.md", "main")

	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestClient_GetFileContent_InvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(contentResponse{
			Path:     "file.bin",
			Type:     "file",
			Content:  "!!!not-base64!!!",
			Encoding: "base64",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	_, err := client.GetFileContent(context.Background(), "owner", "repo", "file.bin", "main")

	var decodeErr *domain.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "file.bin", decodeErr.Path)
}

func TestClient_GetFileContent_BinaryContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(contentResponse{
			Path:     "logo.png",
			Type:     "file",
			Content:  base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47, 0xff, 0xfe}),
			Encoding: "base64",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	_, err := client.GetFileContent(context.Background(), "owner", "repo", "logo.png", "main")

	var decodeErr *domain.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestClient_RateLimited(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header string
	}{
		{name: "429", status: http.StatusTooManyRequests},
		{name: "403 with exhausted quota", status: http.StatusForbidden, header: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("X-RateLimit-Remaining", tt.header)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL, "main")

			_, err := client.ListFiles(context.Background(), "owner", "repo", "main")

			assert.ErrorIs(t, err, domain.ErrRateLimited)
		})
	}
}

func TestClient_Forbidden_NotRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Must have push access"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	_, err := client.ListFiles(context.Background(), "owner", "repo", "main")

	assert.NotErrorIs(t, err, domain.ErrRateLimited)

	var apiErr *domain.RemoteAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Must have push access")
}

func TestClient_SendsAuthAndAcceptHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		_ = json.NewEncoder(w).Encode(treeResponse{Tree: []treeEntry{}})
	}))
	defer server.Close()

	client := NewClient(ClientOptions{
		BaseURL:  server.URL,
		Token:    "secret-token",
		Branches: []string{"main"},
	})

	_, err := client.ListFiles(context.Background(), "owner", "repo", "main")
	require.NoError(t, err)
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(treeResponse{Tree: []treeEntry{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	_, err := client.ListFiles(context.Background(), "owner", "repo", "main")
	require.NoError(t, err)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "docs/getting%20started.md", escapePath("docs/getting started.md"))
	assert.Equal(t, "README.md", escapePath("README.md"))
}

func TestClient_GetFileContent_PathWithSpaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/contents/docs/getting started.md", r.URL.Path)
		_ = json.NewEncoder(w).Encode(contentResponse{
			Content:  base64.StdEncoding.EncodeToString([]byte("hi")),
			Encoding: "base64",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	file, err := client.GetFileContent(context.Background(), "owner", "repo", "docs/getting started.md", "")
	require.NoError(t, err)
	assert.Equal(t, "hi", file.Text)
}

func TestClient_TruncatedTreeStillReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"abc","truncated":true,"tree":[{"path":"a.go","type":"blob"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "main")

	entries, err := client.ListFiles(context.Background(), "owner", "repo", "main")

	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

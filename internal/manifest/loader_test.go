package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	loader := NewLoader()

	cfg, err := loader.Load("/nonexistent/path/manifest.yaml")

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoader_Load_ValidYAML(t *testing.T) {
	path := writeManifest(t, "sources.yaml", `
sources:
  - repo: https://github.com/stanfordnlp/dspy
    docs:
      - https://dspy.ai/docs/intro
      - https://dspy.ai/docs/modules
  - repo: https://github.com/rs/zerolog
    branch: master
    output: zerolog-llms.txt
options:
  continue_on_error: true
  output_dir: ./digests
  delay: 2s
  cache_ttl: 1h
`)

	cfg, err := NewLoader().Load(path)

	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)

	assert.Equal(t, "https://github.com/stanfordnlp/dspy", cfg.Sources[0].Repo)
	assert.Len(t, cfg.Sources[0].Docs, 2)
	assert.Equal(t, "master", cfg.Sources[1].Branch)
	assert.Equal(t, "zerolog-llms.txt", cfg.Sources[1].Output)

	assert.True(t, cfg.Options.ContinueOnError)
	assert.Equal(t, "./digests", cfg.Options.OutputDir)
	assert.Equal(t, Duration(2*time.Second), cfg.Options.Delay)
	assert.Equal(t, Duration(time.Hour), cfg.Options.CacheTTL)
}

func TestLoader_Load_ValidJSON(t *testing.T) {
	path := writeManifest(t, "sources.json", `{
  "sources": [
    {"repo": "https://github.com/golang/go", "docs": ["https://go.dev/doc/"]}
  ],
  "options": {"continue_on_error": false}
}`)

	cfg, err := NewLoader().Load(path)

	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "https://github.com/golang/go", cfg.Sources[0].Repo)
	assert.False(t, cfg.Options.ContinueOnError)
}

func TestLoader_Load_AppliesDefaults(t *testing.T) {
	path := writeManifest(t, "min.yaml", `
sources:
  - repo: https://github.com/golang/go
`)

	cfg, err := NewLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().OutputDir, cfg.Options.OutputDir)
	// Zero means the application configuration values apply
	assert.Zero(t, cfg.Options.Delay)
	assert.Zero(t, cfg.Options.CacheTTL)
}

func TestLoader_Load_DurationInJSON(t *testing.T) {
	path := writeManifest(t, "sources.json", `{
  "sources": [{"repo": "https://github.com/golang/go"}],
  "options": {"delay": "500ms", "cache_ttl": "30m"}
}`)

	cfg, err := NewLoader().Load(path)

	require.NoError(t, err)
	assert.Equal(t, Duration(500*time.Millisecond), cfg.Options.Delay)
	assert.Equal(t, Duration(30*time.Minute), cfg.Options.CacheTTL)
}

func TestLoader_Load_InvalidDuration(t *testing.T) {
	path := writeManifest(t, "bad-delay.yaml", `
sources:
  - repo: https://github.com/golang/go
options:
  delay: soon
`)

	_, err := NewLoader().Load(path)

	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoader_Load_InvalidDocsURL(t *testing.T) {
	path := writeManifest(t, "bad-docs.yaml", `
sources:
  - repo: https://github.com/golang/go
    docs: ["ftp://example.com/manual"]
`)

	_, err := NewLoader().Load(path)

	assert.ErrorIs(t, err, ErrInvalidDocsURL)
}

func TestLoader_Load_NoSources(t *testing.T) {
	path := writeManifest(t, "empty.yaml", `options: {continue_on_error: true}`)

	_, err := NewLoader().Load(path)

	assert.ErrorIs(t, err, ErrNoSources)
}

func TestLoader_Load_EmptyRepo(t *testing.T) {
	path := writeManifest(t, "bad.yaml", `
sources:
  - docs: ["https://example.com"]
`)

	_, err := NewLoader().Load(path)

	assert.ErrorIs(t, err, ErrEmptyRepo)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	path := writeManifest(t, "broken.yaml", "sources: [not: valid: yaml:")

	_, err := NewLoader().Load(path)

	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestLoader_LoadFromBytes_UnsupportedExtension(t *testing.T) {
	_, err := NewLoader().LoadFromBytes([]byte("sources: []"), ".toml")

	assert.ErrorIs(t, err, ErrUnsupportedExt)
}

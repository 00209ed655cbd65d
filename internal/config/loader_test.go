package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(viper.New())

	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.GitHub.APIBaseURL)
	assert.Equal(t, DefaultBranchCandidates(), cfg.GitHub.Branches)
	assert.Equal(t, DefaultAPITimeout, cfg.GitHub.Timeout)
	assert.Equal(t, DefaultPolitenessDelay, cfg.Docs.Delay)
	assert.Equal(t, DefaultDocTimeout, cfg.Docs.Timeout)
	assert.Equal(t, DefaultExcludeTags(), cfg.Docs.ExcludeTags)
	assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultLLMMaxTokens, cfg.LLM.MaxTokens)
}

func TestLoadWith_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configYAML := `
github:
  token: file-token
  branches: [develop, main]
docs:
  delay: 3s
  urls:
    - https://docs.example.com/a
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0644))

	v := viper.New()
	v.AddConfigPath(dir)

	cfg, err := LoadWith(v)

	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.GitHub.Token)
	assert.Equal(t, []string{"develop", "main"}, cfg.GitHub.Branches)
	assert.Equal(t, 3*time.Second, cfg.Docs.Delay)
	assert.Equal(t, []string{"https://docs.example.com/a"}, cfg.Docs.URLs)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
}

func TestLoadWith_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LLMSGEN_GITHUB_TOKEN", "env-token")
	t.Setenv("LLMSGEN_LLM_API_KEY", "env-api-key")

	cfg, err := LoadWith(viper.New())

	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.GitHub.Token)
	assert.Equal(t, "env-api-key", cfg.LLM.APIKey)
}

func TestConfig_Validate_AppliesFloors(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultBranchCandidates(), cfg.GitHub.Branches)
	assert.Equal(t, DefaultAPITimeout, cfg.GitHub.Timeout)
	assert.Equal(t, DefaultDocTimeout, cfg.Docs.Timeout)
	assert.Equal(t, DefaultPolitenessDelay, cfg.Docs.Delay)
	assert.Equal(t, DefaultExcludeTags(), cfg.Docs.ExcludeTags)
	assert.Equal(t, DefaultOutputPath, cfg.Output.Path)
}

func TestConfig_Validate_KeepsExplicitValues(t *testing.T) {
	cfg := Default()
	cfg.GitHub.Branches = []string{"develop"}
	cfg.Docs.Delay = 5 * time.Second

	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"develop"}, cfg.GitHub.Branches)
	assert.Equal(t, 5*time.Second, cfg.Docs.Delay)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultAPIBaseURL, cfg.GitHub.APIBaseURL)
	assert.Equal(t, DefaultPolitenessDelay, cfg.Docs.Delay)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	require.NoError(t, cfg.Validate())
}

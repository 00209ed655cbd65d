package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultAPIBaseURL = "https://api.github.com"

	DefaultAPITimeout      = 30 * time.Second
	DefaultDocTimeout      = 30 * time.Second
	DefaultPolitenessDelay = 1 * time.Second
	DefaultDocMaxRetries   = 3

	DefaultOutputPath = "llms.txt"

	DefaultCacheEnabled = false
	DefaultCacheTTL     = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	DefaultLLMMaxTokens         = 4096
	DefaultLLMTimeout           = 120 * time.Second
	DefaultLLMRequestsPerMinute = 30
)

// DefaultBranchCandidates returns the branch names probed in order.
// Remote hosts inconsistently default to one of the two.
func DefaultBranchCandidates() []string {
	return []string{"main", "master"}
}

// DefaultExcludeTags returns the tag categories stripped before
// Markdown conversion.
func DefaultExcludeTags() []string {
	return []string{"script", "style", "noscript", "iframe", "nav", "header", "footer", "aside", "form"}
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".llmsgen"
	}
	return filepath.Join(home, ".llmsgen")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIBaseURL: DefaultAPIBaseURL,
			Branches:   DefaultBranchCandidates(),
			Timeout:    DefaultAPITimeout,
		},
		Docs: DocsConfig{
			Delay:       DefaultPolitenessDelay,
			Timeout:     DefaultDocTimeout,
			MaxRetries:  DefaultDocMaxRetries,
			ExcludeTags: DefaultExcludeTags(),
		},
		Output: OutputConfig{
			Path: DefaultOutputPath,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		LLM: LLMConfig{
			MaxTokens:         DefaultLLMMaxTokens,
			Timeout:           DefaultLLMTimeout,
			RequestsPerMinute: DefaultLLMRequestsPerMinute,
		},
	}
}

package config

import (
	"time"
)

// Config represents the application configuration. It is assembled once
// at process start and passed into component constructors; fetch logic
// never reads the environment directly.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Docs    DocsConfig    `mapstructure:"docs" yaml:"docs"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
}

// GitHubConfig contains repository API settings
type GitHubConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	Token      string        `mapstructure:"token" yaml:"token"`
	Branches   []string      `mapstructure:"branches" yaml:"branches"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DocsConfig contains documentation fetching settings
type DocsConfig struct {
	URLs        []string      `mapstructure:"urls" yaml:"urls"`
	Delay       time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent   string        `mapstructure:"user_agent" yaml:"user_agent"`
	ExcludeTags []string      `mapstructure:"exclude_tags" yaml:"exclude_tags"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	PagesDir  string `mapstructure:"pages_dir" yaml:"pages_dir"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite"`
	DryRun    bool   `mapstructure:"dry_run" yaml:"dry_run"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LLMConfig contains LLM provider settings
type LLMConfig struct {
	Provider          string        `mapstructure:"provider" yaml:"provider"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	Model             string        `mapstructure:"model" yaml:"model"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// Validate validates the configuration and applies floors for values
// that would otherwise hang or hammer remote servers.
func (c *Config) Validate() error {
	if len(c.GitHub.Branches) == 0 {
		c.GitHub.Branches = DefaultBranchCandidates()
	}
	if c.GitHub.Timeout < time.Second {
		c.GitHub.Timeout = DefaultAPITimeout
	}
	if c.Docs.Timeout < time.Second {
		c.Docs.Timeout = DefaultDocTimeout
	}
	if c.Docs.Delay <= 0 {
		c.Docs.Delay = DefaultPolitenessDelay
	}
	if c.Docs.MaxRetries < 0 {
		c.Docs.MaxRetries = 0
	}
	if len(c.Docs.ExcludeTags) == 0 {
		c.Docs.ExcludeTags = DefaultExcludeTags()
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	return nil
}

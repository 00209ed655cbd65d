package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	return load(viper.GetViper())
}

// LoadWith loads configuration with an explicit viper instance, which
// keeps tests isolated from global flag bindings.
func LoadWith(v *viper.Viper) (*Config, error) {
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (LLMSGEN_*), e.g. LLMSGEN_GITHUB_TOKEN,
	// LLMSGEN_LLM_API_KEY
	v.SetEnvPrefix("LLMSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper. Every key gets a default,
// even empty ones, so AutomaticEnv can surface it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_base_url", DefaultAPIBaseURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.branches", DefaultBranchCandidates())
	v.SetDefault("github.timeout", DefaultAPITimeout)

	v.SetDefault("docs.urls", []string{})
	v.SetDefault("docs.delay", DefaultPolitenessDelay)
	v.SetDefault("docs.timeout", DefaultDocTimeout)
	v.SetDefault("docs.max_retries", DefaultDocMaxRetries)
	v.SetDefault("docs.user_agent", "")
	v.SetDefault("docs.exclude_tags", DefaultExcludeTags())

	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("output.pages_dir", "")
	v.SetDefault("output.overwrite", false)
	v.SetDefault("output.dry_run", false)

	v.SetDefault("cache.enabled", DefaultCacheEnabled)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", CacheDir())

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", DefaultLLMMaxTokens)
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.requests_per_minute", DefaultLLMRequestsPerMinute)
}

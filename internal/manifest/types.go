package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/OW-Research/llmsgen/internal/utils"
)

// Duration is a time.Duration that unmarshals from strings like "5s" or
// "1h30m" in both YAML and JSON manifests.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.parse(raw)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.parse(raw)
}

func (d *Duration) parse(raw string) error {
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %v", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config represents the complete manifest configuration
type Config struct {
	Sources []Source `yaml:"sources" json:"sources"`
	Options Options  `yaml:"options" json:"options"`
}

// Source describes one repository to digest and the documentation
// pages that accompany it.
type Source struct {
	Repo   string   `yaml:"repo" json:"repo"`
	Docs   []string `yaml:"docs,omitempty" json:"docs,omitempty"`
	Output string   `yaml:"output,omitempty" json:"output,omitempty"`
	Branch string   `yaml:"branch,omitempty" json:"branch,omitempty"`
}

// Options represents global manifest options. A zero Delay or CacheTTL
// keeps the application configuration value.
type Options struct {
	ContinueOnError bool     `yaml:"continue_on_error" json:"continue_on_error"`
	OutputDir       string   `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	Delay           Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	CacheTTL        Duration `yaml:"cache_ttl,omitempty" json:"cache_ttl,omitempty"`
}

// Validate validates the manifest configuration
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}
	for i, src := range c.Sources {
		if src.Repo == "" {
			return fmt.Errorf("source %d: %w", i, ErrEmptyRepo)
		}
		for _, u := range src.Docs {
			if !utils.IsHTTPURL(u) {
				return fmt.Errorf("source %d: %w: %s", i, ErrInvalidDocsURL, u)
			}
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Options.OutputDir == "" {
		c.Options.OutputDir = DefaultOptions().OutputDir
	}
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		ContinueOnError: false,
		OutputDir:       ".",
	}
}

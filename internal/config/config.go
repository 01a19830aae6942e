// Package config handles configuration loading and management for inksmith.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for inksmith.
type Config struct {
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Search     SearchConfig     `mapstructure:"search"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"`
	Timeouts   TimeoutsConfig   `mapstructure:"timeouts"`
	Validation ValidationConfig `mapstructure:"validation"`
	Output     OutputConfig     `mapstructure:"output"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey        string `mapstructure:"api_key"`
	VectorStoreID string `mapstructure:"vector_store_id"`
}

// AnthropicConfig holds settings for the alternate Anthropic provider.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	// UseBedrock routes Anthropic calls through AWS Bedrock.
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// SearchConfig holds web search settings.
type SearchConfig struct {
	SerperAPIKey string `mapstructure:"serper_api_key"`
	// MaxResults caps results taken per web query.
	MaxResults int `mapstructure:"max_results"`
}

// CacheConfig holds verification cache settings.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// DefaultsConfig holds default values for generation requests.
type DefaultsConfig struct {
	Words    int    `mapstructure:"words"`
	Audience string `mapstructure:"audience"`
	Tone     string `mapstructure:"tone"`
	Model    string `mapstructure:"model"`
	// Provider selects the LLM backend: "openai" or "anthropic".
	Provider string `mapstructure:"provider"`
}

// TimeoutsConfig holds per-phase timeout settings.
type TimeoutsConfig struct {
	Research     time.Duration `mapstructure:"research"`
	Synthesis    time.Duration `mapstructure:"synthesis"`
	Writing      time.Duration `mapstructure:"writing"`
	Validation   time.Duration `mapstructure:"validation"`
	Distribution time.Duration `mapstructure:"distribution"`
	// URLCheck is the per-request timeout for citation liveness probes.
	URLCheck time.Duration `mapstructure:"url_check"`
}

// ValidationConfig holds validation gate thresholds.
type ValidationConfig struct {
	// MinSources is the minimum number of cited sources in the metadata file.
	MinSources int `mapstructure:"min_sources"`
	// MinVerifiedRatio is the required share of verified claims.
	MinVerifiedRatio float64 `mapstructure:"min_verified_ratio"`
	// MaxIterations bounds the revision loop after a rejection.
	MaxIterations int `mapstructure:"max_iterations"`
	// CheckURLs enables live HTTP probes of cited URLs.
	CheckURLs bool `mapstructure:"check_urls"`
}

// OutputConfig holds output bundle settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (OPENAI_API_KEY, SERPER_API_KEY, ...)
// 2. Project config (.inksmith.yaml in current directory or parent)
// 3. User config (~/.config/inksmith/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.vector_store_id", "OPENAI_VECTOR_STORE_ID", "VECTOR_STORE_ID")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("search.serper_api_key", "SERPER_API_KEY")
	v.BindEnv("cache.redis_url", "REDIS_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.OpenAI.APIKey = os.ExpandEnv(cfg.OpenAI.APIKey)
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.Search.SerperAPIKey = os.ExpandEnv(cfg.Search.SerperAPIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.OpenAI.APIKey = os.ExpandEnv(cfg.OpenAI.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("openai.api_key", cfg.OpenAI.APIKey)
	v.Set("openai.vector_store_id", cfg.OpenAI.VectorStoreID)
	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("search.serper_api_key", cfg.Search.SerperAPIKey)
	v.Set("search.max_results", cfg.Search.MaxResults)
	v.Set("cache.redis_url", cfg.Cache.RedisURL)
	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("defaults.words", cfg.Defaults.Words)
	v.Set("defaults.audience", cfg.Defaults.Audience)
	v.Set("defaults.tone", cfg.Defaults.Tone)
	v.Set("defaults.model", cfg.Defaults.Model)
	v.Set("defaults.provider", cfg.Defaults.Provider)
	v.Set("timeouts.research", cfg.Timeouts.Research.String())
	v.Set("timeouts.synthesis", cfg.Timeouts.Synthesis.String())
	v.Set("timeouts.writing", cfg.Timeouts.Writing.String())
	v.Set("timeouts.validation", cfg.Timeouts.Validation.String())
	v.Set("timeouts.distribution", cfg.Timeouts.Distribution.String())
	v.Set("timeouts.url_check", cfg.Timeouts.URLCheck.String())
	v.Set("validation.min_sources", cfg.Validation.MinSources)
	v.Set("validation.min_verified_ratio", cfg.Validation.MinVerifiedRatio)
	v.Set("validation.max_iterations", cfg.Validation.MaxIterations)
	v.Set("validation.check_urls", cfg.Validation.CheckURLs)
	v.Set("output.dir", cfg.Output.Dir)
	v.Set("output.prefix", cfg.Output.Prefix)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.vector_store_id", "")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.use_bedrock", false)

	v.SetDefault("search.serper_api_key", "")
	v.SetDefault("search.max_results", 8)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("defaults.words", 1750)
	v.SetDefault("defaults.audience", "sophisticated retail investors")
	v.SetDefault("defaults.tone", "analytical")
	v.SetDefault("defaults.model", "gpt-4.1")
	v.SetDefault("defaults.provider", "openai")

	// Phase timeouts sit in the middle of observed LLM round-trip latency.
	v.SetDefault("timeouts.research", "45s")
	v.SetDefault("timeouts.synthesis", "60s")
	v.SetDefault("timeouts.writing", "120s")
	v.SetDefault("timeouts.validation", "75s")
	v.SetDefault("timeouts.distribution", "60s")
	v.SetDefault("timeouts.url_check", "5s")

	v.SetDefault("validation.min_sources", 5)
	v.SetDefault("validation.min_verified_ratio", 0.90)
	v.SetDefault("validation.max_iterations", 2)
	v.SetDefault("validation.check_urls", false)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.prefix", "inksmith")
}

// getUserConfigDir returns the XDG config directory for inksmith.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "inksmith")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "inksmith")
	}
	return filepath.Join(home, ".config", "inksmith")
}

// findProjectConfig searches for .inksmith.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".inksmith.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Search: SearchConfig{MaxResults: 8},
		Cache:  CacheConfig{TTL: 24 * time.Hour},
		Defaults: DefaultsConfig{
			Words:    1750,
			Audience: "sophisticated retail investors",
			Tone:     "analytical",
			Model:    "gpt-4.1",
			Provider: "openai",
		},
		Timeouts: TimeoutsConfig{
			Research:     45 * time.Second,
			Synthesis:    60 * time.Second,
			Writing:      120 * time.Second,
			Validation:   75 * time.Second,
			Distribution: 60 * time.Second,
			URLCheck:     5 * time.Second,
		},
		Validation: ValidationConfig{
			MinSources:       5,
			MinVerifiedRatio: 0.90,
			MaxIterations:    2,
			CheckURLs:        false,
		},
		Output: OutputConfig{
			Dir:    "output",
			Prefix: "inksmith",
		},
	}
}

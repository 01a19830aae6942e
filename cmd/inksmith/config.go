package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inksmith-ai/inksmith/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify inksmith configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/inksmith/config.yaml
Project-specific overrides can be placed in .inksmith.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("openai.api_key: %s\n", config.MaskKey(cfg.OpenAI.APIKey))
	fmt.Printf("openai.vector_store_id: %s\n", orNotSet(cfg.OpenAI.VectorStoreID))
	fmt.Printf("anthropic.api_key: %s\n", config.MaskKey(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("search.serper_api_key: %s\n", config.MaskKey(cfg.Search.SerperAPIKey))
	fmt.Printf("search.max_results: %d\n", cfg.Search.MaxResults)
	fmt.Printf("cache.redis_url: %s\n", orNotSet(cfg.Cache.RedisURL))
	fmt.Printf("defaults.words: %d\n", cfg.Defaults.Words)
	fmt.Printf("defaults.audience: %s\n", cfg.Defaults.Audience)
	fmt.Printf("defaults.tone: %s\n", cfg.Defaults.Tone)
	fmt.Printf("defaults.model: %s\n", cfg.Defaults.Model)
	fmt.Printf("defaults.provider: %s\n", cfg.Defaults.Provider)
	fmt.Printf("timeouts.research: %s\n", cfg.Timeouts.Research)
	fmt.Printf("timeouts.synthesis: %s\n", cfg.Timeouts.Synthesis)
	fmt.Printf("timeouts.writing: %s\n", cfg.Timeouts.Writing)
	fmt.Printf("timeouts.validation: %s\n", cfg.Timeouts.Validation)
	fmt.Printf("timeouts.distribution: %s\n", cfg.Timeouts.Distribution)
	fmt.Printf("validation.min_sources: %d\n", cfg.Validation.MinSources)
	fmt.Printf("validation.min_verified_ratio: %.2f\n", cfg.Validation.MinVerifiedRatio)
	fmt.Printf("validation.max_iterations: %d\n", cfg.Validation.MaxIterations)
	fmt.Printf("validation.check_urls: %t\n", cfg.Validation.CheckURLs)
	fmt.Printf("output.dir: %s\n", cfg.Output.Dir)
	fmt.Printf("output.prefix: %s\n", cfg.Output.Prefix)
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "openai.api_key":
		return config.MaskKey(cfg.OpenAI.APIKey), nil
	case "openai.vector_store_id":
		return orNotSet(cfg.OpenAI.VectorStoreID), nil
	case "anthropic.api_key":
		return config.MaskKey(cfg.Anthropic.APIKey), nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "search.serper_api_key":
		return config.MaskKey(cfg.Search.SerperAPIKey), nil
	case "search.max_results":
		return strconv.Itoa(cfg.Search.MaxResults), nil
	case "cache.redis_url":
		return orNotSet(cfg.Cache.RedisURL), nil
	case "defaults.words":
		return strconv.Itoa(cfg.Defaults.Words), nil
	case "defaults.audience":
		return cfg.Defaults.Audience, nil
	case "defaults.tone":
		return cfg.Defaults.Tone, nil
	case "defaults.model":
		return cfg.Defaults.Model, nil
	case "defaults.provider":
		return cfg.Defaults.Provider, nil
	case "timeouts.research":
		return cfg.Timeouts.Research.String(), nil
	case "timeouts.synthesis":
		return cfg.Timeouts.Synthesis.String(), nil
	case "timeouts.writing":
		return cfg.Timeouts.Writing.String(), nil
	case "timeouts.validation":
		return cfg.Timeouts.Validation.String(), nil
	case "timeouts.distribution":
		return cfg.Timeouts.Distribution.String(), nil
	case "validation.min_sources":
		return strconv.Itoa(cfg.Validation.MinSources), nil
	case "validation.min_verified_ratio":
		return strconv.FormatFloat(cfg.Validation.MinVerifiedRatio, 'f', 2, 64), nil
	case "validation.max_iterations":
		return strconv.Itoa(cfg.Validation.MaxIterations), nil
	case "validation.check_urls":
		return strconv.FormatBool(cfg.Validation.CheckURLs), nil
	case "output.dir":
		return cfg.Output.Dir, nil
	case "output.prefix":
		return cfg.Output.Prefix, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "openai.api_key":
		cfg.OpenAI.APIKey = value
	case "openai.vector_store_id":
		cfg.OpenAI.VectorStoreID = value
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for anthropic.use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "search.serper_api_key":
		cfg.Search.SerperAPIKey = value
	case "search.max_results":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for search.max_results: %w", err)
		}
		cfg.Search.MaxResults = n
	case "cache.redis_url":
		cfg.Cache.RedisURL = value
	case "defaults.words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for defaults.words: %w", err)
		}
		cfg.Defaults.Words = n
	case "defaults.audience":
		cfg.Defaults.Audience = value
	case "defaults.tone":
		cfg.Defaults.Tone = value
	case "defaults.model":
		cfg.Defaults.Model = value
	case "defaults.provider":
		if value != "openai" && value != "anthropic" {
			return fmt.Errorf("provider must be 'openai' or 'anthropic'")
		}
		cfg.Defaults.Provider = value
	case "timeouts.research":
		return setDuration(&cfg.Timeouts.Research, key, value)
	case "timeouts.synthesis":
		return setDuration(&cfg.Timeouts.Synthesis, key, value)
	case "timeouts.writing":
		return setDuration(&cfg.Timeouts.Writing, key, value)
	case "timeouts.validation":
		return setDuration(&cfg.Timeouts.Validation, key, value)
	case "timeouts.distribution":
		return setDuration(&cfg.Timeouts.Distribution, key, value)
	case "validation.min_sources":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for validation.min_sources: %w", err)
		}
		cfg.Validation.MinSources = n
	case "validation.min_verified_ratio":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("min_verified_ratio must be a number in (0, 1]")
		}
		cfg.Validation.MinVerifiedRatio = f
	case "validation.max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("max_iterations must be a non-negative integer")
		}
		cfg.Validation.MaxIterations = n
	case "validation.check_urls":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for validation.check_urls: %w", err)
		}
		cfg.Validation.CheckURLs = b
	case "output.dir":
		cfg.Output.Dir = value
	case "output.prefix":
		cfg.Output.Prefix = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	*dst = d
	return nil
}

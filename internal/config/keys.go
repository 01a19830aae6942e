// Package config provides API key management utilities.
package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no OpenAI API key is configured.
var ErrNoAPIKey = errors.New("no OpenAI API key configured")

// GetOpenAIKey returns the OpenAI API key from the configuration.
// It checks in order: environment variable, config file.
func GetOpenAIKey(cfg *Config) (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	if cfg != nil && cfg.OpenAI.APIKey != "" {
		key := os.ExpandEnv(cfg.OpenAI.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}

	return "", ErrNoAPIKey
}

// GetVectorStoreID returns the knowledge-base vector store ID, checking
// both accepted environment variable names before the config file.
func GetVectorStoreID(cfg *Config) string {
	if id := os.Getenv("OPENAI_VECTOR_STORE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("VECTOR_STORE_ID"); id != "" {
		return id
	}
	if cfg != nil {
		return cfg.OpenAI.VectorStoreID
	}
	return ""
}

// ValidateOpenAIKey performs basic validation on an API key.
// It checks format but does not verify the key with the API.
func ValidateOpenAIKey(key string) error {
	if key == "" {
		return ErrNoAPIKey
	}

	if !strings.HasPrefix(key, "sk-") {
		return errors.New("invalid API key format: expected 'sk-' prefix")
	}

	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}

	return nil
}

// MaskKey returns a masked version of an API key for display.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 12 {
		return "***"
	}

	return key[:5] + "..." + key[len(key)-4:]
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetOpenAIKeySource returns where the OpenAI API key was sourced from.
func GetOpenAIKeySource(cfg *Config) KeySource {
	if os.Getenv("OPENAI_API_KEY") != "" {
		return KeySourceEnv
	}

	if cfg != nil && cfg.OpenAI.APIKey != "" {
		key := os.ExpandEnv(cfg.OpenAI.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return KeySourceConfig
		}
	}

	return KeySourceNone
}

// Package config provides API key management utilities.
package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no API key is configured for the
// selected provider.
var ErrNoAPIKey = errors.New("no API key configured")

// GetAPIKey returns the API key for the configured provider.
// It checks in order: environment variable, config file.
func GetAPIKey(cfg *Config) (string, error) {
	provider := ProviderGemini
	if cfg != nil && cfg.Provider != "" {
		provider = cfg.Provider
	}

	switch provider {
	case ProviderAnthropic:
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			return key, nil
		}
		if cfg != nil {
			if key := expandKey(cfg.Anthropic.APIKey); key != "" {
				return key, nil
			}
		}
	default:
		// Gemini accepts either variable name.
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			return key, nil
		}
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key, nil
		}
		if cfg != nil {
			if key := expandKey(cfg.Gemini.APIKey); key != "" {
				return key, nil
			}
		}
	}

	return "", ErrNoAPIKey
}

// expandKey expands env var references in a configured key and rejects
// unresolved ${VAR} placeholders.
func expandKey(raw string) string {
	if raw == "" {
		return ""
	}
	key := os.ExpandEnv(raw)
	if key == "" || strings.HasPrefix(key, "${") {
		return ""
	}
	return key
}

// ValidateAPIKey performs basic validation on an API key for the given
// provider. It checks format but does not verify the key remotely.
func ValidateAPIKey(provider, key string) error {
	if key == "" {
		return ErrNoAPIKey
	}

	if provider == ProviderAnthropic {
		// Anthropic API keys start with "sk-ant-"
		if !strings.HasPrefix(key, "sk-ant-") {
			return errors.New("invalid API key format: expected 'sk-ant-' prefix")
		}
	}

	// Keys should be reasonably long
	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}

	return nil
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first few characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAPIKeySource returns where the API key for the configured
// provider was sourced from.
func GetAPIKeySource(cfg *Config) KeySource {
	provider := ProviderGemini
	if cfg != nil && cfg.Provider != "" {
		provider = cfg.Provider
	}

	switch provider {
	case ProviderAnthropic:
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			return KeySourceEnv
		}
		if cfg != nil && expandKey(cfg.Anthropic.APIKey) != "" {
			return KeySourceConfig
		}
	default:
		if os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("GEMINI_API_KEY") != "" {
			return KeySourceEnv
		}
		if cfg != nil && expandKey(cfg.Gemini.APIKey) != "" {
			return KeySourceConfig
		}
	}

	return KeySourceNone
}

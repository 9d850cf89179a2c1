package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/flowkit/internal/config"
	"github.com/ShayCichocki/flowkit/internal/llm"
)

// newCompleter creates a model client for the configured provider. The
// API key is resolved (env over config file) and format-checked before
// any client is constructed, so a bad key fails here with a clear
// message instead of on the first model call.
func newCompleter(cfg *config.Config) (llm.Completer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	switch provider {
	case config.ProviderGemini:
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w (set GOOGLE_API_KEY, GEMINI_API_KEY, or gemini.api_key)", err)
		}
		if err := config.ValidateAPIKey(config.ProviderGemini, key); err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return llm.NewGeminiClient(llm.GeminiConfig{
			Model:   cfg.Gemini.Model,
			APIKey:  key,
			Timeout: cfg.Timeouts.Request,
		})
	case config.ProviderAnthropic:
		clientCfg := llm.AnthropicConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		}
		// Bedrock authenticates through AWS credentials, not an API key.
		if !cfg.Anthropic.UseBedrock {
			key, err := config.GetAPIKey(cfg)
			if err != nil {
				return nil, fmt.Errorf("anthropic: %w (set ANTHROPIC_API_KEY or anthropic.api_key)", err)
			}
			if err := config.ValidateAPIKey(config.ProviderAnthropic, key); err != nil {
				return nil, fmt.Errorf("anthropic: %w", err)
			}
			clientCfg.APIKey = key
		}
		return llm.NewAnthropicClient(clientCfg)
	default:
		return nil, fmt.Errorf("unknown provider %q (expected gemini or anthropic)", provider)
	}
}

// loadConfigAndCompleter loads configuration and builds the model client.
func loadConfigAndCompleter() (*config.Config, llm.Completer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return nil, nil, err
	}

	return cfg, completer, nil
}

// trackerUsage reads accumulated token usage from clients that keep a
// tracker. Clients without one report zero usage.
func trackerUsage(completer llm.Completer) llm.Usage {
	t, ok := completer.(interface{ Tracker() *llm.TokenTracker })
	if !ok {
		return llm.Usage{}
	}
	in, out := t.Tracker().Total()
	return llm.Usage{InputTokens: in, OutputTokens: out}
}

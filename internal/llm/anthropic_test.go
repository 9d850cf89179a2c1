package llm

import (
	"os"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	os.Unsetenv("ANTHROPIC_API_KEY")

	if _, err := NewAnthropicClient(AnthropicConfig{}); err == nil {
		t.Error("expected error when no API key is available")
	}
}

func TestNewAnthropicClientDefaults(t *testing.T) {
	client, err := NewAnthropicClient(AnthropicConfig{APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("NewAnthropicClient failed: %v", err)
	}
	if client.Model() != string(anthropic.ModelClaudeSonnet4_20250514) {
		t.Errorf("unexpected default model: %q", client.Model())
	}
	if client.Tracker() == nil {
		t.Error("expected tracker to be initialized")
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514)
	if got != "us.anthropic.claude-sonnet-4-20250514-v1:0" {
		t.Errorf("unexpected translation: %q", got)
	}

	// Unknown models pass through unchanged.
	custom := anthropic.Model("custom-model")
	if got := translateModelForBedrock(custom); got != custom {
		t.Errorf("expected passthrough, got %q", got)
	}
}

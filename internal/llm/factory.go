package llm

import (
	"fmt"
	"os"
	"strings"
)

// ProviderNames lists the provider types NewProvider accepts.
var ProviderNames = []string{"anthropic", "openai", "openrouter", "google", "ollama"}

// APIKeyEnvVar returns the environment variable holding the API key for a
// provider type, or "" for providers that need none.
func APIKeyEnvVar(providerType string) string {
	switch providerType {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "openrouter":
		return "OPENROUTER_API_KEY"
	case "google":
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}

// DefaultModel returns a sensible model for a provider type.
func DefaultModel(providerType string) string {
	switch providerType {
	case "anthropic":
		return "claude-haiku-4-5-20251001"
	case "openai":
		return "gpt-4o-mini"
	case "openrouter":
		return "openai/gpt-4o-mini"
	case "google":
		return "gemini-2.0-flash"
	case "ollama":
		return "llama3.1"
	default:
		return ""
	}
}

// NewProvider creates a provider of the given type. Keys are read from the
// environment; an empty model selects DefaultModel.
func NewProvider(providerType string, model string) (Provider, error) {
	providerType = strings.ToLower(strings.TrimSpace(providerType))
	if model == "" {
		model = DefaultModel(providerType)
	}

	if env := APIKeyEnvVar(providerType); env != "" && os.Getenv(env) == "" {
		return nil, fmt.Errorf("%s environment variable is not set", env)
	}
	key := os.Getenv(APIKeyEnvVar(providerType))

	switch providerType {
	case "anthropic":
		return NewAnthropicProvider(key, model), nil
	case "openai":
		return NewOpenAIProvider(key, model), nil
	case "openrouter":
		return NewOpenAICompatibleProvider("openrouter", key, OpenRouterBaseURL, model), nil
	case "google":
		return NewGoogleProvider(key, model), nil
	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

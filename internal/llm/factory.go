package llm

import "fmt"

// NewProvider creates an LLM provider. Credentials and endpoints come from
// the caller's configuration rather than ambient environment reads.
// Supported provider types: "openai", "ollama".
func NewProvider(providerType, model, apiKey, baseURL string) (Provider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIProvider(apiKey, model), nil
	case "ollama":
		return NewOllamaProvider(baseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

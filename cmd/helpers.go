package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/docrag/docrag/internal/answer"
	"github.com/docrag/docrag/internal/config"
	"github.com/docrag/docrag/internal/embeddings"
	"github.com/docrag/docrag/internal/hyde"
	"github.com/docrag/docrag/internal/llm"
	"github.com/docrag/docrag/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docrag init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	apiKey := os.Getenv(config.APIKeyEnvVar(cfg.Provider))
	if cfg.Provider == config.ProviderOpenAI && apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for the openai provider")
	}
	return llm.NewProvider(string(cfg.Provider), cfg.Model, apiKey, cfg.OllamaURL)
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDims, cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// openStore creates the vector store and loads the persisted index. A missing
// index is not fatal; the caller decides whether an empty store is usable.
func openStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}
	if err := store.Load(ctx, cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load vector store from %s: %v\n", cfg.DataDir, err)
		fmt.Fprintf(os.Stderr, "Run `docrag ingest` first to build the index.\n")
	}
	return store, nil
}

// buildAnswerEngine wires the full question flow from config.
func buildAnswerEngine(ctx context.Context, cfg *config.Config) (*answer.Engine, vectordb.VectorStore, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(ctx, cfg, embedder)
	if err != nil {
		return nil, nil, err
	}
	gate, err := answer.NewLanguageGate(cfg.Languages)
	if err != nil {
		return nil, nil, err
	}

	hydeEmbedder := hyde.New(provider, embedder,
		hyde.WithCompletions(cfg.HydeSamples),
		hyde.WithModel(cfg.Model))

	return answer.New(cfg, provider, hydeEmbedder, store, gate), store, nil
}

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docrag.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docrag! Let's configure your documentation assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"ollama", "openai"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	// 2. Models.
	modelPrompt := promptui.Prompt{
		Label:   "Generation model",
		Default: defaultModelFor(cfg.Provider),
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	embeddingPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: defaultEmbeddingModelFor(cfg.Provider),
	}
	if cfg.EmbeddingModel, err = embeddingPrompt.Run(); err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}

	// 3. Documentation base URL for provenance links.
	urlPrompt := promptui.Prompt{
		Label:   "Documentation base URL (for answer links, leave blank for none)",
		Default: "",
	}
	if cfg.DocBaseURL, err = urlPrompt.Run(); err != nil {
		return nil, fmt.Errorf("doc base URL: %w", err)
	}

	// 4. Accepted question languages.
	langPrompt := promptui.Prompt{
		Label:   "Accepted question languages (comma-separated ISO codes)",
		Default: "en",
	}
	langStr, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}
	cfg.Languages = splitAndTrim(langStr)

	// 5. Questions per document.
	questionsPrompt := promptui.Prompt{
		Label:    "Hypothetical questions per document",
		Default:  strconv.Itoa(cfg.NumQuestions),
		Validate: validatePositiveInt,
	}
	questionsStr, err := questionsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("question count: %w", err)
	}
	cfg.NumQuestions, _ = strconv.Atoi(questionsStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("wizard produced invalid config: %w", err)
	}

	path := ".docrag.yml"
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration written to %s\n", path)
	return cfg, nil
}

func defaultModelFor(p ProviderType) string {
	if p == ProviderOpenAI {
		return "gpt-4o-mini"
	}
	return "llama3.1"
}

func defaultEmbeddingModelFor(p ProviderType) string {
	if p == ProviderOpenAI {
		return "text-embedding-3-small"
	}
	return "nomic-embed-text"
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

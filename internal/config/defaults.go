package config

// DefaultConfig returns the configuration used when no file or override is
// present. Split parameters mirror the proven ingestion defaults: catalog
// entries chunk by word, free-form documentation by sentence.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOllama,
		Model:             "llama3.1",
		EmbeddingProvider: ProviderOllama,
		EmbeddingModel:    "nomic-embed-text",
		EmbeddingDims:     768,

		DataDir:      ".docrag",
		Languages:    []string{"en"},
		NumQuestions: 3,
		HydeSamples:  5,
		TopK:         5,
		FlushPolicy:  "lenient",

		CSVSplit:  SplitConfig{Length: 200, Overlap: 25, Threshold: 25},
		TextSplit: SplitConfig{Length: 4, Overlap: 2, Threshold: 2},

		Server: ServerConfig{Port: 8377},
	}
}

package config

// ProviderType identifies a model provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level docrag configuration, corresponding to .docrag.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDims     int          `yaml:"embedding_dims" koanf:"embedding_dims"`
	OllamaURL         string       `yaml:"ollama_url" koanf:"ollama_url"`

	DataDir    string   `yaml:"data_dir" koanf:"data_dir"`
	DocBaseURL string   `yaml:"doc_base_url" koanf:"doc_base_url"`
	Include    []string `yaml:"include" koanf:"include"`
	Exclude    []string `yaml:"exclude" koanf:"exclude"`

	Languages      []string `yaml:"languages" koanf:"languages"`
	NumQuestions   int      `yaml:"num_questions" koanf:"num_questions"`
	HydeSamples    int      `yaml:"hyde_samples" koanf:"hyde_samples"`
	TopK           int      `yaml:"top_k" koanf:"top_k"`
	MaxConcurrency int      `yaml:"max_concurrency" koanf:"max_concurrency"`
	FlushPolicy    string   `yaml:"flush_policy" koanf:"flush_policy"`

	CSVSplit  SplitConfig  `yaml:"csv_split" koanf:"csv_split"`
	TextSplit SplitConfig  `yaml:"text_split" koanf:"text_split"`
	Server    ServerConfig `yaml:"server" koanf:"server"`
}

// SplitConfig holds chunking parameters for one splitter.
type SplitConfig struct {
	Length    int `yaml:"length" koanf:"length"`
	Overlap   int `yaml:"overlap" koanf:"overlap"`
	Threshold int `yaml:"threshold" koanf:"threshold"`
}

// ServerConfig holds chat-server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"`
}

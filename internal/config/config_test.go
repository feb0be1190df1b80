package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOllama {
		t.Errorf("expected default provider %q, got %q", ProviderOllama, cfg.Provider)
	}
	if cfg.NumQuestions != 3 {
		t.Errorf("expected default num_questions 3, got %d", cfg.NumQuestions)
	}
	if cfg.HydeSamples != 5 {
		t.Errorf("expected default hyde_samples 5, got %d", cfg.HydeSamples)
	}
	if cfg.TopK != 5 {
		t.Errorf("expected default top_k 5, got %d", cfg.TopK)
	}
	if cfg.FlushPolicy != "lenient" {
		t.Errorf("expected default flush_policy lenient, got %q", cfg.FlushPolicy)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docrag.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o-mini"
	original.DocBaseURL = "https://docs.example.org/"
	original.Languages = []string{"en", "de"}
	original.CSVSplit = SplitConfig{Length: 120, Overlap: 10, Threshold: 10}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.DocBaseURL != original.DocBaseURL {
		t.Errorf("doc_base_url: got %q, want %q", loaded.DocBaseURL, original.DocBaseURL)
	}
	if len(loaded.Languages) != 2 || loaded.Languages[1] != "de" {
		t.Errorf("languages: got %v", loaded.Languages)
	}
	if loaded.CSVSplit != original.CSVSplit {
		t.Errorf("csv_split: got %+v, want %+v", loaded.CSVSplit, original.CSVSplit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	t.Setenv("DOCRAG_MODEL", "mistral")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "mistral" {
		t.Errorf("env override not applied, model = %q", cfg.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "petstore" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad flush policy", func(c *Config) { c.FlushPolicy = "eventually" }},
		{"no languages", func(c *Config) { c.Languages = nil }},
		{"zero questions", func(c *Config) { c.NumQuestions = 0 }},
		{"zero hyde samples", func(c *Config) { c.HydeSamples = 0 }},
		{"zero top_k", func(c *Config) { c.TopK = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// Package answer implements the retrieval-augmented question flow: a language
// gate, hypothetical document embedding for the query, nearest-neighbor
// retrieval, and grounded generation with provenance links.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/docrag/docrag/internal/config"
	"github.com/docrag/docrag/internal/document"
	"github.com/docrag/docrag/internal/hyde"
	"github.com/docrag/docrag/internal/llm"
	"github.com/docrag/docrag/internal/vectordb"
)

const ragPrompt = `Answer the question based on the given context and code snippets, if code is provided.
Context:
%s
Your answer should include links from the context that are relevant to the question.

Question: %s

Answer:`

// Engine answers questions against the indexed documentation.
type Engine struct {
	cfg      *config.Config
	provider llm.Provider
	hyde     *hyde.Embedder
	store    vectordb.VectorStore
	gate     Gate
}

// New creates an answer engine. The gate may come from NewLanguageGate or any
// other policy.
func New(cfg *config.Config, provider llm.Provider, hydeEmbedder *hyde.Embedder, store vectordb.VectorStore, gate Gate) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		hyde:     hydeEmbedder,
		store:    store,
		gate:     gate,
	}
}

// Answer runs the full question flow. The boolean distinguishes a grounded
// answer (true) from a policy rejection (false); infrastructure failures are
// returned as errors. A non-nil stream receives answer chunks as the model
// produces them.
func (e *Engine) Answer(ctx context.Context, question string, history []llm.Message, stream llm.StreamFunc) (bool, string, error) {
	if ok, rejection := e.gate.Check(question); !ok {
		return false, rejection, nil
	}

	queryVec, err := e.hyde.QueryEmbedding(ctx, question, history)
	if err != nil {
		return false, "", err
	}

	results, err := e.store.QueryByEmbedding(ctx, queryVec, e.cfg.TopK)
	if err != nil {
		return false, "", fmt.Errorf("answer: retrieve context: %w", err)
	}

	messages := append([]llm.Message{}, history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: e.buildPrompt(results, question),
	})

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:       e.cfg.Model,
		Messages:    messages,
		Temperature: 0.1,
		Stream:      stream,
	})
	if err != nil {
		return false, "", fmt.Errorf("answer: generate: %w", err)
	}
	return true, resp.Content, nil
}

// buildPrompt assembles the grounded generation prompt. Each retrieved
// document contributes its whole-entity text, and a documentation link when
// the document carries a source path and a base URL is configured.
func (e *Engine) buildPrompt(results []vectordb.SearchResult, question string) string {
	var ctx strings.Builder
	for _, r := range results {
		ctx.WriteString(r.Document.FullContent())
		ctx.WriteString("\n")
		if link := e.docLink(r.Document); link != "" {
			ctx.WriteString("Link: ")
			ctx.WriteString(link)
			ctx.WriteString("\n")
		}
	}
	return fmt.Sprintf(ragPrompt, ctx.String(), question)
}

func (e *Engine) docLink(doc document.Document) string {
	source := doc.Meta[document.MetaSource]
	if source == "" || e.cfg.DocBaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(e.cfg.DocBaseURL, "/") + "/" + strings.TrimPrefix(source, "/")
}

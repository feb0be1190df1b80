// Package hyde implements hypothetical document embedding for query-time
// retrieval. A single model-written hypothetical answer is a noisy retrieval
// probe; averaging several independent samples gives a more stable point in
// embedding space at the cost of extra generation calls.
package hyde

import (
	"context"
	"fmt"

	"github.com/docrag/docrag/internal/embeddings"
	"github.com/docrag/docrag/internal/llm"
)

const answerPrompt = `Given a question, state which function or class or module of the documented library can be used to answer it and give a short description. Keep your answer short.

Question: %s

Description:
Minimal code example:`

// DefaultCompletions is the number of hypothetical answers sampled per query.
const DefaultCompletions = 5

// Embedder converts a user question into a single query embedding by
// averaging the embeddings of several hypothetical answers.
type Embedder struct {
	provider    llm.Provider
	embedder    embeddings.Embedder
	model       string
	completions int
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithCompletions sets how many hypothetical answers are sampled.
func WithCompletions(k int) Option {
	return func(e *Embedder) { e.completions = k }
}

// WithModel overrides the provider's default generation model.
func WithModel(model string) Option {
	return func(e *Embedder) { e.model = model }
}

// New creates a hypothetical document embedder.
func New(provider llm.Provider, embedder embeddings.Embedder, opts ...Option) *Embedder {
	e := &Embedder{
		provider:    provider,
		embedder:    embedder,
		completions: DefaultCompletions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QueryEmbedding produces the retrieval query vector for a question.
// Optional prior conversation turns precede the hypothetical-answer prompt.
// Averaging over zero samples is undefined, so a zero completion count or an
// empty model reply set is an error rather than a zero vector.
func (e *Embedder) QueryEmbedding(ctx context.Context, question string, history []llm.Message) ([]float32, error) {
	if e.completions < 1 {
		return nil, fmt.Errorf("hyde: completion count must be positive, got %d", e.completions)
	}

	messages := append([]llm.Message{}, history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(answerPrompt, question),
	})

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		MaxTokens:   256,
		Temperature: 0.5,
		N:           e.completions,
	})
	if err != nil {
		return nil, fmt.Errorf("hyde: generate hypothetical answers: %w", err)
	}

	var samples []string
	for _, c := range resp.Contents {
		if c != "" {
			samples = append(samples, c)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("hyde: model returned no completions")
	}

	vectors, err := e.embedder.Embed(ctx, samples)
	if err != nil {
		return nil, fmt.Errorf("hyde: embed hypothetical answers: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("hyde: embedder returned no vectors")
	}

	return Mean(vectors)
}

// Mean computes the element-wise arithmetic mean of equal-length vectors.
func Mean(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("hyde: mean of zero vectors is undefined")
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("hyde: vector length mismatch: %d vs %d", len(v), dim)
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}

	mean := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sum {
		mean[i] = float32(s / n)
	}
	return mean, nil
}

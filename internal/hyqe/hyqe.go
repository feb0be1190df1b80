// Package hyqe generates hypothetical questions for ingested documents and
// embeds them. Storing question embeddings next to the source text makes the
// index match the phrasing of real user queries instead of documentation
// prose.
package hyqe

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/docrag/docrag/internal/document"
	"github.com/docrag/docrag/internal/embeddings"
	"github.com/docrag/docrag/internal/llm"
)

const questionPrompt = `Given the following text as part of the description for a %s in a software documentation:
%s

Formulate exactly %d hypothetical questions, which can be derived from the text. Separate the questions from each other using a semicolon and newline character.

Your answer should be formulated exactly like this: Question1;
Question2;
Question3 and your answer should contain nothing other than the questions.`

// embedBatchCount is the number of embedding batches the collected questions
// are divided into: one call per document floods the model service, one call
// for everything holds the whole set in a single request.
const embedBatchCount = 10

// Generator turns documents into embedded hypothetical-question documents.
type Generator struct {
	provider     llm.Provider
	embedder     embeddings.Embedder
	model        string
	numQuestions int
	workers      int

	completed atomic.Int64
	total     atomic.Int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithNumQuestions sets how many questions are requested per document.
func WithNumQuestions(n int) Option {
	return func(g *Generator) { g.numQuestions = n }
}

// WithWorkers bounds the generation worker pool.
func WithWorkers(n int) Option {
	return func(g *Generator) { g.workers = n }
}

// WithModel overrides the provider's default generation model.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// New creates a Generator.
func New(provider llm.Provider, embedder embeddings.Embedder, opts ...Option) *Generator {
	g := &Generator{
		provider:     provider,
		embedder:     embedder,
		numQuestions: 3,
		workers:      runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.workers < 1 {
		g.workers = 1
	}
	if g.numQuestions < 1 {
		g.numQuestions = 1
	}
	return g
}

// Progress reports completed generation tasks versus total submitted. Safe to
// poll from any goroutine while Run is in flight.
func (g *Generator) Progress() (done, total int64) {
	return g.completed.Load(), g.total.Load()
}

// Run generates questions for every document concurrently, waits for all
// generation tasks, then embeds the collected questions in fixed-size
// batches. A failed generation call costs only that document's questions;
// an embedding failure aborts the run.
func (g *Generator) Run(ctx context.Context, docs []document.Document) ([]document.Document, error) {
	g.completed.Store(0)
	g.total.Store(int64(len(docs)))
	if len(docs) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	var questions []document.Document

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for _, doc := range docs {
		grp.Go(func() error {
			derived, err := g.generate(grpCtx, doc)
			if err != nil {
				log.Printf("hyqe: question generation for %q failed: %v", doc.ID, err)
			} else {
				mu.Lock()
				questions = append(questions, derived...)
				mu.Unlock()
			}
			g.completed.Add(1)
			return nil
		})
	}
	// Barrier: every generation task finishes before any embedding request.
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	if err := g.embed(ctx, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// generate asks the model for questions about one document and wraps each in
// a document carrying the source's metadata and original text.
func (g *Generator) generate(ctx context.Context, doc document.Document) ([]document.Document, error) {
	prompt := fmt.Sprintf(questionPrompt, doc.Meta[document.MetaType], doc.Content, g.numQuestions)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   400,
		Temperature: 0.75,
	})
	if err != nil {
		return nil, err
	}

	// The reply is split on the delimiter as-is: a model that ignores the
	// format yields fewer or more questions, which is accepted degradation.
	var out []document.Document
	for _, q := range strings.Split(resp.Content, ";") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		meta := document.CloneMeta(doc.Meta)
		meta[document.MetaOriginalText] = doc.Content
		out = append(out, document.New(q, meta))
	}
	return out, nil
}

// embed computes vectors for the question documents in fixed-size batches,
// assigning each document its own vector in place.
func (g *Generator) embed(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	batchSize := len(docs) / embedBatchCount
	if batchSize < 1 {
		batchSize = 1
	}

	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = EmbedText(d)
		}

		vectors, err := g.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed question batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors, expected %d", len(vectors), len(batch))
		}
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}
	}
	return nil
}

// EmbedText folds the document's catalog type into the embedded text so the
// vector carries the entry's category alongside its content.
func EmbedText(doc document.Document) string {
	if t := doc.Meta[document.MetaType]; t != "" {
		return t + "\n" + doc.Content
	}
	return doc.Content
}

package vectordb

import (
	"context"

	"github.com/docrag/docrag/internal/document"
)

// SearchResult pairs a retrieved document with its similarity score.
type SearchResult struct {
	Document   document.Document
	Similarity float32
}

// VectorStore supports upsert of embedded documents and top-k nearest
// neighbor search by query embedding.
type VectorStore interface {
	// Upsert stores documents. Documents must carry an embedding.
	Upsert(ctx context.Context, docs []document.Document) error

	// QueryByEmbedding returns the topK stored documents nearest to the
	// given query vector.
	QueryByEmbedding(ctx context.Context, embedding []float32, topK int) ([]SearchResult, error)

	// QueryByText embeds the query text with the store's embedder and
	// searches with the resulting vector.
	QueryByText(ctx context.Context, text string, topK int) ([]SearchResult, error)

	// Reset drops all stored documents, starting a fresh index.
	Reset(ctx context.Context) error

	// Persist writes the index under dir; Load restores it.
	Persist(ctx context.Context, dir string) error
	Load(ctx context.Context, dir string) error

	// Count reports the number of stored documents.
	Count() int
}

package vectordb

import (
	"context"
	"fmt"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/docrag/docrag/internal/document"
	"github.com/docrag/docrag/internal/embeddings"
)

const (
	collectionName = "docs"
	storeFileName  = "chromem.gob.gz"
)

// ChromemStore implements VectorStore using the embedded chromem-go database.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewChromemStore creates a new in-memory ChromemStore. The embedder is used
// for query-text embedding and for any document upserted without a vector.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Metadata:  document.CloneMeta(doc.Meta),
			Embedding: doc.Embedding,
		}
	}

	return s.collection.AddDocuments(ctx, chromDocs, 1)
}

func (s *ChromemStore) QueryByEmbedding(ctx context.Context, embedding []float32, topK int) ([]SearchResult, error) {
	topK = s.clampLimit(topK)
	if topK == 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query by embedding: %w", err)
	}
	return toSearchResults(results), nil
}

func (s *ChromemStore) QueryByText(ctx context.Context, text string, topK int) ([]SearchResult, error) {
	topK = s.clampLimit(topK)
	if topK == 0 {
		return nil, nil
	}

	results, err := s.collection.Query(ctx, text, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	return toSearchResults(results), nil
}

func (s *ChromemStore) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(filepath.Join(dir, storeFileName), true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, storeFileName), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// clampLimit keeps the requested limit within chromem's constraint that
// nResults not exceed the collection size.
func (s *ChromemStore) clampLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	}
	if count := s.collection.Count(); limit > count {
		return count
	}
	return limit
}

func toSearchResults(results []chromem.Result) []SearchResult {
	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: document.Document{
				ID:        r.ID,
				Content:   r.Content,
				Meta:      document.CloneMeta(r.Metadata),
				Embedding: r.Embedding,
			},
			Similarity: r.Similarity,
		}
	}
	return searchResults
}

package vectordb

import (
	"context"
	"testing"

	"github.com/docrag/docrag/internal/document"
)

// unitEmbedder produces deterministic unit vectors so that similarity
// ordering in tests is predictable without a model service.
type unitEmbedder struct{}

func (unitEmbedder) Name() string    { return "unit" }
func (unitEmbedder) Dimensions() int { return 2 }

func (unitEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if len(t)%2 == 0 {
			out[i] = []float32{1, 0}
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(unitEmbedder{})
	if err != nil {
		t.Fatalf("NewChromemStore failed: %v", err)
	}
	return store
}

func embeddedDoc(content string, vec []float32, meta map[string]string) document.Document {
	doc := document.New(content, meta)
	doc.Embedding = vec
	return doc
}

func TestUpsertAndQueryByEmbedding(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docs := []document.Document{
		embeddedDoc("connect opens a connection", []float32{1, 0}, map[string]string{document.MetaName: "connect"}),
		embeddedDoc("Session manages pooling", []float32{0, 1}, map[string]string{document.MetaName: "Session"}),
	}
	if err := store.Upsert(ctx, docs); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if store.Count() != 2 {
		t.Fatalf("expected 2 documents, got %d", store.Count())
	}

	results, err := store.QueryByEmbedding(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("QueryByEmbedding failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Document.Meta[document.MetaName] != "connect" {
		t.Errorf("expected nearest document 'connect', got %q", results[0].Document.Meta[document.MetaName])
	}
	if results[0].Similarity <= 0.9 {
		t.Errorf("expected near-identical similarity, got %f", results[0].Similarity)
	}
}

func TestQueryLimitClampedToCollectionSize(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Upsert(ctx, []document.Document{
		embeddedDoc("only entry", []float32{1, 0}, nil),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	results, err := store.QueryByEmbedding(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("QueryByEmbedding failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestQueryEmptyStore(t *testing.T) {
	store := newTestStore(t)

	results, err := store.QueryByEmbedding(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("QueryByEmbedding failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from an empty store, got %d", len(results))
	}
}

func TestResetClearsDocuments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Upsert(ctx, []document.Document{
		embeddedDoc("entry", []float32{1, 0}, nil),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("expected empty store after reset, got %d documents", store.Count())
	}
}

func TestPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := newTestStore(t)
	if err := store.Upsert(ctx, []document.Document{
		embeddedDoc("connect opens a connection", []float32{1, 0}, map[string]string{document.MetaName: "connect"}),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Persist(ctx, dir); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	restored := newTestStore(t)
	if err := restored.Load(ctx, dir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if restored.Count() != 1 {
		t.Fatalf("expected 1 document after load, got %d", restored.Count())
	}

	results, err := restored.QueryByEmbedding(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("QueryByEmbedding failed: %v", err)
	}
	if results[0].Document.Meta[document.MetaName] != "connect" {
		t.Errorf("metadata lost across persist/load: %+v", results[0].Document.Meta)
	}
}

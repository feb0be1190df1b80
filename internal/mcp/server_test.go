package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docrag/docrag/internal/document"
	"github.com/docrag/docrag/internal/llm"
	"github.com/docrag/docrag/internal/vectordb"
)

type mockAnswerer struct {
	ok     bool
	answer string
}

func (m *mockAnswerer) Answer(_ context.Context, _ string, _ []llm.Message, _ llm.StreamFunc) (bool, string, error) {
	return m.ok, m.answer, nil
}

// mockStore implements vectordb.VectorStore for testing.
type mockStore struct {
	docs []document.Document
}

func (m *mockStore) Upsert(_ context.Context, docs []document.Document) error {
	m.docs = append(m.docs, docs...)
	return nil
}

func (m *mockStore) QueryByEmbedding(_ context.Context, _ []float32, topK int) ([]vectordb.SearchResult, error) {
	return m.results(topK), nil
}

func (m *mockStore) QueryByText(_ context.Context, _ string, topK int) ([]vectordb.SearchResult, error) {
	return m.results(topK), nil
}

func (m *mockStore) results(topK int) []vectordb.SearchResult {
	var results []vectordb.SearchResult
	for _, doc := range m.docs {
		results = append(results, vectordb.SearchResult{Document: doc, Similarity: 0.95})
		if len(results) >= topK {
			break
		}
	}
	return results
}

func (m *mockStore) Reset(_ context.Context) error             { return nil }
func (m *mockStore) Persist(_ context.Context, _ string) error { return nil }
func (m *mockStore) Load(_ context.Context, _ string) error    { return nil }
func (m *mockStore) Count() int                                { return len(m.docs) }

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_docs", askDocsTool, "ask_docs"},
		{"search_docs", searchDocsTool, "search_docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	store := &mockStore{}
	srv := NewServer(&mockAnswerer{}, store)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != store {
		t.Error("store not set correctly")
	}
}

func TestHandleAskDocs(t *testing.T) {
	ctx := context.Background()

	t.Run("grounded answer", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{ok: true, answer: "use connect()"}, &mockStore{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "How do I connect?"}

		result, err := srv.handleAskDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("rejection is not a tool error", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{ok: false, answer: "Sorry, I can only answer questions in English."}, &mockStore{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "Wie bitte?"}

		result, err := srv.handleAskDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("rejection should be returned as text, not a tool error")
		}
	})

	t.Run("missing question", func(t *testing.T) {
		srv := NewServer(&mockAnswerer{}, &mockStore{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func TestHandleSearchDocs(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{
		docs: []document.Document{
			document.New("Name: connect\nType: function\nDescription: Opens a connection.", map[string]string{
				document.MetaName:   "connect",
				document.MetaType:   "function",
				document.MetaSource: "api/connect.html",
			}),
		},
	}
	srv := NewServer(&mockAnswerer{}, store)

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "connection"}

		result, err := srv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("empty store", func(t *testing.T) {
		emptySrv := NewServer(&mockAnswerer{}, &mockStore{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := emptySrv.handleSearchDocs(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})
}

func TestFormatSearchResults(t *testing.T) {
	results := []vectordb.SearchResult{
		{
			Document: document.New("chunk text", map[string]string{
				document.MetaName:        "Session",
				document.MetaType:        "class",
				document.MetaSource:      "api/session.html",
				document.MetaFullContent: "Name: Session\nType: class\nDescription: Pooled lifecycle.",
			}),
			Similarity: 0.87,
		},
	}

	out := formatSearchResults(results)
	for _, want := range []string{
		"Found 1 result(s)",
		"Name: Session",
		"Type: class",
		"Source: api/session.html",
		"Similarity: 87.0%",
		"Description: Pooled lifecycle.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q", want)
		}
	}
}

package hyde

import (
	"context"
	"math"
	"testing"

	"github.com/docrag/docrag/internal/llm"
)

type stubProvider struct {
	contents []string
	lastReq  llm.CompletionRequest
}

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.lastReq = req
	resp := &llm.CompletionResponse{Contents: s.contents}
	if len(s.contents) > 0 {
		resp.Content = s.contents[0]
	}
	return resp, nil
}

func (s *stubProvider) Name() string { return "stub" }

// stubEmbedder maps known answer texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.vectors[t]
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }
func (s *stubEmbedder) Name() string    { return "stub" }

func TestQueryEmbedding_ExactMean(t *testing.T) {
	provider := &stubProvider{contents: []string{"a", "b", "c"}}
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 3},
		"b": {2, 3, 0},
		"c": {3, 0, 0},
	}}
	h := New(provider, embedder, WithCompletions(3))

	vec, err := h.QueryEmbedding(context.Background(), "how do I filter points?", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float32{2, 1, 1}
	if len(vec) != len(want) {
		t.Fatalf("expected %d dimensions, got %d", len(want), len(vec))
	}
	for i := range want {
		if math.Abs(float64(vec[i]-want[i])) > 1e-6 {
			t.Errorf("dimension %d: got %v, want %v", i, vec[i], want[i])
		}
	}
	if provider.lastReq.N != 3 {
		t.Errorf("expected 3 completions requested, got %d", provider.lastReq.N)
	}
}

func TestQueryEmbedding_ZeroCompletionsConfigured(t *testing.T) {
	h := New(&stubProvider{}, &stubEmbedder{}, WithCompletions(0))
	if _, err := h.QueryEmbedding(context.Background(), "q", nil); err == nil {
		t.Fatal("expected error for zero completion count")
	}
}

func TestQueryEmbedding_NoModelOutput(t *testing.T) {
	h := New(&stubProvider{contents: nil}, &stubEmbedder{})
	if _, err := h.QueryEmbedding(context.Background(), "q", nil); err == nil {
		t.Fatal("expected error when model returns no completions")
	}
}

func TestQueryEmbedding_HistoryPrecedesPrompt(t *testing.T) {
	provider := &stubProvider{contents: []string{"a"}}
	embedder := &stubEmbedder{vectors: map[string][]float32{"a": {1, 2, 3}}}
	h := New(provider, embedder, WithCompletions(1))

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "earlier question"},
		{Role: llm.RoleAssistant, Content: "earlier answer"},
	}
	if _, err := h.QueryEmbedding(context.Background(), "next question", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := provider.lastReq.Messages
	if len(msgs) != 3 {
		t.Fatalf("expected history plus prompt, got %d messages", len(msgs))
	}
	if msgs[0].Content != "earlier question" || msgs[2].Role != llm.RoleUser {
		t.Error("history must precede the hypothetical-answer prompt")
	}
}

func TestMean_LengthMismatch(t *testing.T) {
	if _, err := Mean([][]float32{{1, 2}, {1}}); err == nil {
		t.Fatal("expected error for mismatched vector lengths")
	}
}

func TestMean_Empty(t *testing.T) {
	if _, err := Mean(nil); err == nil {
		t.Fatal("expected error for empty vector set")
	}
}

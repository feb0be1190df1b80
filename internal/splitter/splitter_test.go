package splitter

import (
	"strings"
	"testing"

	"github.com/docrag/docrag/internal/document"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestWordSplitter_ShortTextSingleChunk(t *testing.T) {
	s := NewWordSplitter(200, 25, 25)
	chunks := s.SplitText(words(50))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestWordSplitter_Overlap(t *testing.T) {
	s := NewWordSplitter(10, 2, 0)
	chunks := s.SplitText(words(26))
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if got := len(strings.Fields(c)); got != 10 {
			t.Errorf("chunk %d: expected 10 words, got %d", i, got)
		}
	}
}

func TestWordSplitter_ShortTailMerged(t *testing.T) {
	s := NewWordSplitter(10, 0, 5)
	// 22 words: chunks of 10, 10, then a 2-word tail below the threshold.
	chunks := s.SplitText(words(22))
	if len(chunks) != 2 {
		t.Fatalf("expected tail merged into 2 chunks, got %d", len(chunks))
	}
	if got := len(strings.Fields(chunks[1])); got != 12 {
		t.Errorf("expected last chunk of 12 words, got %d", got)
	}
}

func TestSentenceSplitter(t *testing.T) {
	s := NewSentenceSplitter(2, 0, 0)
	chunks := s.SplitText("One is here. Two is here. Three is here. Four is here.")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.Contains(chunks[1], "Three") {
		t.Errorf("unexpected second chunk: %q", chunks[1])
	}
}

func TestAdaptive_NonStructuredPassThrough(t *testing.T) {
	a := NewAdaptive(NewWordSplitter(5, 0, 0))
	doc := document.New(words(100), map[string]string{document.MetaType: "function"})

	out := a.Process([]document.Document{doc})
	if len(out) != 1 {
		t.Fatalf("expected pass-through, got %d documents", len(out))
	}
	if out[0].Content != doc.Content {
		t.Error("pass-through must not modify content")
	}
	if out[0].Meta[document.MetaFullContent] != doc.Content {
		t.Error("pass-through must still gain full_content")
	}
}

func TestAdaptive_BelowFloorKeepsOriginal(t *testing.T) {
	// 12 words at length 10 yields 2 chunks, below the floor of 3.
	a := NewAdaptive(NewWordSplitter(10, 0, 0))
	doc := document.New(words(12), map[string]string{document.MetaType: "class"})

	out := a.Process([]document.Document{doc})
	if len(out) != 1 {
		t.Fatalf("expected original kept, got %d documents", len(out))
	}
	if out[0].Content != doc.Content {
		t.Error("below-floor result must keep original content")
	}
	if out[0].Meta[document.MetaFullContent] != doc.Content {
		t.Error("below-floor result must carry full_content")
	}
}

func TestAdaptive_SplitsLongStructured(t *testing.T) {
	a := NewAdaptive(NewWordSplitter(10, 0, 0))
	doc := document.New(words(50), map[string]string{document.MetaType: "module"})

	out := a.Process([]document.Document{doc})
	if len(out) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(out))
	}
	for i, d := range out {
		if d.Meta[document.MetaFullContent] != doc.Content {
			t.Errorf("chunk %d missing full_content of the original", i)
		}
		if d.Meta[document.MetaType] != "module" {
			t.Errorf("chunk %d lost source metadata", i)
		}
	}
}

func TestCleanText(t *testing.T) {
	in := "  a   b\t c  \n\n\n\n d \n"
	got := CleanText(in)
	want := "a b c\n\nd"
	if got != want {
		t.Errorf("CleanText = %q, want %q", got, want)
	}
}

package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docrag/docrag/internal/document"
)

func TestTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain body"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := TextFile(path, "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "plain body" {
		t.Errorf("content = %q", doc.Content)
	}
	if doc.Meta[document.MetaFileType] != document.FileTypeText {
		t.Errorf("file_type = %q", doc.Meta[document.MetaFileType])
	}
	if doc.Meta[document.MetaSource] != "notes.txt" {
		t.Errorf("source = %q", doc.Meta[document.MetaSource])
	}
}

func TestMarkdownToText(t *testing.T) {
	src := []byte("# Title\n\nFirst paragraph with *emphasis*.\n\n```go\ncode line\n```\n\n- item one\n- item two\n")
	got := MarkdownToText(src)

	for _, want := range []string{"Title", "First paragraph with emphasis.", "code line", "item one", "item two"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "#") || strings.Contains(got, "*") || strings.Contains(got, "```") {
		t.Errorf("output retains markdown syntax:\n%s", got)
	}
}

func TestMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	if err := os.WriteFile(path, []byte("# Guide\n\nHello."), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := MarkdownFile(path, "guide.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Meta[document.MetaFileType] != document.FileTypeMarkdown {
		t.Errorf("file_type = %q", doc.Meta[document.MetaFileType])
	}
	if !strings.Contains(doc.Content, "Hello.") {
		t.Errorf("content = %q", doc.Content)
	}
}

package convert

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/docrag/docrag/internal/document"
)

// MarkdownFile parses a markdown file and extracts its plain text content
// into a single document. Formatting is discarded; headings, paragraphs and
// code blocks become newline-separated text.
func MarkdownFile(path, relPath string) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("convert: read %s: %w", path, err)
	}

	content := MarkdownToText(data)
	return document.New(content, map[string]string{
		document.MetaFileType: document.FileTypeMarkdown,
		document.MetaSource:   relPath,
	}), nil
}

// MarkdownToText renders markdown source to plain text via its AST.
func MarkdownToText(src []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Separate block-level nodes with a newline.
			switch n.Kind() {
			case ast.KindHeading, ast.KindParagraph, ast.KindListItem, ast.KindFencedCodeBlock, ast.KindCodeBlock:
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				line := node.Lines().At(i)
				b.Write(line.Value(src))
			}
		case *ast.CodeBlock:
			for i := 0; i < node.Lines().Len(); i++ {
				line := node.Lines().At(i)
				b.Write(line.Value(src))
			}
		case *ast.AutoLink:
			b.Write(node.URL(src))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

package splitter

import (
	"regexp"
	"strings"

	"github.com/docrag/docrag/internal/document"
)

var (
	repeatedSpace = regexp.MustCompile(`[ \t]+`)
	repeatedBlank = regexp.MustCompile(`\n{3,}`)
)

// Cleaner normalizes whitespace in converted documents before splitting:
// collapses runs of spaces, trims line edges, and caps blank-line runs.
type Cleaner struct{}

// NewCleaner returns a Cleaner.
func NewCleaner() *Cleaner { return &Cleaner{} }

// Clean returns cleaned copies of the given documents.
func (c *Cleaner) Clean(docs []document.Document) []document.Document {
	out := make([]document.Document, 0, len(docs))
	for _, doc := range docs {
		d := doc.Clone()
		d.Content = CleanText(doc.Content)
		out = append(out, d)
	}
	return out
}

// CleanText normalizes whitespace in a single text body.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(repeatedSpace.ReplaceAllString(line, " "))
	}
	joined := strings.Join(lines, "\n")
	joined = repeatedBlank.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}

package splitter

import "github.com/docrag/docrag/internal/document"

// minChunksToSplit is the floor below which a chunking result is discarded:
// fragmenting a short entry loses more context than it gains in recall.
const minChunksToSplit = 3

// splittableTypes are the structured catalog categories long enough to
// benefit from re-chunking.
var splittableTypes = map[string]bool{
	"class":  true,
	"module": true,
}

// Adaptive conditionally re-chunks structured catalog documents. Classes and
// modules with long descriptions are split; everything else passes through
// unmodified. Every output document gains a full_content metadata field
// pointing back to the whole-entity text for prompt-time reconstruction.
type Adaptive struct {
	inner *Splitter
}

// NewAdaptive wraps a generic splitter with the conditional policy.
func NewAdaptive(inner *Splitter) *Adaptive {
	return &Adaptive{inner: inner}
}

// Process applies the adaptive policy to each document. Output order follows
// input order but callers must not rely on it.
func (a *Adaptive) Process(docs []document.Document) []document.Document {
	var out []document.Document
	for _, doc := range docs {
		if !splittableTypes[doc.Meta[document.MetaType]] {
			out = append(out, withFullContent(doc, doc.Content))
			continue
		}

		chunks := a.inner.Split(doc)
		if len(chunks) < minChunksToSplit {
			out = append(out, withFullContent(doc, doc.Content))
			continue
		}
		for _, chunk := range chunks {
			out = append(out, withFullContent(chunk, doc.Content))
		}
	}
	return out
}

func withFullContent(doc document.Document, full string) document.Document {
	d := doc.Clone()
	d.Meta[document.MetaFullContent] = full
	return d
}

package splitter

import (
	"regexp"
	"strings"

	"github.com/docrag/docrag/internal/document"
)

// Unit selects what a Splitter counts when measuring chunk length.
type Unit string

const (
	UnitWord     Unit = "word"
	UnitSentence Unit = "sentence"
)

// Splitter chunks document content by a fixed number of units with overlap.
// Chunks shorter than Threshold units are merged into the previous chunk so
// a trailing fragment never stands alone.
type Splitter struct {
	Unit      Unit
	Length    int
	Overlap   int
	Threshold int
}

// NewWordSplitter returns a word-based splitter with the given parameters.
func NewWordSplitter(length, overlap, threshold int) *Splitter {
	return &Splitter{Unit: UnitWord, Length: length, Overlap: overlap, Threshold: threshold}
}

// NewSentenceSplitter returns a sentence-based splitter with the given parameters.
func NewSentenceSplitter(length, overlap, threshold int) *Splitter {
	return &Splitter{Unit: UnitSentence, Length: length, Overlap: overlap, Threshold: threshold}
}

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Split chunks a document into derived documents. Each chunk carries the
// source document's metadata. A document producing a single chunk is
// returned as one clone with unchanged content.
func (s *Splitter) Split(doc document.Document) []document.Document {
	units := s.tokenize(doc.Content)
	chunks := s.chunk(units)

	out := make([]document.Document, 0, len(chunks))
	for _, c := range chunks {
		d := document.New(c, doc.Meta)
		out = append(out, d)
	}
	return out
}

// SplitText chunks raw text without a carrier document.
func (s *Splitter) SplitText(text string) []string {
	return s.chunk(s.tokenize(text))
}

func (s *Splitter) tokenize(text string) []string {
	switch s.Unit {
	case UnitSentence:
		marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
		parts := strings.Split(marked, "\x00")
		units := parts[:0]
		for _, p := range parts {
			if strings.TrimSpace(p) != "" {
				units = append(units, p)
			}
		}
		return units
	default:
		return strings.Fields(text)
	}
}

func (s *Splitter) chunk(units []string) []string {
	if len(units) == 0 {
		return nil
	}

	length := s.Length
	if length < 1 {
		length = 1
	}
	overlap := s.Overlap
	if overlap >= length {
		overlap = length - 1
	}
	step := length - overlap

	sep := " "
	if s.Unit == UnitSentence {
		sep = ""
	}

	var chunks []string
	for start := 0; start < len(units); start += step {
		end := start + length
		if end > len(units) {
			end = len(units)
		}
		size := end - start
		text := strings.TrimSpace(strings.Join(units[start:end], sep))

		// Merge a short tail into the previous chunk.
		if size < s.Threshold && len(chunks) > 0 {
			chunks[len(chunks)-1] = strings.TrimSpace(chunks[len(chunks)-1] + sep + text)
			break
		}
		chunks = append(chunks, text)
		if end == len(units) {
			break
		}
	}
	return chunks
}

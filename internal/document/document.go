package document

import "github.com/google/uuid"

// Well-known metadata keys used throughout the pipeline.
const (
	MetaFileType     = "file_type"     // routing discriminator: csv, markdown, text, pdf
	MetaType         = "type"          // catalog entry category: function, class, module, ...
	MetaName         = "name"          // catalog entry name
	MetaSource       = "source"        // provenance path used for documentation links
	MetaCode         = "code"          // code body paired with a catalog entry
	MetaFullContent  = "full_content"  // pre-split original content, for prompt assembly
	MetaOriginalText = "original_text" // source text a hypothetical question was derived from
)

// File type values carried in MetaFileType.
const (
	FileTypeCSV      = "csv"
	FileTypeMarkdown = "markdown"
	FileTypeText     = "text"
	FileTypePDF      = "pdf"
)

// Document is the uniform unit flowing through ingestion and retrieval.
// Embedding, once set, corresponds to Content at assignment time; callers
// that mutate Content afterwards must discard the embedding.
type Document struct {
	ID        string
	Content   string
	Meta      map[string]string
	Embedding []float32
}

// New creates a Document with a fresh ID and a copy of the given metadata.
func New(content string, meta map[string]string) Document {
	return Document{
		ID:      uuid.NewString(),
		Content: content,
		Meta:    CloneMeta(meta),
	}
}

// Clone returns a deep copy of the document. The embedding slice is shared:
// embeddings are write-once, so sharing is safe.
func (d Document) Clone() Document {
	c := d
	c.Meta = CloneMeta(d.Meta)
	return c
}

// FullContent returns the pre-split original content if present, otherwise
// the document content itself.
func (d Document) FullContent() string {
	if fc, ok := d.Meta[MetaFullContent]; ok && fc != "" {
		return fc
	}
	return d.Content
}

// CloneMeta copies a metadata map. A nil input yields an empty map so
// callers can always assign keys to the result.
func CloneMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

package csvdoc

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/docrag/docrag/internal/document"
)

// FlushPolicy controls what happens to catalog entries that never received
// a matching code row by the end of the stream.
type FlushPolicy string

const (
	// FlushStrict drops unpaired entries silently.
	FlushStrict FlushPolicy = "strict"
	// FlushLenient emits unpaired entries without a code field.
	FlushLenient FlushPolicy = "lenient"
)

// rowTypeCode marks a CSV row as a code body rather than a catalog entry.
const rowTypeCode = "code"

// Joiner converts scraped API-catalog CSV rows into documents, pairing each
// catalog entry with its code body by name. Pairing is order-independent:
// a code row may arrive before or after its entry row, and the pair may even
// span source files.
//
// A Joiner is a single-run session object. Its pairing maps persist across
// Convert calls so that multi-file catalogs join correctly; start a new
// Joiner (or call Reset) for an unrelated ingestion run.
type Joiner struct {
	policy FlushPolicy

	// codeStorage holds code bodies seen before their matching entry.
	codeStorage map[string]string
	// pending holds entry documents seen before their matching code.
	pending map[string]document.Document
	// pendingOrder preserves first-seen order for deterministic flushing.
	pendingOrder []string
}

// NewJoiner creates a Joiner with the given end-of-stream policy.
func NewJoiner(policy FlushPolicy) *Joiner {
	j := &Joiner{policy: policy}
	j.Reset()
	return j
}

// Reset clears all pairing state, making the session equivalent to a fresh one.
func (j *Joiner) Reset() {
	j.codeStorage = make(map[string]string)
	j.pending = make(map[string]document.Document)
	j.pendingOrder = nil
}

// Pending reports how many entries are currently waiting for a code row.
func (j *Joiner) Pending() int { return len(j.pending) }

// ConvertFile reads one CSV file and returns the documents whose pairs
// resolved while processing it. Call Flush after the last file.
func (j *Joiner) ConvertFile(path string) ([]document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvdoc: open %s: %w", path, err)
	}
	defer f.Close()
	docs, err := j.Convert(f)
	if err != nil {
		return nil, fmt.Errorf("csvdoc: convert %s: %w", path, err)
	}
	return docs, nil
}

// Convert reads CSV rows from r (first record is the header) and returns
// the documents completed by those rows. Malformed rows are skipped.
func (j *Joiner) Convert(r io.Reader) ([]document.Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var docs []document.Document
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("csvdoc: skipping malformed row: %v", err)
			continue
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}

		doc, ok := j.consume(row)
		if ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// consume processes a single row and reports whether it completed a document.
func (j *Joiner) consume(row map[string]string) (document.Document, bool) {
	name, hasName := row["name"]
	typ, hasType := row["type"]
	desc, hasDesc := row["description"]
	if !hasName || !hasType || !hasDesc || name == "" {
		log.Printf("csvdoc: skipping row without name/type/description")
		return document.Document{}, false
	}

	if typ == rowTypeCode {
		// A code body: attach it to the waiting entry, or park it.
		if doc, ok := j.pending[name]; ok {
			doc.Meta[document.MetaCode] = desc
			j.dropPending(name)
			return doc, true
		}
		j.codeStorage[name] = desc
		return document.Document{}, false
	}

	doc := j.buildEntry(name, typ, desc, row)
	if code, ok := j.codeStorage[name]; ok {
		doc.Meta[document.MetaCode] = code
		delete(j.codeStorage, name)
		return doc, true
	}

	// Names are assumed unique in the scraped catalog; a duplicate pending
	// entry is overwritten, last writer wins.
	if _, dup := j.pending[name]; !dup {
		j.pendingOrder = append(j.pendingOrder, name)
	}
	j.pending[name] = doc
	return document.Document{}, false
}

// buildEntry constructs the document for a catalog entry row. Every column
// except name and description passes through as metadata.
func (j *Joiner) buildEntry(name, typ, desc string, row map[string]string) document.Document {
	content := "Name: " + name + "\nType: " + typ + "\nDescription: " + desc

	meta := make(map[string]string, len(row))
	for k, v := range row {
		if k == "name" || k == "description" {
			continue
		}
		meta[k] = v
	}
	meta[document.MetaName] = name
	meta[document.MetaFileType] = document.FileTypeCSV

	return document.New(content, meta)
}

// Flush ends the stream. Under the lenient policy the remaining unpaired
// entries are emitted without a code field; under the strict policy they are
// dropped. Either way the pairing state is cleared.
func (j *Joiner) Flush() []document.Document {
	var docs []document.Document
	if j.policy == FlushLenient {
		for _, name := range j.pendingOrder {
			if doc, ok := j.pending[name]; ok {
				docs = append(docs, doc)
			}
		}
	} else if len(j.pending) > 0 {
		log.Printf("csvdoc: dropping %d unpaired entries", len(j.pending))
	}
	j.Reset()
	return docs
}

func (j *Joiner) dropPending(name string) {
	delete(j.pending, name)
	for i, n := range j.pendingOrder {
		if n == name {
			j.pendingOrder = append(j.pendingOrder[:i], j.pendingOrder[i+1:]...)
			break
		}
	}
}

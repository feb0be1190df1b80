package convert

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/docrag/docrag/internal/document"
)

// PDFFile extracts the plain text of a PDF file into a single document.
func PDFFile(path, relPath string) (document.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("convert: open pdf %s: %w", path, err)
	}
	defer f.Close()

	r, err := reader.GetPlainText()
	if err != nil {
		return document.Document{}, fmt.Errorf("convert: extract pdf text %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return document.Document{}, fmt.Errorf("convert: read pdf text %s: %w", path, err)
	}

	return document.New(buf.String(), map[string]string{
		document.MetaFileType: document.FileTypePDF,
		document.MetaSource:   relPath,
	}), nil
}

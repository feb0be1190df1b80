// Package convert turns source files of supported formats into documents.
package convert

import (
	"fmt"
	"os"

	"github.com/docrag/docrag/internal/document"
)

// TextFile reads a plain-text file into a single document.
func TextFile(path, relPath string) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("convert: read %s: %w", path, err)
	}
	return document.New(string(data), map[string]string{
		document.MetaFileType: document.FileTypeText,
		document.MetaSource:   relPath,
	}), nil
}

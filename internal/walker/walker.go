// Package walker discovers documentation source files under a folder and
// classifies them by file type for routing.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/docrag/docrag/internal/document"
)

// DefaultMaxFileSize is the maximum file size to process (16 MB; scraped
// catalogs and PDFs run large).
const DefaultMaxFileSize int64 = 16 << 20

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path     string // Absolute path on disk.
	RelPath  string // Path relative to the root directory.
	Size     int64  // File size in bytes.
	FileType string // Detected document type: csv, markdown, text, pdf.
}

// Config controls the behaviour of the Walk function.
type Config struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// extensionToFileType maps file extensions to routing types.
var extensionToFileType = map[string]string{
	".csv":      document.FileTypeCSV,
	".md":       document.FileTypeMarkdown,
	".markdown": document.FileTypeMarkdown,
	".txt":      document.FileTypeText,
	".text":     document.FileTypeText,
	".pdf":      document.FileTypePDF,
}

// DetectFileType returns the routing type for a filename, or "" when the
// format is not a supported documentation source.
func DetectFileType(name string) string {
	return extensionToFileType[strings.ToLower(filepath.Ext(name))]
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// metadata for every supported documentation file that passes filtering.
func Walk(config Config) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fileType := DetectFileType(d.Name())
		if fileType == "" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxSize {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			RelPath:  filepath.ToSlash(relPath),
			Size:     info.Size(),
			FileType: fileType,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: walk %s: %w", root, err)
	}

	return files, nil
}

// Package ingest collects markdown documents from local paths and
// GitHub repositories and prepares them for chunking.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/docdex/docdex/internal/chunk"
)

// maxFileSize skips files larger than this many bytes.
const maxFileSize = 1 << 20

// Source yields documents from one corpus.
type Source interface {
	// Fetch returns every document the source currently holds.
	Fetch(ctx context.Context) ([]*chunk.Document, error)

	// Name identifies the source in logs.
	Name() string
}

// markdownExtensions are the file types treated as documentation.
var markdownExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// isMarkdown reports whether the path looks like a markdown document.
func isMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// FetchAll drains every source in order. One failing source fails the
// whole ingestion; partial corpora would silently skew search results.
func FetchAll(ctx context.Context, sources []Source) ([]*chunk.Document, error) {
	var docs []*chunk.Document
	for _, src := range sources {
		fetched, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fetched...)
	}
	return docs, nil
}

package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docdex/docdex/internal/chunk"
)

// FSSource reads markdown files from a local file or directory tree.
type FSSource struct {
	root   string
	logger *slog.Logger
}

// NewFSSource creates a filesystem source rooted at path.
func NewFSSource(path string, logger *slog.Logger) *FSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSSource{root: path, logger: logger}
}

func (s *FSSource) Name() string { return "fs:" + s.root }

// Fetch walks the root and loads every markdown file. Files are
// returned in sorted path order so document IDs are stable across
// runs.
func (s *FSSource) Fetch(ctx context.Context) ([]*chunk.Document, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.root, err)
	}

	var paths []string
	if !info.IsDir() {
		paths = []string{s.root}
	} else {
		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				// Skip hidden directories like .git.
				if name := d.Name(); name != "." && len(name) > 1 && name[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if isMarkdown(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", s.root, err)
		}
	}
	sort.Strings(paths)

	docs := make([]*chunk.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := s.load(path)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}

	s.logger.Debug("filesystem source fetched", "root", s.root, "documents", len(docs))
	return docs, nil
}

func (s *FSSource) load(path string) (*chunk.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		s.logger.Warn("skipping oversized file", "path", path, "size", info.Size())
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	body, title := stripFrontmatter(string(data))
	if strings.TrimSpace(body) == "" {
		s.logger.Debug("skipping empty file", "path", path)
		return nil, nil
	}
	if title == "" {
		title = titleFromBody(body)
	}

	id := path
	if rel, err := filepath.Rel(s.root, path); err == nil && rel != "." {
		id = filepath.ToSlash(rel)
	} else if err == nil {
		id = filepath.Base(path)
	}

	return &chunk.Document{
		ID:    id,
		Text:  body,
		Title: title,
	}, nil
}

var _ Source = (*FSSource)(nil)

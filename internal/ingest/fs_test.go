package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFSSource_WalksMarkdownOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "# Readme\ntext")
	writeFile(t, dir, "docs/guide.mdx", "# Guide\ntext")
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, ".git/config", "[core]")

	docs, err := NewFSSource(dir, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Sorted path order gives stable IDs.
	assert.Equal(t, "docs/guide.mdx", docs[0].ID)
	assert.Equal(t, "readme.md", docs[1].ID)
	assert.Equal(t, "Guide", docs[0].Title)
}

func TestFSSource_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.md", "---\ntitle: Page\n---\nBody.\n")

	docs, err := NewFSSource(filepath.Join(dir, "page.md"), nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "page.md", docs[0].ID)
	assert.Equal(t, "Page", docs[0].Title)
	assert.Equal(t, "Body.\n", docs[0].Text)
}

func TestFSSource_SkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.md", "")
	writeFile(t, dir, "blank.md", "  \n\t\n")
	writeFile(t, dir, "real.md", "# Real\ntext")

	docs, err := NewFSSource(dir, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "real.md", docs[0].ID)
}

func TestFSSource_MissingPathErrors(t *testing.T) {
	_, err := NewFSSource(filepath.Join(t.TempDir(), "absent"), nil).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchAll_PreservesSourceOrder(t *testing.T) {
	dirA := t.TempDir()
	writeFile(t, dirA, "a.md", "# A")
	dirB := t.TempDir()
	writeFile(t, dirB, "b.md", "# B")

	docs, err := FetchAll(context.Background(), []Source{
		NewFSSource(dirA, nil),
		NewFSSource(dirB, nil),
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].ID)
	assert.Equal(t, "b.md", docs[1].ID)
}

func TestIsMarkdown(t *testing.T) {
	assert.True(t, isMarkdown("docs/README.MD"))
	assert.True(t, isMarkdown("page.mdx"))
	assert.False(t, isMarkdown("main.go"))
	assert.False(t, isMarkdown("Makefile"))
}

package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/docdex/docdex/internal/search"
)

func TestResults_RendersRankedList(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Results("install", []search.Result{
		{
			Heading:    "Intro",
			Text:       "Install via pip.",
			Score:      0.9231,
			SourceLink: "guide.md#intro",
		},
		{
			DocumentID: "other.md",
			Text:       "Something else.",
			Score:      0.5,
		},
	})

	out := buf.String()
	assert.Contains(t, out, " 1. Intro")
	assert.Contains(t, out, "(0.9231)")
	assert.Contains(t, out, "guide.md#intro")
	assert.Contains(t, out, " 2. other.md")
}

func TestResults_EmptyList(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Results("nothing", nil)
	assert.Contains(t, buf.String(), `no results for "nothing"`)
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Stats(&search.Stats{
		Documents:  3,
		Chunks:     12,
		Dimensions: 256,
		Model:      "static",
		BuiltAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	out := buf.String()
	assert.Contains(t, out, "documents:  3")
	assert.Contains(t, out, "chunks:     12")
	assert.Contains(t, out, "model:      static")
}

func TestStats_NilMeansNoIndex(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Stats(nil)
	assert.Contains(t, buf.String(), "no index built")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Error(errors.New("boom"))
	assert.Contains(t, buf.String(), "error: boom")
}

func TestSnippet_TruncatesAndCollapses(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n  b\t c"))

	long := strings.Repeat("word ", 100)
	got := snippet(long)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len(got), maxSnippetLen+len("…"))
}

package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex/docdex/internal/chunk"
	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/store"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	embedder, err := embed.NewEmbedder(context.Background(), embed.DefaultConfig())
	require.NoError(t, err)
	return NewEngine(cfg, embedder, nil)
}

func guideDocs() []*chunk.Document {
	return []*chunk.Document{
		{
			ID:        "guide.md",
			SourceURL: "https://example.com/guide.md",
			Text:      "# Intro\nInstall via pip.\n# Usage\nRun with --help.",
		},
	}
}

func TestEngine_SearchBeforeBuild(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	_, err := e.Search(context.Background(), "anything", Options{TopK: 5})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestEngine_HybridEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.Build(context.Background(), guideDocs()))

	results, err := e.Search(context.Background(), "install", Options{Method: MethodHybrid, TopK: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)

	top := results[0]
	assert.Equal(t, "Intro", top.Heading)
	assert.Contains(t, top.Text, "Install via pip.")
	assert.Equal(t, MethodHybrid, top.Method)
	assert.Equal(t, "guide.md", top.DocumentID)
	assert.Equal(t, "https://example.com/guide.md#intro", top.SourceLink)
	assert.Greater(t, top.Score, 0.0)
}

func TestEngine_LexicalMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.Build(context.Background(), guideDocs()))

	results, err := e.Search(context.Background(), "install", Options{Method: MethodLexical, TopK: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MethodLexical, results[0].Method)
	assert.Equal(t, "Intro", results[0].Heading)
}

func TestEngine_VectorMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.Build(context.Background(), guideDocs()))

	results, err := e.Search(context.Background(), "install via pip", Options{Method: MethodVector, TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, MethodVector, results[0].Method)
	assert.Equal(t, "Intro", results[0].Heading)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestEngine_UnsupportedMethod(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	require.NoError(t, e.Build(context.Background(), guideDocs()))
	defer func() { _ = e.Close() }()

	_, err := e.Search(context.Background(), "install", Options{Method: "fuzzy", TopK: 5})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestEngine_TopKZeroReturnsEmpty(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	require.NoError(t, e.Build(context.Background(), guideDocs()))
	defer func() { _ = e.Close() }()

	results, err := e.Search(context.Background(), "install", Options{Method: MethodHybrid, TopK: 0})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_NoLexicalOverlapStillReturnsHybrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.Build(context.Background(), guideDocs()))

	// No shared tokens: the lexical leg contributes nothing, the vector
	// leg still ranks every chunk.
	results, err := e.Search(context.Background(), "zzqx unrelated", Options{Method: MethodHybrid, TopK: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestEngine_HybridTopKBeyondCandidateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = chunk.StrategyNone
	cfg.ChunkParams = chunk.Params{}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	// More matching chunks than the default candidate pool holds.
	n := DefaultCandidateLimit + 10
	docs := make([]*chunk.Document, n)
	for i := range docs {
		docs[i] = &chunk.Document{
			ID:   fmt.Sprintf("doc-%03d.md", i),
			Text: fmt.Sprintf("install instructions variant %d", i),
		}
	}
	require.NoError(t, e.Build(context.Background(), docs))

	results, err := e.Search(context.Background(), "install", Options{Method: MethodHybrid, TopK: n})
	require.NoError(t, err)
	assert.Len(t, results, n)
}

func TestEngine_VectorDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	cfg.VectorBackend = store.BackendNone
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.Build(context.Background(), guideDocs()))

	_, err := e.Search(context.Background(), "install", Options{Method: MethodVector, TopK: 5})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	_, err = e.Search(context.Background(), "install", Options{Method: MethodHybrid, TopK: 5})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	results, err := e.Search(context.Background(), "install", Options{Method: MethodLexical, TopK: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	stats := e.Stats()
	require.NotNil(t, stats)
	assert.Zero(t, stats.Dimensions)
}

func TestEngine_RebuildSwapsGeneration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	require.NoError(t, e.Build(context.Background(), guideDocs()))
	require.NoError(t, e.Build(context.Background(), []*chunk.Document{
		{ID: "other.md", Text: "# Deploy\nShip containers to production."},
	}))

	results, err := e.Search(context.Background(), "containers", Options{Method: MethodLexical, TopK: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "other.md", results[0].DocumentID)
}

func TestEngine_EmptyCorpus(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	require.NoError(t, e.Build(context.Background(), nil))
	defer func() { _ = e.Close() }()

	results, err := e.Search(context.Background(), "anything", Options{Method: MethodHybrid, TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngine_Stats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	e := newTestEngine(t, cfg)
	defer func() { _ = e.Close() }()

	assert.Nil(t, e.Stats())

	require.NoError(t, e.Build(context.Background(), guideDocs()))

	stats := e.Stats()
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, embed.StaticDimensions, stats.Dimensions)
	assert.Equal(t, "static", stats.Model)
	assert.False(t, stats.BuiltAt.IsZero())
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodHybrid, m)

	m, err = ParseMethod("lexical")
	require.NoError(t, err)
	assert.Equal(t, MethodLexical, m)

	_, err = ParseMethod("fuzzy")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestHeadingSlug(t *testing.T) {
	assert.Equal(t, "getting-started", headingSlug("Getting Started"))
	assert.Equal(t, "api-v2", headingSlug("API v2"))
}

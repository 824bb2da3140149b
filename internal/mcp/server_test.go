package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex/docdex/internal/chunk"
	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/search"
)

func builtServer(t *testing.T) *Server {
	t.Helper()

	embedder, err := embed.NewEmbedder(context.Background(), embed.DefaultConfig())
	require.NoError(t, err)

	cfg := search.DefaultConfig()
	cfg.ChunkParams = chunk.Params{Level: 1}
	engine := search.NewEngine(cfg, embedder, nil)
	require.NoError(t, engine.Build(context.Background(), []*chunk.Document{
		{
			ID:        "guide.md",
			SourceURL: "https://example.com/guide.md",
			Text:      "# Intro\nInstall via pip.\n# Usage\nRun with --help.",
		},
	}))
	t.Cleanup(func() { _ = engine.Close() })

	srv, err := NewServer(engine, nil)
	require.NoError(t, err)
	return srv
}

func TestNewServer_RequiresEngine(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestSearchDocs_ReturnsRankedResults(t *testing.T) {
	srv := builtServer(t)

	_, out, err := srv.searchDocsHandler(context.Background(), nil, SearchDocsInput{
		Query: "install",
		TopK:  1,
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)

	top := out.Results[0]
	assert.Equal(t, "Intro", top.Heading)
	assert.Equal(t, "guide.md", top.DocumentID)
	assert.Equal(t, "hybrid", top.Method)
	assert.Equal(t, "https://example.com/guide.md#intro", top.SourceLink)
}

func TestSearchDocs_EmptyQueryRejected(t *testing.T) {
	srv := builtServer(t)

	_, _, err := srv.searchDocsHandler(context.Background(), nil, SearchDocsInput{})
	assert.Error(t, err)
}

func TestSearchDocs_UnsupportedMethodRejected(t *testing.T) {
	srv := builtServer(t)

	_, _, err := srv.searchDocsHandler(context.Background(), nil, SearchDocsInput{
		Query:  "install",
		Method: "fuzzy",
	})
	assert.ErrorIs(t, err, search.ErrUnsupportedMethod)
}

func TestSearchDocs_WeightOverrides(t *testing.T) {
	srv := builtServer(t)

	lexOnly := 1.0
	vecOff := 0.0
	_, out, err := srv.searchDocsHandler(context.Background(), nil, SearchDocsInput{
		Query:   "install",
		Lexical: &lexOnly,
		Vector:  &vecOff,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.Equal(t, "Intro", out.Results[0].Heading)
}

func TestIndexStatus_ReportsBuiltIndex(t *testing.T) {
	srv := builtServer(t)

	_, out, err := srv.indexStatusHandler(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.True(t, out.Ready)
	assert.Equal(t, 1, out.Documents)
	assert.Equal(t, 2, out.Chunks)
	assert.Equal(t, "static", out.Model)
	assert.NotEmpty(t, out.BuiltAt)
}

func TestIndexStatus_NotReadyBeforeBuild(t *testing.T) {
	embedder, err := embed.NewEmbedder(context.Background(), embed.DefaultConfig())
	require.NoError(t, err)
	srv, err := NewServer(search.NewEngine(search.DefaultConfig(), embedder, nil), nil)
	require.NoError(t, err)

	_, out, err := srv.indexStatusHandler(context.Background(), nil, IndexStatusInput{})
	require.NoError(t, err)
	assert.False(t, out.Ready)
}

func TestServe_RejectsUnknownTransport(t *testing.T) {
	srv := builtServer(t)
	assert.Error(t, srv.Serve(context.Background(), "sse"))
}

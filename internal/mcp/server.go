// Package mcp exposes the retrieval engine to MCP clients over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docdex/docdex/internal/search"
	"github.com/docdex/docdex/pkg/version"
)

// Server wires the search engine into an MCP server with two tools:
// search_docs and index_status.
type Server struct {
	engine *search.Engine
	logger *slog.Logger
	mcp    *mcp.Server
}

// NewServer creates the MCP server and registers its tools.
func NewServer(engine *search.Engine, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.New("search engine is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine: engine,
		logger: logger,
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "docdex",
			Version: version.Version,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search the indexed documentation corpus. Combines BM25 keyword matching with vector similarity; results carry source links back to the originating document section.",
	}, s.searchDocsHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_status",
		Description: "Report whether the documentation index is built and its size, embedding model, and build time.",
	}, s.indexStatusHandler)

	s.logger.Debug("mcp tools registered", "count", 2)
}

func (s *Server) searchDocsHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchDocsInput) (
	*mcp.CallToolResult,
	SearchDocsOutput,
	error,
) {
	if input.Query == "" {
		return nil, SearchDocsOutput{}, errors.New("query parameter is required")
	}

	method, err := search.ParseMethod(input.Method)
	if err != nil {
		return nil, SearchDocsOutput{}, err
	}

	opts := search.Options{
		Method: method,
		TopK:   search.DefaultTopK,
	}
	if input.TopK > 0 {
		opts.TopK = input.TopK
	}
	if input.Lexical != nil || input.Vector != nil {
		weights := search.DefaultWeights()
		if input.Lexical != nil {
			weights.Lexical = *input.Lexical
		}
		if input.Vector != nil {
			weights.Vector = *input.Vector
		}
		opts.Weights = &weights
	}

	results, err := s.engine.Search(ctx, input.Query, opts)
	if err != nil {
		s.logger.Warn("search_docs failed", "query", input.Query, "error", err)
		return nil, SearchDocsOutput{}, err
	}

	output := SearchDocsOutput{Results: make([]SearchResultOutput, 0, len(results))}
	for _, r := range results {
		output.Results = append(output.Results, SearchResultOutput{
			ChunkID:    r.ChunkID,
			DocumentID: r.DocumentID,
			Heading:    r.Heading,
			Text:       r.Text,
			Score:      r.Score,
			Method:     string(r.Method),
			SourceLink: r.SourceLink,
		})
	}
	return nil, output, nil
}

func (s *Server) indexStatusHandler(_ context.Context, _ *mcp.CallToolRequest, _ IndexStatusInput) (
	*mcp.CallToolResult,
	IndexStatusOutput,
	error,
) {
	stats := s.engine.Stats()
	if stats == nil {
		return nil, IndexStatusOutput{Ready: false}, nil
	}
	return nil, IndexStatusOutput{
		Ready:      true,
		Documents:  stats.Documents,
		Chunks:     stats.Chunks,
		Terms:      stats.Terms,
		Dimensions: stats.Dimensions,
		Model:      stats.Model,
		BuiltAt:    stats.BuiltAt.Format(time.RFC3339),
	}, nil
}

// Serve runs the server over the given transport until ctx ends.
// Only stdio is supported.
func (s *Server) Serve(ctx context.Context, transport string) error {
	switch transport {
	case "", "stdio":
		s.logger.Info("mcp server starting", "transport", "stdio")
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		s.logger.Info("mcp server stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio)", transport)
	}
}

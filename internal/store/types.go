// Package store provides the lexical (BM25) and vector index backends.
// Indexes are built once from a finalized chunk list and are read-only
// afterwards; a rebuild discards the old index and constructs a new one.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Lexical index backends.
const (
	// BackendMemory is the default in-memory inverted index. It
	// implements the documented BM25 scoring exactly.
	BackendMemory = "memory"

	// BackendBleve serves the same contract through bleve. Scores come
	// from bleve's own scorer; use it when the corpus outgrows the
	// in-memory index.
	BackendBleve = "bleve"
)

// Vector index backends.
const (
	// BackendFlat performs exact cosine similarity over every vector.
	BackendFlat = "flat"

	// BackendHNSW performs approximate nearest-neighbor search; ranking
	// near the tail may differ from the exact backend.
	BackendHNSW = "hnsw"

	// BackendNone disables vector indexing entirely. Vector and hybrid
	// queries against such an engine fail with an unsupported-method
	// error.
	BackendNone = "none"
)

// ErrEmptyIndex is returned when an index built from zero chunks is
// queried. Querying before indexing is a programming error, fatal to the
// call and never retried.
var ErrEmptyIndex = errors.New("index contains no chunks")

// DimensionMismatchError indicates an inconsistent embedding provider:
// a vector whose dimension differs from the one established at build
// time. Vectors are never truncated or padded to fit.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// LexicalConfig configures BM25 scoring and tokenization.
type LexicalConfig struct {
	// K1 is the term frequency saturation parameter.
	K1 float64

	// B is the chunk length normalization parameter.
	B float64

	// RemoveStopwords toggles stopword filtering. The same filter is
	// applied to chunk text and query text.
	RemoveStopwords bool

	// Stopwords overrides the default stopword list when non-nil.
	Stopwords []string

	// MinTokenLength drops tokens shorter than this many characters.
	MinTokenLength int
}

// DefaultLexicalConfig returns the documented scoring defaults.
func DefaultLexicalConfig() LexicalConfig {
	return LexicalConfig{
		K1:              1.5,
		B:               0.75,
		RemoveStopwords: true,
		MinTokenLength:  1,
	}
}

// LexicalResult is a single lexical search hit. Pos indexes into the
// chunk slice the index was built from (document order).
type LexicalResult struct {
	Pos          int
	Score        float64
	MatchedTerms []string
}

// VectorResult is a single vector search hit.
type VectorResult struct {
	Pos   int
	Score float64 // Cosine similarity in [-1, 1]
}

// LexicalStats provides statistics about a lexical index.
type LexicalStats struct {
	ChunkCount  int
	TermCount   int
	AvgChunkLen float64
}

// LexicalIndex answers keyword queries with BM25-style relevance scores.
// Implementations are read-only after construction and safe for
// unlimited concurrent queries.
//
// Contract: chunks sharing no tokens with the query never appear in
// results; ties are broken by chunk position; limit <= 0 yields an empty
// result; querying an empty index returns ErrEmptyIndex.
type LexicalIndex interface {
	Search(ctx context.Context, query string, limit int) ([]*LexicalResult, error)
	Stats() *LexicalStats
	Close() error
}

// VectorIndex answers similarity queries against fixed-dimension chunk
// embeddings. Implementations are read-only after construction and safe
// for unlimited concurrent queries.
//
// Contract: the query vector must match the dimension established at
// build time (DimensionMismatchError otherwise); ties are broken by
// chunk position; limit <= 0 yields an empty result; querying an empty
// index returns ErrEmptyIndex.
type VectorIndex interface {
	Search(ctx context.Context, query []float32, limit int) ([]*VectorResult, error)
	Dimensions() int
	Count() int
	Close() error
}

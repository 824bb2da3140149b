// Package search combines the lexical and vector indexes behind a
// single facade. Hybrid queries run both legs, normalize their scores,
// and merge them with a weighted sum.
package search

import (
	"errors"
	"fmt"

	"github.com/docdex/docdex/internal/chunk"
	"github.com/docdex/docdex/internal/store"
)

// Method selects which index answers a query.
type Method string

const (
	// MethodLexical queries only the BM25 index.
	MethodLexical Method = "lexical"

	// MethodVector queries only the vector index.
	MethodVector Method = "vector"

	// MethodHybrid queries both and fuses the rankings.
	MethodHybrid Method = "hybrid"
)

// ErrUnsupportedMethod is returned for a method name outside the three
// supported values.
var ErrUnsupportedMethod = errors.New("unsupported search method")

// ErrNotReady is returned when a query arrives before any index has
// been built.
var ErrNotReady = errors.New("no index built yet")

const (
	// DefaultTopK is the result count when the caller does not specify
	// one.
	DefaultTopK = 5

	// DefaultCandidateLimit is how many hits each leg contributes to
	// fusion before the final clip.
	DefaultCandidateLimit = 50
)

// Weights control the hybrid blend. They need not sum to 1; only the
// ratio matters for the ranking.
type Weights struct {
	Lexical float64
	Vector  float64
}

// DefaultWeights gives both methods equal influence.
func DefaultWeights() Weights {
	return Weights{Lexical: 0.5, Vector: 0.5}
}

// Options parameterize a single query.
type Options struct {
	// Method selects the index; empty means hybrid.
	Method Method

	// TopK caps the result list. Zero or negative yields an empty
	// result.
	TopK int

	// Weights override the engine's configured blend when non-nil.
	Weights *Weights
}

// Result is a single search hit.
type Result struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Heading    string  `json:"heading,omitempty"`
	Score      float64 `json:"score"`
	Method     Method  `json:"method"`

	// SourceLink points back to the originating document, anchored to
	// the chunk's heading when one exists.
	SourceLink string `json:"source_link,omitempty"`
}

// Config assembles the pipeline: how documents are chunked, which
// backends serve each index, and how hybrid scores blend.
type Config struct {
	Strategy    chunk.Strategy
	ChunkParams chunk.Params

	LexicalBackend string
	VectorBackend  string
	Lexical        store.LexicalConfig

	Weights        Weights
	CandidateLimit int
}

// DefaultConfig returns the documented pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:       chunk.StrategySections,
		ChunkParams:    chunk.DefaultParams(chunk.StrategySections),
		LexicalBackend: store.BackendMemory,
		VectorBackend:  store.BackendFlat,
		Lexical:        store.DefaultLexicalConfig(),
		Weights:        DefaultWeights(),
		CandidateLimit: DefaultCandidateLimit,
	}
}

// ParseMethod validates a method name. Empty selects hybrid.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case "":
		return MethodHybrid, nil
	case MethodLexical, MethodVector, MethodHybrid:
		return Method(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

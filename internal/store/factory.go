package store

import (
	"fmt"

	"github.com/docdex/docdex/internal/chunk"
)

// NewLexicalIndex builds a lexical index using the named backend.
// An empty name selects the memory backend.
func NewLexicalIndex(backend string, chunks []chunk.Chunk, cfg LexicalConfig) (LexicalIndex, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryLexical(chunks, cfg)
	case BackendBleve:
		return NewBleveLexical(chunks, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown lexical backend %q", chunk.ErrInvalidParameter, backend)
	}
}

// NewVectorIndex builds a vector index using the named backend.
// An empty name selects the flat backend.
func NewVectorIndex(backend string, vectors [][]float32) (VectorIndex, error) {
	switch backend {
	case "", BackendFlat:
		return NewFlatVector(vectors)
	case BackendHNSW:
		return NewHNSWVector(vectors)
	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", chunk.ErrInvalidParameter, backend)
	}
}

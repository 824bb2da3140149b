// Package embed turns chunk text into fixed-dimension vectors for the
// vector index. Providers share the Embedder interface; the static
// provider needs no network and keeps the hybrid pipeline usable
// offline.
package embed

import (
	"context"
	"math"
	"time"
)

const (
	// DefaultBatchSize is the default number of texts per embedding
	// request.
	DefaultBatchSize = 32

	// MaxBatchSize caps a single embedding request.
	MaxBatchSize = 256

	// DefaultTimeout bounds a single embedding API request.
	DefaultTimeout = 60 * time.Second

	// StaticDimensions is the vector size of the hash-based provider.
	StaticDimensions = 256
)

// Embedder generates vector embeddings for text. Implementations must
// return vectors of a fixed dimension for every input, including the
// empty string.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName identifies the provider and model.
	ModelName() string

	// Close releases resources.
	Close() error
}

// normalizeVector scales v to unit length. A zero vector is returned
// unchanged.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / magnitude)
	}
	return out
}

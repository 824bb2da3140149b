package store

import (
	"context"
	"math"
	"sort"
)

// flatVector is the default vector index: exact cosine similarity over
// every stored vector. Vectors are L2-normalized at build time so a
// query reduces to a dot product.
type flatVector struct {
	vectors [][]float32
	dims    int
}

// NewFlatVector builds the exact-scan vector index. Vectors must be in
// chunk order; all must share the same dimensionality.
func NewFlatVector(vectors [][]float32) (VectorIndex, error) {
	idx := &flatVector{vectors: make([][]float32, len(vectors))}

	for i, v := range vectors {
		if i == 0 {
			idx.dims = len(v)
		} else if len(v) != idx.dims {
			return nil, &DimensionMismatchError{Expected: idx.dims, Got: len(v)}
		}
		idx.vectors[i] = normalized(v)
	}
	return idx, nil
}

func (f *flatVector) Search(ctx context.Context, query []float32, limit int) ([]*VectorResult, error) {
	if len(f.vectors) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != f.dims {
		return nil, &DimensionMismatchError{Expected: f.dims, Got: len(query)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*VectorResult{}, nil
	}

	q := normalized(query)
	results := make([]*VectorResult, len(f.vectors))
	for pos, v := range f.vectors {
		results[pos] = &VectorResult{Pos: pos, Score: dot(q, v)}
	}

	// Similarity descending, ties broken by chunk position.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Pos < results[j].Pos
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (f *flatVector) Dimensions() int { return f.dims }
func (f *flatVector) Count() int      { return len(f.vectors) }
func (f *flatVector) Close() error    { return nil }

var _ VectorIndex = (*flatVector)(nil)

// normalized returns an L2-normalized copy of v. A zero vector is
// returned unchanged: its similarity against anything is 0.
func normalized(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	copy(out, v)
	if sumSquares == 0 {
		return out
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range out {
		out[i] *= inv
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

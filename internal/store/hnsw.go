package store

import (
	"context"
	"sort"

	"github.com/coder/hnsw"
)

// HNSW graph parameters. Defaults follow the library's recommendations
// for mid-sized corpora.
const (
	hnswM        = 16
	hnswEfSearch = 64
)

// hnswVector serves the VectorIndex contract through a coder/hnsw graph.
// Search is approximate: for very large corpora the tail of the ranking
// may differ from the exact flat backend.
type hnswVector struct {
	graph *hnsw.Graph[uint64]
	dims  int
	count int
}

// NewHNSWVector builds an HNSW-backed vector index. Node keys are chunk
// positions, so results map back to the same positions the flat backend
// reports.
func NewHNSWVector(vectors [][]float32) (VectorIndex, error) {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = hnswM
	graph.EfSearch = hnswEfSearch

	idx := &hnswVector{graph: graph}
	for i, v := range vectors {
		if i == 0 {
			idx.dims = len(v)
		} else if len(v) != idx.dims {
			return nil, &DimensionMismatchError{Expected: idx.dims, Got: len(v)}
		}
		graph.Add(hnsw.MakeNode(uint64(i), normalized(v)))
	}
	idx.count = len(vectors)
	return idx, nil
}

func (h *hnswVector) Search(ctx context.Context, query []float32, limit int) ([]*VectorResult, error) {
	if h.count == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != h.dims {
		return nil, &DimensionMismatchError{Expected: h.dims, Got: len(query)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*VectorResult{}, nil
	}

	q := normalized(query)
	nodes := h.graph.Search(q, limit)

	results := make([]*VectorResult, 0, len(nodes))
	for _, node := range nodes {
		// Cosine distance ranges 0..2; similarity = 1 - distance.
		distance := h.graph.Distance(q, node.Value)
		results = append(results, &VectorResult{
			Pos:   int(node.Key),
			Score: 1 - float64(distance),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Pos < results[j].Pos
	})
	return results, nil
}

func (h *hnswVector) Dimensions() int { return h.dims }
func (h *hnswVector) Count() int      { return h.count }
func (h *hnswVector) Close() error    { return nil }

var _ VectorIndex = (*hnswVector)(nil)

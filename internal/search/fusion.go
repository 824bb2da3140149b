package search

import (
	"sort"

	"github.com/docdex/docdex/internal/store"
)

// fusedHit is an intermediate ranking entry keyed by chunk position.
type fusedHit struct {
	Pos   int
	Score float64
}

// fuseHybrid merges a lexical and a vector ranking into one list.
// Each side's scores are min-max normalized to [0, 1] independently,
// then combined as a weighted sum. A chunk absent from one ranking
// contributes 0 for that method. Ties break by chunk position.
func fuseHybrid(lex []*store.LexicalResult, vec []*store.VectorResult, w Weights, limit int) []fusedHit {
	if limit <= 0 {
		return []fusedHit{}
	}

	lexScores := make([]float64, len(lex))
	for i, r := range lex {
		lexScores[i] = r.Score
	}
	vecScores := make([]float64, len(vec))
	for i, r := range vec {
		vecScores[i] = r.Score
	}
	lexNorm := minMaxNormalize(lexScores)
	vecNorm := minMaxNormalize(vecScores)

	combined := make(map[int]float64, len(lex)+len(vec))
	for i, r := range lex {
		combined[r.Pos] += w.Lexical * lexNorm[i]
	}
	for i, r := range vec {
		combined[r.Pos] += w.Vector * vecNorm[i]
	}

	hits := make([]fusedHit, 0, len(combined))
	for pos, score := range combined {
		hits = append(hits, fusedHit{Pos: pos, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Pos < hits[j].Pos
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// minMaxNormalize maps scores onto [0, 1]. When all scores are equal
// (including a single-element list), every entry maps to 1 so that one
// method's lone hit still carries full weight.
func minMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	out := make([]float64, len(scores))
	if hi == lo {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}

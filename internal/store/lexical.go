package store

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/docdex/docdex/internal/chunk"
)

// memoryLexical is the default BM25 index: a plain inverted structure
// over the finalized chunk list. Build once, query many times; no
// mutation after construction, so queries need no locking.
type memoryLexical struct {
	cfg  LexicalConfig
	stop map[string]struct{}

	termFreqs []map[string]int // Per-chunk term frequency
	chunkLens []int            // Per-chunk token count
	docFreq   map[string]int   // Chunks containing each term
	avgLen    float64
	count     int
}

// NewMemoryLexical builds the in-memory BM25 index from a chunk list.
// Chunk order is preserved: result positions index into this slice.
func NewMemoryLexical(chunks []chunk.Chunk, cfg LexicalConfig) (LexicalIndex, error) {
	if cfg.K1 <= 0 {
		return nil, fmt.Errorf("%w: k1 must be positive, got %v", chunk.ErrInvalidParameter, cfg.K1)
	}
	if cfg.B < 0 || cfg.B > 1 {
		return nil, fmt.Errorf("%w: b must be within [0, 1], got %v", chunk.ErrInvalidParameter, cfg.B)
	}

	stopList := cfg.Stopwords
	if stopList == nil {
		stopList = DefaultStopwords
	}
	idx := &memoryLexical{
		cfg:       cfg,
		stop:      BuildStopwordSet(stopList),
		termFreqs: make([]map[string]int, len(chunks)),
		chunkLens: make([]int, len(chunks)),
		docFreq:   make(map[string]int),
		count:     len(chunks),
	}

	totalLen := 0
	for i, c := range chunks {
		tokens := analyze(c.Text, cfg, idx.stop)
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for t := range tf {
			idx.docFreq[t]++
		}
		idx.termFreqs[i] = tf
		idx.chunkLens[i] = len(tokens)
		totalLen += len(tokens)
	}
	if len(chunks) > 0 {
		idx.avgLen = float64(totalLen) / float64(len(chunks))
	}

	return idx, nil
}

func (m *memoryLexical) Search(ctx context.Context, query string, limit int) ([]*LexicalResult, error) {
	if m.count == 0 {
		return nil, ErrEmptyIndex
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*LexicalResult{}, nil
	}

	terms := analyze(query, m.cfg, m.stop)
	if len(terms) == 0 {
		return []*LexicalResult{}, nil
	}

	scores := make(map[int]float64)
	matched := make(map[int][]string)

	for _, term := range terms {
		df := m.docFreq[term]
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (float64(m.count)-float64(df)+0.5)/(float64(df)+0.5))

		for pos, tf := range m.termFreqs {
			freq := float64(tf[term])
			if freq == 0 {
				continue
			}
			norm := 1 - m.cfg.B + m.cfg.B*float64(m.chunkLens[pos])/m.avgLen
			scores[pos] += idf * freq * (m.cfg.K1 + 1) / (freq + m.cfg.K1*norm)
			matched[pos] = appendUnique(matched[pos], term)
		}
	}

	results := make([]*LexicalResult, 0, len(scores))
	for pos, score := range scores {
		results = append(results, &LexicalResult{
			Pos:          pos,
			Score:        score,
			MatchedTerms: matched[pos],
		})
	}

	// Score descending, ties broken by chunk position (document order).
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

func (m *memoryLexical) Stats() *LexicalStats {
	return &LexicalStats{
		ChunkCount:  m.count,
		TermCount:   len(m.docFreq),
		AvgChunkLen: m.avgLen,
	}
}

func (m *memoryLexical) Close() error { return nil }

func appendUnique(terms []string, term string) []string {
	for _, t := range terms {
		if t == term {
			return terms
		}
	}
	return append(terms, term)
}

var _ LexicalIndex = (*memoryLexical)(nil)

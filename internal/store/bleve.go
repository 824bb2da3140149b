package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/analysis/tokenmap"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/docdex/docdex/internal/chunk"
)

const (
	docAnalyzerName = "doc_analyzer"
	docStopMapName  = "doc_stopwords"
	docStopName     = "doc_stop"
)

// bleveLexical serves the LexicalIndex contract through a memory-only
// bleve index. Scoring comes from bleve's scorer rather than the
// documented constants; the zero-overlap and tie-breaking guarantees
// still hold because hits are re-sorted by (score, position).
type bleveLexical struct {
	mu     sync.RWMutex
	index  bleve.Index
	count  int
	closed bool
}

// bleveChunkDoc is the document shape handed to bleve.
type bleveChunkDoc struct {
	Content string `json:"content"`
}

// NewBleveLexical builds a bleve-backed lexical index over the chunk
// list. Document IDs are chunk positions, so results map back to the
// same positions the memory backend reports.
func NewBleveLexical(chunks []chunk.Chunk, cfg LexicalConfig) (LexicalIndex, error) {
	indexMapping, err := buildDocMapping(cfg)
	if err != nil {
		return nil, err
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	batch := idx.NewBatch()
	for pos, c := range chunks {
		if err := batch.Index(strconv.Itoa(pos), bleveChunkDoc{Content: c.Text}); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", pos, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("execute index batch: %w", err)
	}

	return &bleveLexical{index: idx, count: len(chunks)}, nil
}

// buildDocMapping assembles the analyzer: unicode tokenizer, lowercase,
// optional stopword filter mirroring the config toggle.
func buildDocMapping(cfg LexicalConfig) (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	filters := []string{lowercase.Name}
	if cfg.RemoveStopwords {
		stopList := cfg.Stopwords
		if stopList == nil {
			stopList = DefaultStopwords
		}
		tokens := make([]interface{}, len(stopList))
		for i, w := range stopList {
			tokens[i] = w
		}
		if err := indexMapping.AddCustomTokenMap(docStopMapName, map[string]interface{}{
			"type":   tokenmap.Name,
			"tokens": tokens,
		}); err != nil {
			return nil, fmt.Errorf("add stopword token map: %w", err)
		}
		if err := indexMapping.AddCustomTokenFilter(docStopName, map[string]interface{}{
			"type":           stop.Name,
			"stop_token_map": docStopMapName,
		}); err != nil {
			return nil, fmt.Errorf("add stopword filter: %w", err)
		}
		filters = append(filters, docStopName)
	}

	if err := indexMapping.AddCustomAnalyzer(docAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": filters,
	}); err != nil {
		return nil, fmt.Errorf("add custom analyzer: %w", err)
	}
	indexMapping.DefaultAnalyzer = docAnalyzerName

	return indexMapping, nil
}

func (b *bleveLexical) Search(ctx context.Context, query string, limit int) ([]*LexicalResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("lexical index is closed")
	}
	if b.count == 0 {
		return nil, ErrEmptyIndex
	}
	if limit <= 0 {
		return []*LexicalResult{}, nil
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit
	req.IncludeLocations = true

	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	results := make([]*LexicalResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		results = append(results, &LexicalResult{
			Pos:          pos,
			Score:        hit.Score,
			MatchedTerms: matchedTermsFromHit(hit),
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

// matchedTermsFromHit extracts the analyzed query terms that matched the
// hit's content field. Locations are keyed field -> term -> positions.
func matchedTermsFromHit(hit *search.DocumentMatch) []string {
	var terms []string
	for field, byTerm := range hit.Locations {
		if field != "content" {
			continue
		}
		for term := range byTerm {
			terms = appendUnique(terms, term)
		}
	}
	sort.Strings(terms)
	return terms
}

func (b *bleveLexical) Stats() *LexicalStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &LexicalStats{ChunkCount: b.count}
}

func (b *bleveLexical) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.index.Close()
}

var _ LexicalIndex = (*bleveLexical)(nil)

package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docdex/docdex/internal/chunk"
	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/store"
)

// embedConcurrency bounds parallel embedding batches during a build.
const embedConcurrency = 4

// snapshot is one fully built generation of the index pair. Snapshots
// are immutable; a rebuild swaps in a new one atomically so in-flight
// queries keep a consistent view.
type snapshot struct {
	chunks  []chunk.Chunk
	docs    map[string]*chunk.Document
	lexical store.LexicalIndex
	vector  store.VectorIndex
	builtAt time.Time
}

// Engine is the retrieval facade: it owns chunking, both indexes, and
// hybrid fusion. Safe for concurrent use; Build may run concurrently
// with Search.
type Engine struct {
	cfg      Config
	embedder embed.Embedder
	logger   *slog.Logger

	current atomic.Pointer[snapshot]
}

// NewEngine creates an engine. The configuration is validated on the
// first Build, not here.
func NewEngine(cfg Config, embedder embed.Embedder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultCandidateLimit
	}
	return &Engine{cfg: cfg, embedder: embedder, logger: logger}
}

// Build chunks the documents, constructs both indexes, and atomically
// swaps them in. The previous generation keeps serving queries until
// the swap completes.
func (e *Engine) Build(ctx context.Context, docs []*chunk.Document) error {
	start := time.Now()

	chunks, err := chunk.SplitAll(docs, e.cfg.Strategy, e.cfg.ChunkParams)
	if err != nil {
		return fmt.Errorf("chunk documents: %w", err)
	}

	lexical, err := store.NewLexicalIndex(e.cfg.LexicalBackend, chunks, e.cfg.Lexical)
	if err != nil {
		return fmt.Errorf("build lexical index: %w", err)
	}

	// VectorBackend "none" opts out of embedding and vector indexing;
	// the snapshot then serves lexical queries only.
	var vector store.VectorIndex
	if e.cfg.VectorBackend != store.BackendNone {
		vectors, err := e.embedChunks(ctx, chunks)
		if err != nil {
			_ = lexical.Close()
			return fmt.Errorf("embed chunks: %w", err)
		}

		vector, err = store.NewVectorIndex(e.cfg.VectorBackend, vectors)
		if err != nil {
			_ = lexical.Close()
			return fmt.Errorf("build vector index: %w", err)
		}
	}

	docsByID := make(map[string]*chunk.Document, len(docs))
	for _, doc := range docs {
		docsByID[doc.ID] = doc
	}

	next := &snapshot{
		chunks:  chunks,
		docs:    docsByID,
		lexical: lexical,
		vector:  vector,
		builtAt: time.Now(),
	}
	prev := e.current.Swap(next)
	if prev != nil {
		_ = prev.lexical.Close()
		if prev.vector != nil {
			_ = prev.vector.Close()
		}
	}

	e.logger.Info("index built",
		"documents", len(docs),
		"chunks", len(chunks),
		"strategy", string(e.cfg.Strategy),
		"duration", time.Since(start))
	return nil
}

// embedChunks embeds all chunk texts, running batches concurrently.
// Output order matches chunk order regardless of batch completion
// order.
func (e *Engine) embedChunks(ctx context.Context, chunks []chunk.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	if len(chunks) == 0 {
		return vectors, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	batchSize := embed.DefaultBatchSize
	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = chunks[i].Text
			}
			vecs, err := e.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("batch at %d: %w", start, err)
			}
			copy(vectors[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Search answers a query using the current index generation.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}

	method := opts.Method
	if method == "" {
		method = MethodHybrid
	}
	if opts.TopK <= 0 {
		return []Result{}, nil
	}
	topK := opts.TopK
	weights := e.cfg.Weights
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	switch method {
	case MethodLexical:
		return e.searchLexical(ctx, snap, query, topK)
	case MethodVector:
		return e.searchVector(ctx, snap, query, topK)
	case MethodHybrid:
		return e.searchHybrid(ctx, snap, query, topK, weights)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
}

func (e *Engine) searchLexical(ctx context.Context, snap *snapshot, query string, topK int) ([]Result, error) {
	hits, err := snap.lexical.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, snap.result(h.Pos, h.Score, MethodLexical))
	}
	return results, nil
}

func (e *Engine) searchVector(ctx context.Context, snap *snapshot, query string, topK int) ([]Result, error) {
	if snap.vector == nil {
		return nil, fmt.Errorf("%w: vector search is disabled", ErrUnsupportedMethod)
	}

	qvec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := snap.vector.Search(ctx, qvec, topK)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, snap.result(h.Pos, h.Score, MethodVector))
	}
	return results, nil
}

// searchHybrid runs both legs concurrently. A leg failing with
// ErrEmptyIndex degrades to an empty contribution rather than failing
// the query; any other error is fatal.
func (e *Engine) searchHybrid(ctx context.Context, snap *snapshot, query string, topK int, weights Weights) ([]Result, error) {
	if snap.vector == nil {
		return nil, fmt.Errorf("%w: hybrid search requires a vector index", ErrUnsupportedMethod)
	}

	var lexHits []*store.LexicalResult
	var vecHits []*store.VectorResult

	// Each leg contributes at least topK candidates so fusion can rank
	// everything the caller asked for.
	limit := max(e.cfg.CandidateLimit, topK)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := snap.lexical.Search(gctx, query, limit)
		if err != nil {
			if errors.Is(err, store.ErrEmptyIndex) {
				return nil
			}
			return fmt.Errorf("lexical leg: %w", err)
		}
		lexHits = hits
		return nil
	})
	g.Go(func() error {
		qvec, err := e.embedder.Embed(gctx, query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		hits, err := snap.vector.Search(gctx, qvec, limit)
		if err != nil {
			if errors.Is(err, store.ErrEmptyIndex) {
				return nil
			}
			return fmt.Errorf("vector leg: %w", err)
		}
		vecHits = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := fuseHybrid(lexHits, vecHits, weights, topK)
	results := make([]Result, 0, len(fused))
	for _, h := range fused {
		results = append(results, snap.result(h.Pos, h.Score, MethodHybrid))
	}
	return results, nil
}

// Stats describes the current index generation.
type Stats struct {
	Documents  int       `json:"documents"`
	Chunks     int       `json:"chunks"`
	Terms      int       `json:"terms"`
	Dimensions int       `json:"dimensions"`
	Model      string    `json:"model"`
	BuiltAt    time.Time `json:"built_at"`
}

// Stats reports on the current generation, or nil before the first
// Build.
func (e *Engine) Stats() *Stats {
	snap := e.current.Load()
	if snap == nil {
		return nil
	}
	lexStats := snap.lexical.Stats()
	stats := &Stats{
		Documents: len(snap.docs),
		Chunks:    len(snap.chunks),
		Terms:     lexStats.TermCount,
		Model:     e.embedder.ModelName(),
		BuiltAt:   snap.builtAt,
	}
	if snap.vector != nil {
		stats.Dimensions = snap.vector.Dimensions()
	}
	return stats
}

// Chunks returns the current generation's chunk list, or nil before
// the first Build. The slice is shared; callers must not modify it.
func (e *Engine) Chunks() []chunk.Chunk {
	snap := e.current.Load()
	if snap == nil {
		return nil
	}
	return snap.chunks
}

// Close releases the current generation's indexes.
func (e *Engine) Close() error {
	snap := e.current.Swap(nil)
	if snap == nil {
		return nil
	}
	if err := snap.lexical.Close(); err != nil {
		return err
	}
	if snap.vector == nil {
		return nil
	}
	return snap.vector.Close()
}

// result materializes a hit from a chunk position.
func (s *snapshot) result(pos int, score float64, method Method) Result {
	c := s.chunks[pos]
	return Result{
		ChunkID:    c.ID,
		DocumentID: c.DocumentID,
		Text:       c.Text,
		Heading:    c.Heading,
		Score:      score,
		Method:     method,
		SourceLink: s.sourceLink(c),
	}
}

// sourceLink builds a citation link: the document's source URL (or its
// ID when no URL is known), anchored to the chunk's heading.
func (s *snapshot) sourceLink(c chunk.Chunk) string {
	base := c.DocumentID
	if doc, ok := s.docs[c.DocumentID]; ok && doc.SourceURL != "" {
		base = doc.SourceURL
	}
	if c.Heading == "" {
		return base
	}
	return base + "#" + headingSlug(c.Heading)
}

// headingSlug converts a heading label to a GitHub-style anchor.
func headingSlug(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}

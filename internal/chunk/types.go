// Package chunk splits documents into retrievable units.
// Splitting is pure and deterministic: the same document, strategy, and
// parameters always produce the same chunk sequence.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Strategy selects how a document is split into chunks.
type Strategy string

const (
	// StrategyNone produces one chunk per document.
	StrategyNone Strategy = "none"

	// StrategyWindow produces overlapping fixed-size windows.
	// Window size and overlap are measured in characters.
	StrategyWindow Strategy = "window"

	// StrategySections splits on markdown ATX headings.
	StrategySections Strategy = "sections"
)

// Default chunking parameters. Window defaults follow common practice for
// documentation corpora: ~2000 character windows with 10% overlap.
const (
	DefaultWindowSize    = 2000
	DefaultWindowOverlap = 200
	DefaultSectionLevel  = 2
)

// ErrInvalidParameter indicates bad chunking configuration.
// It is a caller error and is never retried.
var ErrInvalidParameter = errors.New("invalid parameter")

// Document is an ingested source text. Immutable once created; the
// chunker never modifies it.
type Document struct {
	ID        string            // Stable identifier (source path or URL)
	Text      string            // Raw text content
	Title     string            // Optional display title
	SourceURL string            // Optional origin link for citation
	Metadata  map[string]string // Optional extra metadata
}

// Chunk is a retrievable unit of text derived from exactly one document.
// Chunks are immutable after creation; re-chunking a document produces an
// entirely new chunk set.
type Chunk struct {
	ID         string // Content hash, unique within an index build
	DocumentID string // Back-reference to the parent document
	Ordinal    int    // Position within the document, 0-indexed
	Text       string // Chunk content
	Heading    string // Governing heading label (sections strategy only)
}

// Params holds strategy parameters. Unused fields are ignored by
// strategies that do not need them.
type Params struct {
	// Size is the window length in characters (window strategy).
	Size int
	// Overlap is the number of characters shared between consecutive
	// windows (window strategy). Must satisfy 0 <= Overlap < Size.
	Overlap int
	// Level is the maximum heading depth that starts a new chunk
	// (sections strategy). A "## Title" line qualifies at Level >= 2.
	Level int
}

// DefaultParams returns the default parameters for a strategy.
func DefaultParams(s Strategy) Params {
	switch s {
	case StrategyWindow:
		return Params{Size: DefaultWindowSize, Overlap: DefaultWindowOverlap}
	case StrategySections:
		return Params{Level: DefaultSectionLevel}
	default:
		return Params{}
	}
}

// Splitter turns one document into an ordered chunk sequence.
type Splitter interface {
	Split(doc *Document) ([]Chunk, error)
}

// NewSplitter creates a splitter for the given strategy, validating
// parameters up front. Returns ErrInvalidParameter for unknown strategies
// or out-of-range parameters.
func NewSplitter(s Strategy, p Params) (Splitter, error) {
	switch s {
	case StrategyNone:
		return noneSplitter{}, nil
	case StrategyWindow:
		if p.Size <= 0 {
			return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidParameter, p.Size)
		}
		if p.Overlap < 0 || p.Overlap >= p.Size {
			return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d",
				ErrInvalidParameter, p.Overlap, p.Size)
		}
		return &windowSplitter{size: p.Size, overlap: p.Overlap}, nil
	case StrategySections:
		if p.Level < 1 || p.Level > 6 {
			return nil, fmt.Errorf("%w: section level must be between 1 and 6, got %d", ErrInvalidParameter, p.Level)
		}
		return &sectionSplitter{level: p.Level}, nil
	default:
		return nil, fmt.Errorf("%w: unknown chunk strategy %q", ErrInvalidParameter, s)
	}
}

// Split is a convenience wrapper that builds a splitter and applies it to
// a single document.
func Split(doc *Document, s Strategy, p Params) ([]Chunk, error) {
	sp, err := NewSplitter(s, p)
	if err != nil {
		return nil, err
	}
	return sp.Split(doc)
}

// SplitAll chunks a document collection in order. The returned slice
// preserves document order and, within a document, chunk ordinal order.
func SplitAll(docs []*Document, s Strategy, p Params) ([]Chunk, error) {
	sp, err := NewSplitter(s, p)
	if err != nil {
		return nil, err
	}

	var all []Chunk
	for _, doc := range docs {
		chunks, err := sp.Split(doc)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", doc.ID, err)
		}
		all = append(all, chunks...)
	}
	return all, nil
}

// chunkID derives a stable content-addressed chunk identifier.
func chunkID(docID string, ordinal int, text string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", docID, ordinal, text)))
	return hex.EncodeToString(h[:])[:16]
}

// noneSplitter emits the whole document as a single chunk.
type noneSplitter struct{}

func (noneSplitter) Split(doc *Document) ([]Chunk, error) {
	return []Chunk{{
		ID:         chunkID(doc.ID, 0, doc.Text),
		DocumentID: doc.ID,
		Ordinal:    0,
		Text:       doc.Text,
	}}, nil
}

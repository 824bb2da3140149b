package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"
)

// StaticEmbedder generates embeddings by hashing tokens and character
// trigrams into a fixed-size vector. Deterministic, no network, no
// model download; semantic quality is reduced compared to a real model
// but lexical overlap still produces meaningful cosine similarity.
type StaticEmbedder struct{}

const (
	tokenWeight   = 0.7
	trigramWeight = 0.3
	trigramSize   = 3
)

var wordRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// NewStaticEmbedder creates the hash-based embedder.
func NewStaticEmbedder() *StaticEmbedder {
	return &StaticEmbedder{}
}

func (e *StaticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, StaticDimensions), nil
	}

	vector := make([]float32, StaticDimensions)

	for _, token := range staticTokens(trimmed) {
		vector[hashToIndex(token, StaticDimensions)] += tokenWeight
	}

	flat := flattenForTrigrams(trimmed)
	for i := 0; i+trigramSize <= len(flat); i++ {
		vector[hashToIndex(flat[i:i+trigramSize], StaticDimensions)] += trigramWeight
	}

	return normalizeVector(vector), nil
}

func (e *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		results[i] = vec
	}
	return results, nil
}

func (e *StaticEmbedder) Dimensions() int   { return StaticDimensions }
func (e *StaticEmbedder) ModelName() string { return "static" }
func (e *StaticEmbedder) Close() error      { return nil }

var _ Embedder = (*StaticEmbedder)(nil)

// staticTokens lowercases and splits text into alphanumeric words,
// breaking identifiers like camelCase and snake_case apart so code
// fragments inside documentation still contribute useful tokens.
func staticTokens(text string) []string {
	var tokens []string
	for _, word := range wordRegex.FindAllString(text, -1) {
		for _, part := range splitIdentifier(word) {
			if part != "" {
				tokens = append(tokens, strings.ToLower(part))
			}
		}
	}
	return tokens
}

func splitIdentifier(word string) []string {
	var result []string
	var current strings.Builder

	runes := []rune(word)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if (prevLower || nextLower) && current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// flattenForTrigrams strips everything but letters and digits so the
// trigram window slides over contiguous text.
func flattenForTrigrams(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hashToIndex(s string, size int) int {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() % uint64(size))
}

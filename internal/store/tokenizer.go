package store

import (
	"strings"
	"unicode"
)

// DefaultStopwords is a small English stopword list tuned for
// documentation text. Replaceable via LexicalConfig.Stopwords.
var DefaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "can",
	"do", "for", "from", "has", "have", "if", "in", "into", "is", "it",
	"its", "no", "not", "of", "on", "or", "such", "that", "the", "their",
	"then", "there", "these", "this", "to", "was", "will", "with", "you",
	"your",
}

// Tokenize lowercases text and splits it on non-alphanumeric boundaries.
// The same function is applied to chunk text at build time and query
// text at search time so both sides agree on term identity.
func Tokenize(text string, minLen int) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		if len(lower) >= minLen {
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// BuildStopwordSet converts a stopword list into a lookup set.
func BuildStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// analyze runs the full tokenization pipeline for a lexical config:
// tokenize, then optionally drop stopwords.
func analyze(text string, cfg LexicalConfig, stop map[string]struct{}) []string {
	tokens := Tokenize(text, cfg.MinTokenLength)
	if !cfg.RemoveStopwords {
		return tokens
	}

	kept := tokens[:0:len(tokens)]
	for _, t := range tokens {
		if _, isStop := stop[t]; !isStop {
			kept = append(kept, t)
		}
	}
	return kept
}

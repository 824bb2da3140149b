package embed

import (
	"context"
	"fmt"

	"github.com/docdex/docdex/internal/chunk"
)

// Provider names an embedding backend.
type Provider string

const (
	// ProviderStatic uses hash-based embeddings. No network required.
	ProviderStatic Provider = "static"

	// ProviderOllama uses a local Ollama server.
	ProviderOllama Provider = "ollama"
)

// Config selects and configures an embedding provider.
type Config struct {
	Provider  Provider
	Ollama    OllamaConfig
	CacheSize int

	// DisableCache skips the LRU wrapper.
	DisableCache bool
}

// DefaultConfig returns the static provider with caching enabled.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderStatic,
		Ollama:    DefaultOllamaConfig(),
		CacheSize: DefaultCacheSize,
	}
}

// NewEmbedder builds the configured provider, wrapped with an LRU cache
// unless disabled. An empty provider name selects static.
func NewEmbedder(ctx context.Context, cfg Config) (Embedder, error) {
	var embedder Embedder

	switch cfg.Provider {
	case "", ProviderStatic:
		embedder = NewStaticEmbedder()
	case ProviderOllama:
		e, err := NewOllamaEmbedder(ctx, cfg.Ollama)
		if err != nil {
			return nil, err
		}
		embedder = e
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", chunk.ErrInvalidParameter, cfg.Provider)
	}

	if !cfg.DisableCache {
		embedder = NewCachedEmbedder(embedder, cfg.CacheSize)
	}
	return embedder, nil
}

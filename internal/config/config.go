// Package config loads and validates the docdex configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/docdex/docdex/internal/chunk"
	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/search"
	"github.com/docdex/docdex/internal/store"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no path is given.
const DefaultConfigFile = ".docdex.yaml"

// Config is the complete docdex configuration.
type Config struct {
	Chunking   ChunkingConfig   `yaml:"chunking" json:"chunking"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Sources    SourcesConfig    `yaml:"sources" json:"sources"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// ChunkingConfig selects the chunking strategy and its parameters.
type ChunkingConfig struct {
	Strategy string `yaml:"strategy" json:"strategy"`

	// WindowSize and WindowOverlap apply to the window strategy, in
	// characters.
	WindowSize    int `yaml:"window_size" json:"window_size"`
	WindowOverlap int `yaml:"window_overlap" json:"window_overlap"`

	// SectionLevel is the deepest heading level that starts a new chunk
	// (sections strategy).
	SectionLevel int `yaml:"section_level" json:"section_level"`
}

// SearchConfig configures backends, scoring, and the hybrid blend.
type SearchConfig struct {
	LexicalBackend string `yaml:"lexical_backend" json:"lexical_backend"`
	VectorBackend  string `yaml:"vector_backend" json:"vector_backend"`

	// LexicalWeight and VectorWeight control the hybrid blend.
	LexicalWeight float64 `yaml:"lexical_weight" json:"lexical_weight"`
	VectorWeight  float64 `yaml:"vector_weight" json:"vector_weight"`

	// CandidateLimit is how many hits each leg contributes to fusion.
	CandidateLimit int `yaml:"candidate_limit" json:"candidate_limit"`

	// TopK is the default result count for queries that do not specify
	// one.
	TopK int `yaml:"top_k" json:"top_k"`

	// BM25 scoring parameters.
	K1              float64  `yaml:"k1" json:"k1"`
	B               float64  `yaml:"b" json:"b"`
	RemoveStopwords *bool    `yaml:"remove_stopwords" json:"remove_stopwords"`
	Stopwords       []string `yaml:"stopwords" json:"stopwords"`
	MinTokenLength  int      `yaml:"min_token_length" json:"min_token_length"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	Provider   string `yaml:"provider" json:"provider"`
	Model      string `yaml:"model" json:"model"`
	Dimensions int    `yaml:"dimensions" json:"dimensions"`
	BatchSize  int    `yaml:"batch_size" json:"batch_size"`

	// OllamaHost is the Ollama API endpoint (ollama provider).
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`

	// Timeout bounds a single embedding request, e.g. "60s".
	Timeout string `yaml:"timeout" json:"timeout"`

	// CacheSize is the query embedding LRU size; 0 uses the default.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// DisableCache turns the query embedding cache off.
	DisableCache bool `yaml:"disable_cache" json:"disable_cache"`
}

// SourcesConfig names the documentation corpora to index.
type SourcesConfig struct {
	// Paths are local files or directories scanned for markdown.
	Paths []string `yaml:"paths" json:"paths"`

	// GitHub repositories fetched through the API.
	GitHub []GitHubSource `yaml:"github" json:"github"`
}

// GitHubSource identifies a repository subtree to ingest.
type GitHubSource struct {
	Owner string `yaml:"owner" json:"owner"`
	Repo  string `yaml:"repo" json:"repo"`

	// Ref is a branch, tag, or commit; empty uses the default branch.
	Ref string `yaml:"ref" json:"ref"`

	// Path restricts ingestion to a subtree; empty takes the whole
	// repository.
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "text" or "json"; empty picks by terminal detection.
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Strategy:      string(chunk.StrategySections),
			WindowSize:    chunk.DefaultWindowSize,
			WindowOverlap: chunk.DefaultWindowOverlap,
			SectionLevel:  chunk.DefaultSectionLevel,
		},
		Search: SearchConfig{
			LexicalBackend: store.BackendMemory,
			VectorBackend:  store.BackendFlat,
			LexicalWeight:  0.5,
			VectorWeight:   0.5,
			CandidateLimit: search.DefaultCandidateLimit,
			TopK:           search.DefaultTopK,
			K1:             1.5,
			B:              0.75,
			MinTokenLength: 1,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   string(embed.ProviderStatic),
			Model:      embed.DefaultOllamaModel,
			BatchSize:  embed.DefaultBatchSize,
			OllamaHost: embed.DefaultOllamaHost,
			Timeout:    "60s",
			CacheSize:  embed.DefaultCacheSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file and merges it over the defaults. A
// missing file at the default location is not an error; a missing file
// at an explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints. Backend names and chunking
// parameters are validated again at build time; this catches config
// mistakes early with file context in the error.
func (c *Config) Validate() error {
	switch chunk.Strategy(c.Chunking.Strategy) {
	case chunk.StrategyNone, chunk.StrategyWindow, chunk.StrategySections:
	default:
		return fmt.Errorf("%w: unknown chunking strategy %q", chunk.ErrInvalidParameter, c.Chunking.Strategy)
	}

	if c.Search.LexicalWeight < 0 || c.Search.VectorWeight < 0 {
		return fmt.Errorf("%w: search weights must be non-negative", chunk.ErrInvalidParameter)
	}
	if c.Search.LexicalWeight == 0 && c.Search.VectorWeight == 0 {
		return fmt.Errorf("%w: at least one search weight must be positive", chunk.ErrInvalidParameter)
	}
	if c.Search.TopK < 0 {
		return fmt.Errorf("%w: top_k must be non-negative", chunk.ErrInvalidParameter)
	}

	if c.Embeddings.Timeout != "" {
		if _, err := time.ParseDuration(c.Embeddings.Timeout); err != nil {
			return fmt.Errorf("%w: invalid embeddings timeout %q", chunk.ErrInvalidParameter, c.Embeddings.Timeout)
		}
	}

	for _, src := range c.Sources.GitHub {
		if src.Owner == "" || src.Repo == "" {
			return fmt.Errorf("%w: github source requires owner and repo", chunk.ErrInvalidParameter)
		}
	}
	return nil
}

// ChunkParams converts the chunking section to splitter parameters.
func (c *Config) ChunkParams() (chunk.Strategy, chunk.Params) {
	strategy := chunk.Strategy(c.Chunking.Strategy)
	params := chunk.Params{
		Size:    c.Chunking.WindowSize,
		Overlap: c.Chunking.WindowOverlap,
		Level:   c.Chunking.SectionLevel,
	}
	return strategy, params
}

// EngineConfig assembles the engine configuration.
func (c *Config) EngineConfig() search.Config {
	strategy, params := c.ChunkParams()

	lexical := store.LexicalConfig{
		K1:              c.Search.K1,
		B:               c.Search.B,
		RemoveStopwords: c.Search.RemoveStopwords == nil || *c.Search.RemoveStopwords,
		Stopwords:       c.Search.Stopwords,
		MinTokenLength:  c.Search.MinTokenLength,
	}

	return search.Config{
		Strategy:       strategy,
		ChunkParams:    params,
		LexicalBackend: c.Search.LexicalBackend,
		VectorBackend:  c.Search.VectorBackend,
		Lexical:        lexical,
		Weights: search.Weights{
			Lexical: c.Search.LexicalWeight,
			Vector:  c.Search.VectorWeight,
		},
		CandidateLimit: c.Search.CandidateLimit,
	}
}

// EmbedConfig assembles the embedding provider configuration.
func (c *Config) EmbedConfig() embed.Config {
	timeout, _ := time.ParseDuration(c.Embeddings.Timeout)

	return embed.Config{
		Provider: embed.Provider(c.Embeddings.Provider),
		Ollama: embed.OllamaConfig{
			Host:       c.Embeddings.OllamaHost,
			Model:      c.Embeddings.Model,
			Dimensions: c.Embeddings.Dimensions,
			BatchSize:  c.Embeddings.BatchSize,
			Timeout:    timeout,
		},
		CacheSize:    c.Embeddings.CacheSize,
		DisableCache: c.Embeddings.DisableCache,
	}
}

// Package cmd provides the CLI commands for docdex.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/config"
	"github.com/docdex/docdex/internal/embed"
	"github.com/docdex/docdex/internal/ingest"
	"github.com/docdex/docdex/internal/logging"
	"github.com/docdex/docdex/internal/output"
	"github.com/docdex/docdex/internal/search"
	"github.com/docdex/docdex/pkg/version"
)

// rootOptions holds persistent flags shared by all commands.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root command for the docdex CLI.
func NewRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "docdex",
		Short: "Hybrid search over documentation corpora",
		Long: `Docdex indexes markdown documentation from local paths and GitHub
repositories and answers queries with hybrid retrieval: BM25 keyword
matching blended with vector similarity.

It can run as a one-shot CLI or serve the index to MCP clients.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("docdex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (default .docdex.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text, json")

	cmd.AddCommand(newSearchCmd(&opts))
	cmd.AddCommand(newServeCmd(&opts))
	cmd.AddCommand(newChunksCmd(&opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		output.New(os.Stderr).Error(err)
		return err
	}
	return nil
}

// setup loads the config and installs the logger. Logs go to stderr so
// stdout stays clean for results and the MCP stream.
func (o *rootOptions) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	if o.logFormat != "" {
		logCfg.Format = o.logFormat
	}
	logger := logging.Setup(os.Stderr, logCfg)
	return cfg, logger, nil
}

// buildSources assembles ingestion sources from the config plus any
// --path and --github flags.
func buildSources(cfg *config.Config, paths, githubSpecs []string, logger *slog.Logger) ([]ingest.Source, error) {
	var sources []ingest.Source

	for _, path := range cfg.Sources.Paths {
		sources = append(sources, ingest.NewFSSource(path, logger))
	}
	for _, src := range cfg.Sources.GitHub {
		sources = append(sources, newGitHubSource(src, logger))
	}
	for _, path := range paths {
		sources = append(sources, ingest.NewFSSource(path, logger))
	}
	for _, spec := range githubSpecs {
		src, err := parseGitHubSpec(spec)
		if err != nil {
			return nil, err
		}
		sources = append(sources, newGitHubSource(src, logger))
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources configured: pass --path or --github, or add sources to the config file")
	}
	return sources, nil
}

func newGitHubSource(src config.GitHubSource, logger *slog.Logger) ingest.Source {
	var opts []ingest.GitHubOption
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		opts = append(opts, ingest.WithGitHubToken(token))
	}
	return ingest.NewGitHubSource(src.Owner, src.Repo, src.Ref, src.Path, logger, opts...)
}

// parseGitHubSpec parses "owner/repo[@ref][:path]".
func parseGitHubSpec(spec string) (config.GitHubSource, error) {
	var src config.GitHubSource

	rest := spec
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		src.Path = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		src.Ref = rest[i+1:]
		rest = rest[:i]
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return src, fmt.Errorf("invalid github source %q: expected owner/repo[@ref][:path]", spec)
	}
	src.Owner, src.Repo = parts[0], parts[1]
	return src, nil
}

// buildEngine ingests all sources and builds a ready-to-query engine.
func buildEngine(ctx context.Context, cfg *config.Config, paths, githubSpecs []string, logger *slog.Logger) (*search.Engine, error) {
	sources, err := buildSources(cfg, paths, githubSpecs, logger)
	if err != nil {
		return nil, err
	}

	docs, err := ingest.FetchAll(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	logger.Info("documents ingested", "sources", len(sources), "documents", len(docs))

	embedder, err := embed.NewEmbedder(ctx, cfg.EmbedConfig())
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	engine := search.NewEngine(cfg.EngineConfig(), embedder, logger)
	if err := engine.Build(ctx, docs); err != nil {
		_ = embedder.Close()
		return nil, err
	}
	return engine, nil
}

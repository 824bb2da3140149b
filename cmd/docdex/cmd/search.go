package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/output"
	"github.com/docdex/docdex/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	method        string
	topK          int
	lexicalWeight float64
	vectorWeight  float64
	format        string
	paths         []string
	github        []string
	stats         bool
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the documentation corpus",
		Long: `Index the configured sources and run one query against them.

Examples:
  docdex search "install docker" --path ./docs
  docdex search "authentication" --github golang/go:doc --method lexical
  docdex search "error handling" --format json -n 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, root, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "Search method: lexical, vector, hybrid (default hybrid)")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().Float64Var(&opts.lexicalWeight, "lexical-weight", -1, "Hybrid weight for the BM25 leg")
	cmd.Flags().Float64Var(&opts.vectorWeight, "vector-weight", -1, "Hybrid weight for the vector leg")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringSliceVarP(&opts.paths, "path", "p", nil, "Local file or directory to index (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.github, "github", "g", nil, "GitHub source owner/repo[@ref][:path] (repeatable)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print index statistics to stderr after the query")

	return cmd
}

func runSearch(cmd *cobra.Command, root *rootOptions, query string, opts searchOptions) error {
	cfg, logger, err := root.setup()
	if err != nil {
		return err
	}

	method, err := search.ParseMethod(opts.method)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd.Context(), cfg, opts.paths, opts.github, logger)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	searchOpts := search.Options{
		Method: method,
		TopK:   cfg.Search.TopK,
	}
	if opts.topK > 0 {
		searchOpts.TopK = opts.topK
	}
	if opts.lexicalWeight >= 0 || opts.vectorWeight >= 0 {
		weights := search.Weights{
			Lexical: cfg.Search.LexicalWeight,
			Vector:  cfg.Search.VectorWeight,
		}
		if opts.lexicalWeight >= 0 {
			weights.Lexical = opts.lexicalWeight
		}
		if opts.vectorWeight >= 0 {
			weights.Vector = opts.vectorWeight
		}
		searchOpts.Weights = &weights
	}

	results, err := engine.Search(cmd.Context(), query, searchOpts)
	if err != nil {
		return err
	}

	// Stats go to stderr so stdout stays parseable in json mode.
	if opts.stats {
		output.New(cmd.ErrOrStderr()).Stats(engine.Stats())
	}

	switch opts.format {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "text":
		output.New(cmd.OutOrStdout()).Results(query, results)
		return nil
	default:
		return fmt.Errorf("unknown format %q (supported: text, json)", opts.format)
	}
}

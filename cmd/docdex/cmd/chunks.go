package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/chunk"
	"github.com/docdex/docdex/internal/output"
)

// chunksOptions holds CLI flags for chunks.
type chunksOptions struct {
	strategy string
	size     int
	overlap  int
	level    int
	format   string
}

func newChunksCmd(root *rootOptions) *cobra.Command {
	var opts chunksOptions

	cmd := &cobra.Command{
		Use:   "chunks <file>",
		Short: "Show how a document splits into chunks",
		Long: `Split a single markdown file with the given strategy and print the
resulting chunk boundaries. Useful for tuning chunking parameters
before indexing a corpus.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChunks(cmd, root, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "Chunking strategy: none, window, sections (default from config)")
	cmd.Flags().IntVar(&opts.size, "size", 0, "Window size in characters")
	cmd.Flags().IntVar(&opts.overlap, "overlap", -1, "Window overlap in characters")
	cmd.Flags().IntVar(&opts.level, "level", 0, "Deepest heading level that starts a chunk")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runChunks(cmd *cobra.Command, root *rootOptions, path string, opts chunksOptions) error {
	cfg, _, err := root.setup()
	if err != nil {
		return err
	}

	strategy, params := cfg.ChunkParams()
	if opts.strategy != "" {
		strategy = chunk.Strategy(opts.strategy)
	}
	if opts.size > 0 {
		params.Size = opts.size
	}
	if opts.overlap >= 0 {
		params.Overlap = opts.overlap
	}
	if opts.level > 0 {
		params.Level = opts.level
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc := &chunk.Document{ID: path, Text: string(data)}
	chunks, err := chunk.Split(doc, strategy, params)
	if err != nil {
		return err
	}

	switch opts.format {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(chunks)
	case "text":
		out := output.New(cmd.OutOrStdout())
		out.Info("%d chunks (%s)", len(chunks), strategy)
		for _, c := range chunks {
			label := c.Heading
			if label == "" {
				label = c.ID
			}
			out.Info("--- %d: %s (%d chars)", c.Ordinal, label, len(c.Text))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (supported: text, json)", opts.format)
	}
}

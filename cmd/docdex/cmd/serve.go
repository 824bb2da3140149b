package cmd

import (
	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/mcp"
)

// serveOptions holds CLI flags for serve.
type serveOptions struct {
	transport string
	paths     []string
	github    []string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation index to MCP clients",
		Long: `Index the configured sources, then expose search_docs and
index_status tools over the MCP stdio transport.

Stdout carries the protocol stream; logs go to stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.transport, "transport", "t", "stdio", "MCP transport (stdio)")
	cmd.Flags().StringSliceVarP(&opts.paths, "path", "p", nil, "Local file or directory to index (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.github, "github", "g", nil, "GitHub source owner/repo[@ref][:path] (repeatable)")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts serveOptions) error {
	cfg, logger, err := root.setup()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd.Context(), cfg, opts.paths, opts.github, logger)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	server, err := mcp.NewServer(engine, logger)
	if err != nil {
		return err
	}
	return server.Serve(cmd.Context(), opts.transport)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/mcp"
	"github.com/alnah/studynotes/internal/server"
)

// serveOptions holds options for the serve command.
type serveOptions struct {
	addr          string
	allowedOrigin string
	maxBody       int64
	model         modelFlags
}

// ServeCmd creates the serve command (HTTP and websocket API).
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the notes pipeline over HTTP",
		Long: `Serve the notes pipeline over HTTP.

Routes:
  GET  /healthz         liveness probe
  GET  /api/sections    section catalogue
  POST /api/notes       transcript to rendered notes
  POST /api/normalize   raw model reply to notes JSON
  GET  /ws/notes        websocket with stage events

Requests that need the model fail until credentials are set. PDF output
needs weasyprint or wkhtmltopdf.`,
		Example: `  studynotes serve
  studynotes serve --addr :9000 --provider deepseek`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), env, opts)
		},
	}

	opts.model.bind(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "Listen address")
	cmd.Flags().StringVar(&opts.allowedOrigin, "allow-origin", "", "Only accept websocket connections from this Origin")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", 0, "Maximum request body size in bytes (default 4 MiB)")

	return cmd
}

// runServe executes the serve command. It returns when ctx is done.
func runServe(ctx context.Context, env *Env, opts serveOptions) error {
	cfg := loadConfig(env)
	runner, err := buildRunner(ctx, env, cfg, runnerNeeds{model: opts.model, llm: needOptional, pdf: needOptional})
	if err != nil {
		return err
	}

	serverOpts := []server.Option{server.WithLogger(logger.New(env.Stderr, cfg.LogLevel))}
	if opts.allowedOrigin != "" {
		serverOpts = append(serverOpts, server.WithAllowedOrigin(opts.allowedOrigin))
	}
	if opts.maxBody > 0 {
		serverOpts = append(serverOpts, server.WithMaxBody(opts.maxBody))
	}

	fmt.Fprintf(env.Stderr, "Serving on http://%s. Press Ctrl+C to stop.\n", opts.addr)
	return server.New(runner, serverOpts...).ListenAndServe(ctx, opts.addr)
}

// MCPCmd creates the mcp command (MCP tools over stdio).
// The env parameter provides injectable dependencies for testing.
func MCPCmd(env *Env, version string) *cobra.Command {
	var model modelFlags

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the notes tools over MCP (stdio)",
		Long: `Serve the notes pipeline as Model Context Protocol tools on stdio:
segment_transcript, build_prompt, normalize_reply and generate_notes.

Diagnostics go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(env)
			runner, err := buildRunner(cmd.Context(), env, cfg, runnerNeeds{model: model, llm: needOptional, pdf: needOptional})
			if err != nil {
				return err
			}
			return mcp.Run(runner, version)
		},
	}
	model.bind(cmd)
	return cmd
}

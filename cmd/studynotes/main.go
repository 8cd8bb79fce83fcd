package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/apierr"
	"github.com/alnah/studynotes/internal/cli"
	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/lang"
	"github.com/alnah/studynotes/internal/llm"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/pdf"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/render"
	"github.com/alnah/studynotes/internal/section"
	"github.com/alnah/studynotes/internal/transcript"
	"github.com/alnah/studynotes/internal/video"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitSetup     = 3
	ExitInput     = 4
	ExitModel     = 5
	ExitParse     = 6
	ExitRender    = 7
	ExitInterrupt = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	if err := newRootCmd(env).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(exitCode(err))
	}
}

func newRootCmd(env *cli.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "studynotes",
		Short:   "Turn lecture transcripts into structured study notes",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.GenerateCmd(env))
	rootCmd.AddCommand(cli.RenderCmd(env))
	rootCmd.AddCommand(cli.SegmentCmd(env))
	rootCmd.AddCommand(cli.PromptCmd(env))
	rootCmd.AddCommand(cli.NormalizeCmd(env))
	rootCmd.AddCommand(cli.WatchCmd(env))
	rootCmd.AddCommand(cli.ServeCmd(env))
	rootCmd.AddCommand(cli.MCPCmd(env, version))
	rootCmd.AddCommand(cli.ConfigCmd(env))
	return rootCmd
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Setup errors (ExitSetup = 3). Checked before render errors: a missing
	// engine surfaces wrapped in pipeline.ErrRender.
	if errors.Is(err, pdf.ErrEngineNotFound) || errors.Is(err, llm.ErrCredentialsMissing) ||
		errors.Is(err, llm.ErrInvalidProvider) {
		return ExitSetup
	}

	// Input errors (ExitInput = 4).
	if errors.Is(err, pipeline.ErrInput) || errors.Is(err, cli.ErrFileNotFound) ||
		errors.Is(err, cli.ErrOutputExists) || errors.Is(err, cli.ErrNotDirectory) ||
		errors.Is(err, config.ErrUnknownKey) || errors.Is(err, render.ErrInvalidTheme) ||
		errors.Is(err, lang.ErrInvalid) || errors.Is(err, section.ErrUnknown) ||
		errors.Is(err, transcript.ErrEmptyTranscript) || errors.Is(err, transcript.ErrInvalidInput) ||
		errors.Is(err, video.ErrInvalidURL) {
		return ExitInput
	}

	// Model errors (ExitModel = 5).
	if errors.Is(err, pipeline.ErrModel) || errors.Is(err, apierr.ErrRateLimit) ||
		errors.Is(err, apierr.ErrQuotaExceeded) || errors.Is(err, apierr.ErrTimeout) ||
		errors.Is(err, apierr.ErrAuthFailed) || errors.Is(err, apierr.ErrBadRequest) ||
		errors.Is(err, llm.ErrEmptyResponse) {
		return ExitModel
	}

	// Parse errors (ExitParse = 6).
	if errors.Is(err, pipeline.ErrParse) || errors.Is(err, notes.ErrNoJSON) ||
		errors.Is(err, notes.ErrInvalidJSON) {
		return ExitParse
	}

	// Render errors (ExitRender = 7).
	if errors.Is(err, pipeline.ErrRender) || errors.Is(err, pdf.ErrRenderFailed) {
		return ExitRender
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors. Matched
	// on message text, so only after every typed error has been ruled out.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}

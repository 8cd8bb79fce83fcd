package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/watch"
)

// watchOptions holds options for the watch command.
type watchOptions struct {
	dir           string
	outputDir     string
	settle        time.Duration
	maxConcurrent int
	notes         notesFlags
	model         modelFlags
}

// WatchCmd creates the watch command (generate notes for new transcripts).
// The env parameter provides injectable dependencies for testing.
func WatchCmd(env *Env) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Generate notes for every new transcript in a directory",
		Long: `Watch a directory and generate notes for each new .txt or .json
transcript. Output is written next to the transcript (or to --output-dir)
as <name>.notes.<format>. Files written by studynotes are ignored.

Press Ctrl+C to stop. Transcripts in progress are finished first.`,
		Example: `  studynotes watch ~/lectures
  studynotes watch ~/lectures --format docx --max-concurrent 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dir = args[0]
			return runWatch(cmd.Context(), env, opts)
		},
	}

	opts.notes.bind(cmd)
	opts.model.bind(cmd)
	cmd.Flags().StringVarP(&opts.notes.format, "format", "f", "pdf", "Output format: pdf, html, docx, json")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for generated notes (default: the watched directory)")
	cmd.Flags().DurationVar(&opts.settle, "settle", watch.DefaultSettle, "Delay before reading a new file")
	cmd.Flags().IntVar(&opts.maxConcurrent, "max-concurrent", watch.DefaultMaxConcurrent, "Transcripts processed at once")

	return cmd
}

// runWatch executes the watch command. It returns when ctx is done.
func runWatch(ctx context.Context, env *Env, opts watchOptions) error {
	info, err := os.Stat(opts.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", opts.dir, ErrFileNotFound)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", opts.dir, ErrNotDirectory)
	}

	// Validate flags once; each file is parsed on arrival.
	probe, err := opts.notes.params("").Request()
	if err != nil {
		return err
	}

	cfg := loadConfig(env)
	outDir := firstNonEmpty(opts.outputDir, cfg.OutputDir, opts.dir)
	outDir = config.ExpandPath(outDir)

	pdfNeed := needNone
	if probe.Format.String() == pipeline.PDF {
		pdfNeed = needRequired
	}
	runner, err := buildRunner(ctx, env, cfg, runnerNeeds{model: opts.model, llm: needRequired, pdf: pdfNeed})
	if err != nil {
		return err
	}

	w, err := watch.New(opts.dir, transcriptHandler(env, runner, opts.notes, outDir),
		watch.WithSettle(opts.settle),
		watch.WithMaxConcurrent(opts.maxConcurrent),
		watch.WithLogger(logger.New(env.Stderr, cfg.LogLevel)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	fmt.Fprintf(env.Stderr, "Watching %s (output: %s). Press Ctrl+C to stop.\n", opts.dir, outDir)
	return w.Start(ctx)
}

// transcriptHandler generates notes for one transcript file.
func transcriptHandler(env *Env, runner *pipeline.Runner, flags notesFlags, outDir string) watch.Handler {
	return func(ctx context.Context, path string) error {
		input, err := readInput(env, path)
		if err != nil {
			return err
		}
		req, err := flags.params(input).Request()
		if err != nil {
			return err
		}
		output := config.ResolveOutputPath("", outDir, deriveOutputName(path, req.Format))
		if err := ensureOutputFree(output); err != nil {
			return err
		}

		res, err := runner.Run(ctx, req)
		if err != nil {
			savePrompt(env, output, err)
			return err
		}
		if err := writeFileAtomic(output, res.Output); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Done: %s (run %s)\n", output, res.RunID)
		return nil
	}
}

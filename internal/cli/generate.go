package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/format"
	"github.com/alnah/studynotes/internal/pipeline"
)

// generateOptions holds validated options for the generate command.
type generateOptions struct {
	inputPath string
	output    string
	saveNotes string
	notes     notesFlags
	model     modelFlags
}

// GenerateCmd creates the generate command (transcript to study notes).
// The env parameter provides injectable dependencies for testing.
func GenerateCmd(env *Env) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <transcript-file|->",
		Short: "Generate study notes from a transcript",
		Long: `Generate study notes from a lecture transcript.

The transcript may be plain text, a JSON array of {"time", "text"} segments,
or outline-style notes with short heading lines (--input headings).
Use "-" to read from stdin.

The notes are extracted by a single model call (Gemini by default) and
rendered as PDF, HTML, DOCX or JSON. PDF output requires weasyprint or
wkhtmltopdf.

If the model call or the reply parsing fails, the prompt is saved next to
the output as <output>.prompt.txt.`,
		Example: `  studynotes generate lecture.txt
  studynotes generate lecture.json --video https://youtu.be/abc123def45 --math
  studynotes generate lecture.txt --format docx --sections key_points,must_remembers
  studynotes generate - --format json -o notes.json < lecture.txt
  studynotes generate long-lecture.txt --divisions 4 --provider openai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.inputPath = args[0]
			return runGenerate(cmd.Context(), env, opts)
		},
	}

	opts.notes.bind(cmd)
	opts.model.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: <input>.notes.<format>)")
	cmd.Flags().StringVarP(&opts.notes.format, "format", "f", "pdf", "Output format: pdf, html, docx, json")
	cmd.Flags().StringVar(&opts.saveNotes, "save-notes", "", "Also save the normalized notes as JSON to this path")

	return cmd
}

// runGenerate executes the generate command.
func runGenerate(ctx context.Context, env *Env, opts generateOptions) error {
	// === VALIDATION (fail-fast) ===

	input, err := readInput(env, opts.inputPath)
	if err != nil {
		return err
	}
	req, err := opts.notes.params(input).Request()
	if err != nil {
		return err
	}

	cfg := loadConfig(env)

	defaultName := deriveOutputName(opts.inputPath, req.Format)
	if opts.inputPath == "-" {
		defaultName = stdinOutputName(env, req.Format)
	}
	output := config.ResolveOutputPath(opts.output, cfg.OutputDir, defaultName)
	warnExtensionMismatch(env.Stderr, output, req.Format)

	// Check output files don't already exist.
	if err := ensureOutputFree(output, opts.saveNotes); err != nil {
		return err
	}

	pdfNeed := needNone
	if req.Format.String() == pipeline.PDF {
		pdfNeed = needRequired
	}
	runner, err := buildRunner(ctx, env, cfg, runnerNeeds{model: opts.model, llm: needRequired, pdf: pdfNeed})
	if err != nil {
		return err
	}

	// === GENERATE ===

	start := env.Now()
	req.Progress = progressPrinter(env)
	res, err := runner.Run(ctx, req)
	if err != nil {
		savePrompt(env, output, err)
		return err
	}
	for _, f := range res.Failures {
		fmt.Fprintf(env.Stderr, "Warning: part %d failed and was skipped: %v\n", f.Index, f.Err)
	}

	// === WRITE OUTPUT ===

	if err := writeFileAtomic(output, res.Output); err != nil {
		return err
	}
	if opts.saveNotes != "" {
		data, err := runner.Render(ctx, res.Document, pipeline.RenderOptions{Format: pipeline.JSONFormat})
		if err != nil {
			return err
		}
		if err := writeFileAtomic(opts.saveNotes, data); err != nil {
			return err
		}
		fmt.Fprintf(env.Stderr, "Notes saved: %s\n", opts.saveNotes)
	}

	fmt.Fprintf(env.Stderr, "Done: %s (%s, %s, run %s)\n",
		output, format.Size(int64(len(res.Output))), format.Elapsed(env.Now().Sub(start)), res.RunID)
	return nil
}

// savePrompt writes the prompt of a failed model or parse step next to the
// intended output. Failures here are reported, not returned.
func savePrompt(env *Env, output string, runErr error) {
	p := pipeline.PromptOf(runErr)
	if p == "" || !(errors.Is(runErr, pipeline.ErrModel) || errors.Is(runErr, pipeline.ErrParse)) {
		return
	}
	path := promptPath(output)
	if err := writeFileAtomic(path, []byte(p)); err != nil {
		fmt.Fprintf(env.Stderr, "Warning: could not save prompt: %v\n", err)
		return
	}
	fmt.Fprintf(env.Stderr, "Prompt saved: %s\n", filepath.Clean(path))
}

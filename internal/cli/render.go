package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/video"
)

// renderOptions holds validated options for the render command.
type renderOptions struct {
	inputPath string
	output    string
	format    pipeline.Format
	video     video.Reference
	easyRead  bool
	title     string
	theme     string
}

// RenderCmd creates the render command (saved notes to a document).
// The env parameter provides injectable dependencies for testing.
func RenderCmd(env *Env) *cobra.Command {
	var (
		output   string
		outFmt   string
		videoURL string
		easyRead bool
		title    string
		theme    string
	)

	cmd := &cobra.Command{
		Use:   "render <notes-file>",
		Short: "Render saved notes without calling the model",
		Long: `Render a notes JSON document (from --save-notes, --format json or the
normalize command) as PDF, HTML, DOCX or JSON. No model call is made.`,
		Example: `  studynotes render lecture.notes.json
  studynotes render notes.json --format docx --video https://youtu.be/abc123def45
  studynotes render notes.json --format html --easy-read --theme dark.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseRenderOptions(args[0], output, outFmt, videoURL, easyRead, title, theme)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), env, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>.notes.<format>)")
	cmd.Flags().StringVarP(&outFmt, "format", "f", "pdf", "Output format: pdf, html, docx, json")
	cmd.Flags().StringVar(&videoURL, "video", "", "Video URL for timestamp links (YouTube)")
	cmd.Flags().BoolVar(&easyRead, "easy-read", false, "Render highlight tags as emphasized text")
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().StringVar(&theme, "theme", "", "YAML theme file")

	return cmd
}

// parseRenderOptions validates and parses CLI inputs into renderOptions.
// All parsing happens at the CLI boundary.
func parseRenderOptions(inputPath, output, outFmt, videoURL string, easyRead bool, title, theme string) (renderOptions, error) {
	f, err := pipeline.ParseFormat(outFmt)
	if err != nil {
		return renderOptions{}, err
	}
	ref, err := video.Parse(videoURL)
	if err != nil {
		return renderOptions{}, fmt.Errorf("%w: %w", pipeline.ErrInput, err)
	}
	return renderOptions{
		inputPath: inputPath,
		output:    output,
		format:    f,
		video:     ref,
		easyRead:  easyRead,
		title:     title,
		theme:     theme,
	}, nil
}

// runRender executes the render command with validated options.
func runRender(ctx context.Context, env *Env, opts renderOptions) error {
	raw, err := readInput(env, opts.inputPath)
	if err != nil {
		return err
	}
	doc, err := notes.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrParse, err)
	}

	cfg := loadConfig(env)
	output := config.ResolveOutputPath(opts.output, cfg.OutputDir, deriveOutputName(opts.inputPath, opts.format))
	warnExtensionMismatch(env.Stderr, output, opts.format)
	if err := ensureOutputFree(output); err != nil {
		return err
	}

	pdfNeed := needNone
	if opts.format.String() == pipeline.PDF {
		pdfNeed = needRequired
	}
	runner, err := buildRunner(ctx, env, cfg, runnerNeeds{model: modelFlags{theme: opts.theme}, pdf: pdfNeed})
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Rendering %s...\n", opts.format)
	out, err := runner.Render(ctx, doc, pipeline.RenderOptions{
		Video:    opts.video,
		EasyRead: opts.easyRead,
		Format:   opts.format,
		Title:    opts.title,
	})
	if err != nil {
		return err
	}
	if err := writeFileAtomic(output, out); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Done: %s\n", output)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/llm"
	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/render"
)

// notesFlags holds the raw note-generation flags shared by generate, watch
// and prompt. They are validated together by params.
type notesFlags struct {
	input     string
	format    string
	video     string
	maxWords  int
	sections  string
	focus     string
	math      bool
	chem      bool
	easyRead  bool
	lang      string
	divisions int
	title     string
}

func (f *notesFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.input, "input", "auto", "Input format: auto, text, json, headings")
	fs.StringVar(&f.video, "video", "", "Video URL for timestamp links (YouTube)")
	fs.IntVar(&f.maxWords, "max-words", 750, "Target total word count")
	fs.StringVar(&f.sections, "sections", "all", "Comma-separated sections to extract")
	fs.StringVar(&f.focus, "focus", "", "Free-text focus passed to the model")
	fs.BoolVar(&f.math, "math", false, "Use LaTeX math notation")
	fs.BoolVar(&f.chem, "chem", false, "Use mhchem chemistry notation")
	fs.BoolVar(&f.easyRead, "easy-read", false, "Highlight critical words")
	fs.StringVarP(&f.lang, "lang", "l", "", "Language of the notes (ISO 639-1 code, e.g., en, fr)")
	fs.IntVar(&f.divisions, "divisions", 1, "Analyze the transcript in N parts (1-10)")
	fs.StringVar(&f.title, "title", "", "Document title (default: from headings input)")
}

// params converts the flags to validated pipeline parameters.
func (f *notesFlags) params(input string) pipeline.Params {
	p := pipeline.Params{
		Transcript: input,
		Input:      f.input,
		Format:     f.format,
		VideoURL:   f.video,
		MaxWords:   f.maxWords,
		Focus:      f.focus,
		Math:       f.math,
		Chem:       f.chem,
		EasyRead:   f.easyRead,
		Lang:       f.lang,
		Divisions:  f.divisions,
		Title:      f.title,
	}
	if p.Input == "auto" {
		p.Input = ""
	}
	if s := strings.TrimSpace(f.sections); s != "" && s != "all" {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				p.Sections = append(p.Sections, part)
			}
		}
	}
	return p
}

// modelFlags select the model endpoint and theme.
type modelFlags struct {
	provider string
	model    string
	theme    string
}

func (f *modelFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.provider, "provider", "", "Model provider: gemini, openai, deepseek (default gemini)")
	fs.StringVar(&f.model, "model", "", "Model name (default depends on provider)")
	fs.StringVar(&f.theme, "theme", "", "YAML theme file")
}

// need says whether a runner dependency is required, optional or unused.
type need int

const (
	needNone need = iota
	needOptional
	needRequired
)

// runnerNeeds describes the dependencies a command needs.
type runnerNeeds struct {
	model modelFlags
	llm   need
	pdf   need
}

// buildRunner assembles a pipeline.Runner from flags, config and env.
// Flags take precedence over config values. Optional dependencies that fail
// to build are reported on stderr and left nil.
func buildRunner(ctx context.Context, env *Env, cfg config.Config, needs runnerNeeds) (*pipeline.Runner, error) {
	themePath := firstNonEmpty(needs.model.theme, cfg.Theme)
	theme := render.DefaultTheme()
	if themePath != "" {
		t, err := render.LoadTheme(config.ExpandPath(themePath))
		if err != nil {
			return nil, err
		}
		theme = t
	}
	renderer, err := render.NewRenderer(theme)
	if err != nil {
		return nil, err
	}

	runner := &pipeline.Runner{
		Renderer: renderer,
		Logger:   logger.New(env.Stderr, cfg.LogLevel),
		Now:      env.Now,
	}

	if needs.llm != needNone {
		inv, err := newInvoker(ctx, env, cfg, needs.model)
		switch {
		case err == nil:
			runner.Invoker = inv
		case needs.llm == needRequired:
			return nil, err
		default:
			fmt.Fprintf(env.Stderr, "Warning: model unavailable: %v\n", err)
		}
	}

	if needs.pdf != needNone {
		em, err := env.EmitterFactory.NewEmitter(ctx, config.ExpandPath(cfg.PDFEngine))
		switch {
		case err == nil:
			runner.Emitter = em
		case needs.pdf == needRequired:
			return nil, err
		default:
			fmt.Fprintf(env.Stderr, "Warning: PDF output unavailable: %v\n", err)
		}
	}
	return runner, nil
}

func newInvoker(ctx context.Context, env *Env, cfg config.Config, f modelFlags) (llm.Invoker, error) {
	provider, err := llm.ParseProvider(firstNonEmpty(f.provider, cfg.Provider))
	if err != nil {
		return nil, err
	}
	provider = provider.OrDefault()

	// A configured model belongs to the configured provider.
	model := f.model
	if model == "" && (f.provider == "" || f.provider == cfg.Provider) {
		model = cfg.Model
	}

	return env.InvokerFactory.NewInvoker(ctx, llm.Settings{
		Provider: provider,
		APIKey:   env.Getenv(provider.EnvKey()),
		Model:    model,
	})
}

// loadConfig loads configuration, warning instead of failing.
func loadConfig(env *Env) config.Config {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	return cfg
}

// progressPrinter reports pipeline stages on stderr.
func progressPrinter(env *Env) func(pipeline.Event) {
	return func(ev pipeline.Event) {
		switch ev.Stage {
		case pipeline.StageSegment:
			fmt.Fprintf(env.Stderr, "Segmenting transcript (%s)...\n", ev.Detail)
		case pipeline.StageInvoke:
			fmt.Fprintln(env.Stderr, "Calling model...")
		case pipeline.StageNormalize:
			fmt.Fprintln(env.Stderr, "Normalizing reply...")
		case pipeline.StageRender:
			fmt.Fprintf(env.Stderr, "Rendering %s...\n", ev.Detail)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package pipeline turns one transcript into one study-notes document.
//
// A request flows through segmentation, prompt construction, a single model
// call, reply normalization, render preprocessing, templating and emission.
// A Runner holds no per-request state and may be shared.
package pipeline

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alnah/studynotes/internal/docx"
	"github.com/alnah/studynotes/internal/format"
	"github.com/alnah/studynotes/internal/llm"
	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/pdf"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/render"
	"github.com/alnah/studynotes/internal/transcript"
	"github.com/alnah/studynotes/internal/video"
)

// Stage names reported to Request.Progress.
const (
	StageSegment   = "segment"
	StageInvoke    = "invoke"
	StageNormalize = "normalize"
	StageRender    = "render"
	StageDone      = "done"
)

// Event reports progress of one run.
type Event struct {
	RunID  string `json:"run_id"`
	Stage  string `json:"stage"`
	Detail string `json:"detail,omitempty"`
}

// Emitter converts HTML to PDF. *pdf.Emitter implements it.
type Emitter interface {
	Emit(ctx context.Context, html string) ([]byte, error)
}

// Compile-time interface compliance check.
var _ Emitter = (*pdf.Emitter)(nil)

// Request describes one notes generation.
type Request struct {
	Input     string
	InputMode transcript.Mode
	Config    prompt.Config
	VideoURL  string
	Format    Format

	// Title overrides the transcript title in the output document.
	Title string

	// Divisions > 1 analyzes the transcript in that many parts.
	Divisions int

	// Progress, when set, receives stage events synchronously. In batch
	// mode it is called from several goroutines.
	Progress func(Event)
}

// Analysis is the model-derived part of a run.
type Analysis struct {
	RunID    string
	Document notes.Document
	Prompt   string
	Title    string
	Segments []transcript.Segment

	// Failures lists divisions whose analysis failed in batch mode.
	Failures []DivisionFailure
}

// DivisionFailure records one failed division of a batch.
type DivisionFailure struct {
	Index int
	Err   error
}

// RenderOptions select how a document is rendered.
type RenderOptions struct {
	Video    video.Reference
	EasyRead bool
	Format   Format
	Title    string
}

// Result is the outcome of Run.
type Result struct {
	Analysis
	Format Format
	Output []byte
}

// Runner executes requests.
type Runner struct {
	Invoker  llm.Invoker
	Renderer *render.Renderer

	// Emitter is required for PDF output only.
	Emitter Emitter

	// Logger defaults to a discarding logger.
	Logger logger.Logger

	// MaxParallel bounds concurrent model calls in batch mode (default 4).
	MaxParallel int

	// Now is used for run ids; defaults to time.Now.
	Now func() time.Time
}

// MaxDivisions is the upper bound for Request.Divisions.
const MaxDivisions = 10

const defaultParallel = 4

func (r *Runner) log() logger.Logger {
	if r.Logger == nil {
		return logger.Discard()
	}
	return r.Logger
}

func (r *Runner) newRunID() string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return ulid.MustNew(ulid.Timestamp(now()), ulid.Monotonic(rand.Reader, 0)).String()
}

func emit(req Request, ev Event) {
	if req.Progress != nil {
		req.Progress(ev)
	}
}

// Run analyzes req and renders the result in req.Format.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	ref, err := video.Parse(req.VideoURL)
	if err != nil {
		return Result{}, newError(ErrInput, "", err)
	}

	var a Analysis
	if req.Divisions > 1 {
		a, err = r.AnalyzeDivisions(ctx, req, req.Divisions)
	} else {
		a, err = r.Analyze(ctx, req)
	}
	if err != nil {
		return Result{Analysis: a}, err
	}

	title := req.Title
	if title == "" {
		title = a.Title
	}
	emit(req, Event{RunID: a.RunID, Stage: StageRender, Detail: req.Format.String()})
	out, err := r.Render(logger.WithRunID(ctx, a.RunID), a.Document, RenderOptions{
		Video:    ref,
		EasyRead: req.Config.EasyRead(),
		Format:   req.Format,
		Title:    title,
	})
	if err != nil {
		return Result{Analysis: a}, err
	}
	emit(req, Event{RunID: a.RunID, Stage: StageDone, Detail: format.Size(int64(len(out)))})
	return Result{Analysis: a, Format: req.Format, Output: out}, nil
}

// Analyze parses the input, builds the prompt, calls the model once and
// normalizes the reply.
func (r *Runner) Analyze(ctx context.Context, req Request) (Analysis, error) {
	a := Analysis{RunID: r.newRunID()}
	ctx = logger.WithRunID(ctx, a.RunID)

	t, err := r.parse(ctx, req, a.RunID)
	if err != nil {
		return a, err
	}
	a.Title, a.Segments = t.Title, t.Segments

	a.Prompt = prompt.Build(req.Config, t)
	doc, err := r.analyze(ctx, req, a.RunID, a.Prompt)
	if err != nil {
		return a, err
	}
	a.Document = doc
	return a, nil
}

func (r *Runner) parse(ctx context.Context, req Request, runID string) (transcript.Transcript, error) {
	if req.Config.MaxWords() == 0 {
		return transcript.Transcript{}, newError(ErrInput, "", errors.New("prompt config is required"))
	}
	emit(req, Event{RunID: runID, Stage: StageSegment, Detail: req.InputMode.String()})
	t, err := transcript.Parse(req.Input, req.InputMode)
	if err != nil {
		return transcript.Transcript{}, newError(ErrInput, "", err)
	}
	r.log().Info(ctx, "parsed %d segments (mode %s)", len(t.Segments), req.InputMode)
	return t, nil
}

// analyze runs one prompt through the model and normalizer.
func (r *Runner) analyze(ctx context.Context, req Request, runID, p string) (notes.Document, error) {
	if r.Invoker == nil {
		return nil, newError(ErrModel, p, errors.New("no model configured"))
	}

	emit(req, Event{RunID: runID, Stage: StageInvoke})
	start := time.Now()
	reply, err := r.Invoker.Invoke(ctx, p)
	if err != nil {
		r.log().Error(ctx, "model call failed after %s: %v", format.Elapsed(time.Since(start)), err)
		return nil, newError(ErrModel, p, err)
	}
	r.log().Info(ctx, "model replied in %s (%s)", format.Elapsed(time.Since(start)), format.Size(int64(len(reply))))

	emit(req, Event{RunID: runID, Stage: StageNormalize})
	doc, err := notes.Normalize(reply)
	if err != nil {
		r.log().Warn(ctx, "reply could not be normalized: %v", err)
		return nil, newError(ErrParse, p, err)
	}
	return doc, nil
}

// Render produces output bytes from a document without calling the model.
func (r *Runner) Render(ctx context.Context, doc notes.Document, opts RenderOptions) ([]byte, error) {
	doc = notes.Backfill(doc)

	if opts.Format.String() == JSON {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, newError(ErrRender, "", fmt.Errorf("encode notes: %w", err))
		}
		return buf.Bytes(), nil
	}

	p := render.Prepare(doc, opts.Video, opts.EasyRead).WithTitle(opts.Title)
	if opts.Format.String() == DOCX {
		out, err := docx.Bytes(p, opts.Title)
		if err != nil {
			return nil, newError(ErrRender, "", err)
		}
		return out, nil
	}

	if r.Renderer == nil {
		return nil, newError(ErrRender, "", errors.New("no renderer configured"))
	}
	page, err := r.Renderer.HTML(p)
	if err != nil {
		return nil, newError(ErrRender, "", err)
	}
	if opts.Format.String() == HTML {
		return []byte(page), nil
	}

	if r.Emitter == nil {
		return nil, newError(ErrRender, "", pdf.ErrEngineNotFound)
	}
	start := time.Now()
	out, err := r.Emitter.Emit(ctx, page)
	if err != nil {
		return nil, newError(ErrRender, "", err)
	}
	r.log().Info(ctx, "pdf rendered in %s (%s)", format.Elapsed(time.Since(start)), format.Size(int64(len(out))))
	return out, nil
}

package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/prompt"
	"github.com/alnah/studynotes/internal/transcript"
)

// AnalyzeDivisions splits the transcript into n ordered parts and analyzes
// each with its own model call, running up to MaxParallel calls at once.
//
// Parts are merged in order regardless of completion order. A failed part is
// recorded in Analysis.Failures and the others still count; the call fails
// only when every part fails, returning the first part's error. n is capped
// at the number of segments.
func (r *Runner) AnalyzeDivisions(ctx context.Context, req Request, n int) (Analysis, error) {
	if n < 1 || n > MaxDivisions {
		return Analysis{}, newError(ErrInput, "", fmt.Errorf("divisions must be between 1 and %d, got %d", MaxDivisions, n))
	}
	if n == 1 {
		return r.Analyze(ctx, req)
	}

	a := Analysis{RunID: r.newRunID()}
	ctx = logger.WithRunID(ctx, a.RunID)

	t, err := r.parse(ctx, req, a.RunID)
	if err != nil {
		return a, err
	}
	a.Title, a.Segments = t.Title, t.Segments

	parts := split(t.Segments, n)
	prompts := make([]string, len(parts))
	for i, segs := range parts {
		cfg, err := req.Config.ForDivision(i+1, len(parts))
		if err != nil {
			return a, newError(ErrInput, "", err)
		}
		prompts[i] = prompt.Build(cfg, transcript.Transcript{Title: t.Title, Segments: segs})
	}
	a.Prompt = prompts[0]
	r.log().Info(ctx, "analyzing %d divisions", len(parts))

	docs := make([]notes.Document, len(parts))
	errs := make([]error, len(parts))

	limit := r.MaxParallel
	if limit <= 0 {
		limit = defaultParallel
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range parts {
		g.Go(func() error {
			// Failures stay isolated to their division.
			docs[i], errs[i] = r.analyze(gctx, req, a.RunID, prompts[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return a, newError(ErrModel, a.Prompt, err)
	}

	var ok []notes.Document
	for i := range parts {
		if errs[i] != nil {
			r.log().Warn(ctx, "division %d/%d failed: %v", i+1, len(parts), errs[i])
			a.Failures = append(a.Failures, DivisionFailure{Index: i + 1, Err: errs[i]})
			continue
		}
		ok = append(ok, docs[i])
	}
	if len(ok) == 0 {
		return a, errs[0]
	}
	a.Document = notes.Merge(ok...)
	return a, nil
}

// split divides segments into min(n, len) contiguous, non-empty parts.
func split(segs []transcript.Segment, n int) [][]transcript.Segment {
	if n > len(segs) {
		n = len(segs)
	}
	parts := make([][]transcript.Segment, 0, n)
	for i := range n {
		start, end := i*len(segs)/n, (i+1)*len(segs)/n
		parts = append(parts, segs[start:end])
	}
	return parts
}

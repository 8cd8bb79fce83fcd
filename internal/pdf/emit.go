package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// maxStderr bounds the engine diagnostics kept in errors.
const maxStderr = 2000

// runFn runs a command with stdin and returns its stdout and stderr.
type runFn func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

// Emitter converts HTML to PDF with one engine invocation per call.
type Emitter struct {
	engine Engine
	run    runFn
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithRun sets a custom run function (for testing).
func WithRun(fn runFn) EmitterOption {
	return func(e *Emitter) { e.run = fn }
}

// NewEmitter creates an Emitter for a resolved engine.
func NewEmitter(engine Engine, opts ...EmitterOption) *Emitter {
	e := &Emitter{engine: engine, run: defaultRun}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the engine this emitter drives.
func (e *Emitter) Engine() Engine {
	return e.engine
}

// Emit pipes html to the engine and returns the PDF bytes.
// Engine stderr is included in the error on failure.
func (e *Emitter) Emit(ctx context.Context, html string) ([]byte, error) {
	stdout, stderr, err := e.run(ctx, e.engine.Path, e.engine.args(), strings.NewReader(html))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v%s", ErrRenderFailed, e.engine.Kind, err, diagnostics(stderr))
	}
	if !bytes.HasPrefix(stdout, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: %s produced no PDF output%s", ErrRenderFailed, e.engine.Kind, diagnostics(stderr))
	}
	return stdout, nil
}

func diagnostics(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	if len(s) > maxStderr {
		s = s[:maxStderr] + "..."
	}
	return "\nOutput: " + s
}

// defaultRun is the production implementation.
func defaultRun(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/studynotes/internal/config"
	"github.com/alnah/studynotes/internal/llm"
	"github.com/alnah/studynotes/internal/pdf"
	"github.com/alnah/studynotes/internal/pipeline"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader   ConfigLoader
	InvokerFactory InvokerFactory
	EmitterFactory EmitterFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// InvokerFactory creates model invokers.
type InvokerFactory interface {
	NewInvoker(ctx context.Context, s llm.Settings) (llm.Invoker, error)
}

// EmitterFactory creates PDF emitters. enginePath may be empty, in which
// case the engine is looked up on PATH.
type EmitterFactory interface {
	NewEmitter(ctx context.Context, enginePath string) (pipeline.Emitter, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithInvokerFactory sets the invoker factory.
func WithInvokerFactory(f InvokerFactory) EnvOption {
	return func(e *Env) {
		e.InvokerFactory = f
	}
}

// WithEmitterFactory sets the PDF emitter factory.
func WithEmitterFactory(f EmitterFactory) EnvOption {
	return func(e *Env) {
		e.EmitterFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Getenv:         os.Getenv,
		Now:            time.Now,
		ConfigLoader:   &defaultConfigLoader{},
		InvokerFactory: &defaultInvokerFactory{},
		EmitterFactory: &defaultEmitterFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultInvokerFactory implements InvokerFactory using the llm package.
type defaultInvokerFactory struct{}

func (defaultInvokerFactory) NewInvoker(ctx context.Context, s llm.Settings) (llm.Invoker, error) {
	return llm.New(ctx, s)
}

// defaultEmitterFactory implements EmitterFactory using the pdf package.
type defaultEmitterFactory struct{}

func (defaultEmitterFactory) NewEmitter(ctx context.Context, enginePath string) (pipeline.Emitter, error) {
	engine, err := pdf.NewResolver(pdf.WithEnginePath(enginePath)).Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return pdf.NewEmitter(engine), nil
}

// Compile-time interface verification.
var (
	_ ConfigLoader   = (*defaultConfigLoader)(nil)
	_ InvokerFactory = (*defaultInvokerFactory)(nil)
	_ EmitterFactory = (*defaultEmitterFactory)(nil)
)

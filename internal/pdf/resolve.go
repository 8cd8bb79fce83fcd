// Package pdf turns rendered HTML into PDF bytes through an external engine.
//
// Two engines are supported: weasyprint (preferred) and wkhtmltopdf. Both read
// HTML on stdin and write the PDF to stdout.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// EnvEnginePath overrides engine discovery with an explicit binary path.
const EnvEnginePath = "STUDYNOTES_PDF_ENGINE"

// Engine kinds.
const (
	WeasyPrint  = "weasyprint"
	WKHTMLToPDF = "wkhtmltopdf"
)

// searchOrder lists engines looked up on PATH, preferred first.
var searchOrder = []string{WeasyPrint, WKHTMLToPDF}

// Engine is a resolved PDF engine binary.
type Engine struct {
	Path string
	Kind string
}

// args returns the command line reading HTML from stdin and writing PDF to stdout.
func (e Engine) args() []string {
	if e.Kind == WKHTMLToPDF {
		// KaTeX renders client-side; give it time before printing.
		return []string{"--quiet", "--enable-local-file-access", "--javascript-delay", "1000", "-", "-"}
	}
	return []string{"--quiet", "-", "-"}
}

// kindOf infers the engine kind from a binary path. Unknown names are
// treated as weasyprint-compatible.
func kindOf(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if strings.Contains(base, WKHTMLToPDF) {
		return WKHTMLToPDF
	}
	return WeasyPrint
}

// ---------------------------------------------------------------------------
// Resolver - testable engine resolution with dependency injection
// ---------------------------------------------------------------------------

// Resolver finds a PDF engine.
type Resolver struct {
	env      envProvider
	explicit string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnvProvider sets the environment provider implementation.
func WithEnvProvider(e envProvider) ResolverOption {
	return func(r *Resolver) { r.env = e }
}

// WithEnginePath sets an explicit engine path (from the pdf-engine config key).
// It takes precedence over the environment variable.
func WithEnginePath(path string) ResolverOption {
	return func(r *Resolver) { r.explicit = path }
}

// NewResolver creates a Resolver with the given options.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{env: osEnvProvider{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the engine using the following precedence:
//  1. explicit path (WithEnginePath), then STUDYNOTES_PDF_ENGINE (error if set but missing)
//  2. weasyprint on PATH
//  3. wkhtmltopdf on PATH
func (r *Resolver) Resolve(ctx context.Context) (Engine, error) {
	if err := ctx.Err(); err != nil {
		return Engine{}, err
	}

	source, path := "pdf-engine", r.explicit
	if path == "" {
		source, path = EnvEnginePath, r.env.Getenv(EnvEnginePath)
	}
	if path != "" {
		if _, err := r.env.Stat(path); err != nil {
			return Engine{}, fmt.Errorf("%w: %s is set to %q but the binary does not exist", ErrEngineNotFound, source, path)
		}
		return Engine{Path: path, Kind: kindOf(path)}, nil
	}

	for _, name := range searchOrder {
		if p, err := r.env.LookPath(name); err == nil {
			return Engine{Path: p, Kind: name}, nil
		}
	}
	return Engine{}, fmt.Errorf("%w: install weasyprint or wkhtmltopdf, or set %s", ErrEngineNotFound, EnvEnginePath)
}

// Resolve finds an engine with production defaults.
func Resolve(ctx context.Context) (Engine, error) {
	return NewResolver().Resolve(ctx)
}

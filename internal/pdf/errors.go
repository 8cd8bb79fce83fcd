package pdf

import "errors"

// ErrEngineNotFound indicates no HTML-to-PDF engine is installed or configured.
var ErrEngineNotFound = errors.New("pdf engine not found")

// ErrRenderFailed indicates the engine ran but produced no usable PDF.
var ErrRenderFailed = errors.New("pdf rendering failed")

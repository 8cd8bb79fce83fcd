package render

import "errors"

// Sentinel errors for rendering.
var (
	// ErrInvalidTheme indicates a theme file with bad colors, fonts or icon keys.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrTemplate indicates the notes template failed to parse or execute.
	ErrTemplate = errors.New("template error")
)

package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a Runner wraps exactly one of them.
var (
	// ErrInput indicates unusable input: empty transcript, malformed
	// structured input, bad video URL or an invalid request.
	ErrInput = errors.New("input error")

	// ErrModel indicates the model call failed (credentials, transport,
	// provider error or empty reply).
	ErrModel = errors.New("model error")

	// ErrParse indicates the model reply held no usable JSON object.
	ErrParse = errors.New("parse error")

	// ErrRender indicates template, document or PDF generation failed.
	ErrRender = errors.New("render error")
)

// Error is a classified pipeline failure. Both Kind and Err match errors.Is.
// Prompt holds the literal prompt on model and parse failures.
type Error struct {
	Kind   error
	Prompt string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newError(kind error, prompt string, err error) *Error {
	return &Error{Kind: kind, Prompt: prompt, Err: err}
}

// KindOf returns the kind sentinel err wraps, or nil.
func KindOf(err error) error {
	for _, k := range []error{ErrInput, ErrModel, ErrParse, ErrRender} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// PromptOf returns the prompt retained by a model or parse failure, or "".
func PromptOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Prompt
	}
	return ""
}

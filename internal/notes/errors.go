package notes

import (
	"errors"
	"fmt"
)

// Sentinel errors for reply parsing.
var (
	// ErrNoJSON indicates the reply contains no {...} span at all.
	ErrNoJSON = errors.New("no valid JSON found in response")

	// ErrInvalidJSON indicates the recovered span does not decode as a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON object")
)

// maxSnippet bounds the reply text kept in a ParseError.
const maxSnippet = 500

// ParseError reports a model reply that could not be turned into a Document.
// Snippet holds (a prefix of) the offending text for diagnosis.
type ParseError struct {
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model reply: %v (snippet: %q)", e.Err, e.Snippet)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(text string, err error) *ParseError {
	r := []rune(text)
	if len(r) > maxSnippet {
		text = string(r[:maxSnippet]) + "..."
	}
	return &ParseError{Snippet: text, Err: err}
}

package llm

import "errors"

// Sentinel errors for model invocation.
var (
	// ErrCredentialsMissing indicates no API key was supplied. It is returned
	// before any network activity.
	ErrCredentialsMissing = errors.New("API key is required")

	// ErrEmptyResponse indicates the model returned no extractable text.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrInvalidProvider indicates an unknown provider name.
	ErrInvalidProvider = errors.New("invalid provider")
)

package transcript

import "errors"

// Sentinel errors for transcript input.
var (
	// ErrEmptyTranscript indicates the input produced no usable segment.
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrInvalidInput indicates structured input that is malformed or has the wrong shape.
	ErrInvalidInput = errors.New("invalid transcript input")

	// ErrInvalidMode indicates an unknown input mode name.
	ErrInvalidMode = errors.New("invalid input mode")
)

package video

import "errors"

// ErrInvalidURL indicates a URL from which no video id can be extracted.
var ErrInvalidURL = errors.New("not a recognized YouTube URL")

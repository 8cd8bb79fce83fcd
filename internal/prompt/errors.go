package prompt

import "errors"

// ErrInvalidConfig indicates prompt settings outside their accepted range.
var ErrInvalidConfig = errors.New("invalid prompt config")

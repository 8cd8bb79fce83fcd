package section

import "errors"

// ErrUnknown indicates an invalid section key was specified.
var ErrUnknown = errors.New("unknown section")

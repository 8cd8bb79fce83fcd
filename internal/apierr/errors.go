// Package apierr provides the error sentinels shared by model provider
// adapters. Provider-specific errors (go-openai APIError, Gemini status
// strings) are classified into these at the adapter boundary, so callers
// never depend on a provider SDK.
//
// Adapters wrap with fmt.Errorf("%s: %w", msg, sentinel).
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
// Nothing in this module retries: each sentinel is reported once.
package apierr

import "errors"

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing or free-tier limit).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")
)

// codes maps each sentinel to a stable machine-readable code.
var codes = []struct {
	err  error
	code string
}{
	{ErrRateLimit, "rate_limit"},
	{ErrQuotaExceeded, "quota_exceeded"},
	{ErrTimeout, "timeout"},
	{ErrAuthFailed, "auth_failed"},
	{ErrBadRequest, "bad_request"},
}

// Code returns a stable code for the first sentinel err wraps, or "" when it
// wraps none. Used in HTTP and MCP error payloads.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

package httpx

import "errors"

var (
	errTrailingData = errors.New("httpx: unexpected data after JSON body")

	// ErrLimiterUnavailable wraps backend failures of a shared Limiter.
	ErrLimiterUnavailable = errors.New("httpx: rate limiter backend unavailable")
)

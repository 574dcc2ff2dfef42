// Package clients provides the HTTP transport used to reach the metadata server.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// These are distinct from domain errors - they represent infrastructure failures
// that the access layer wraps into property server failures.
var (
	// ErrRequestFailed is returned when no HTTP response was received:
	// connection refused, DNS failure, timeout, or cancellation.
	// The transport error is wrapped for context.
	ErrRequestFailed = errors.New("request failed")
)

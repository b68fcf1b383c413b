package common

import "errors"

// Sentinel errors. Typed errors elsewhere in the client implement Is so
// callers can classify failures with errors.Is.
var (
	// ErrUnavailable means the request could not complete (network error,
	// timeout, connection refused).
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means the backend rejected the credentials or the
	// operation requires a logged-in session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation marks client-side input errors that never reach the network.
	ErrValidation = errors.New("validation error")

	// ErrNoAccessToken means an auth endpoint answered without an access token.
	ErrNoAccessToken = errors.New("no access token received")
)

package fflogs

import (
	"errors"
	"fmt"
)

// ErrTokenInvalid is returned when no valid API token is held. Calls that see
// it short-circuit before any HTTP request is issued.
var ErrTokenInvalid = errors.New("fflogs: api token invalid")

// ErrMissingCredentials is returned by the token exchange when the client id
// or secret is not configured.
var ErrMissingCredentials = errors.New("fflogs: client credentials not configured")

// AuthError represents a rejected OAuth2 token exchange: bad credentials or a
// malformed exchange response. Network failures during the exchange surface as
// TransportError instead, so callers can retry them.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fflogs: token exchange failed: %s (status: %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("fflogs: token exchange failed: %s", e.Message)
}

// UnknownWorldError indicates the world could not be resolved to a region.
type UnknownWorldError struct {
	World string
}

func (e *UnknownWorldError) Error() string {
	return fmt.Sprintf("fflogs: unknown world %q", e.World)
}

// TransportError wraps a network failure, timeout, or non-success HTTP status.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fflogs: transport error: %v", e.Err)
	}
	return fmt.Sprintf("fflogs: transport error: %s (status: %d)", e.Message, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnparsableResponseError indicates the service responded but the payload did
// not match the expected shape (field absent, null where an object was
// expected, or wrong type).
type UnparsableResponseError struct {
	Detail string
	Err    error
}

func (e *UnparsableResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fflogs: unparsable response: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("fflogs: unparsable response: %s", e.Detail)
}

func (e *UnparsableResponseError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error is worth retrying at a higher layer.
// Only transport failures qualify; auth and parse failures are not transient.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

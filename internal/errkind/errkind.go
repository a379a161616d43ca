// Package errkind defines the closed set of error kinds the engine
// distinguishes (spec §7) and the classification rules adapters use to map
// third-party HTTP responses onto them.
package errkind

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is a closed taxonomy of failure classes the dispatcher, executor and
// queue reason about.
type Kind string

const (
	NotConnected   Kind = "not_connected"
	ReauthRequired Kind = "reauth_required"
	Unauthorized   Kind = "unauthorized"
	Forbidden      Kind = "forbidden"
	NotFound       Kind = "not_found"
	InvalidRequest Kind = "invalid_request"
	RateLimited    Kind = "rate_limited"
	Transient      Kind = "transient"
	ProviderError  Kind = "provider_error"
	Internal       Kind = "internal"
)

// Error wraps an underlying error with its Kind and, for RateLimited, a
// provider-suggested retry-after duration.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Retryable reports whether the queue should retry a job that failed with
// this kind of error.
func (k Kind) Retryable() bool {
	switch k {
	case RateLimited, Transient, ProviderError:
		return true
	default:
		return false
	}
}

// Of extracts the Kind of err, defaulting to Internal when err does not
// carry a classified *Error.
func Of(err error) Kind {
	var classified *Error

	if errors.As(err, &classified) {
		return classified.Kind
	}

	return Internal
}

// ClassifyHTTPStatus maps an HTTP status code to a Kind: 401->Unauthorized,
// 403->Forbidden, 404->NotFound, 429->RateLimited, other 4xx->InvalidRequest,
// 5xx->Transient.
func ClassifyHTTPStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		return Forbidden
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusTooManyRequests:
		return RateLimited
	case status >= 500:
		return Transient
	case status >= 400:
		return InvalidRequest
	default:
		return ""
	}
}

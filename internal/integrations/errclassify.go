// Package integrations holds the per-app adapters (gmail, slack, github,
// webhook). Adapters are stateless: they take an access token as an
// argument and hold no credentials of their own.
package integrations

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/integrail/internal/errkind"
)

// Classify maps a completed HTTP round trip onto an errkind.Kind, per
// spec.md §4.2. A non-nil err (network failure, timeout, context
// cancellation) is always Transient. resp may be nil when err is set.
func Classify(resp *http.Response, err error) errkind.Kind {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return errkind.Transient
		}

		return errkind.Transient
	}

	if resp.StatusCode < 400 {
		return ""
	}

	kind := errkind.ClassifyHTTPStatus(resp.StatusCode)

	return kind
}

// RetryAfter parses a Retry-After header (seconds form) into a duration,
// returning 0 when absent or unparsable.
func RetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}

	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}

	return time.Duration(secs) * time.Second
}

// BuildErr wraps err (or a synthesized error describing resp's status) as
// a classified *errkind.Error, attaching Retry-After when kind is
// RateLimited. Adapters call this once Classify has returned a non-empty
// kind.
func BuildErr(kind errkind.Kind, resp *http.Response, err error) *errkind.Error {
	if err == nil {
		err = fmt.Errorf("integrations: request failed with status %d", resp.StatusCode)
	}

	ke := errkind.New(kind, err)
	if kind == errkind.RateLimited {
		ke.RetryAfter = RetryAfter(resp)
	}

	return ke
}

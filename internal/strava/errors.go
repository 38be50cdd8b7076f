package strava

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized means bad or expired credentials, the run cannot proceed.
	ErrUnauthorized = errors.New("strava: unauthorized")
	ErrNotFound     = errors.New("strava: not found")
	// ErrMalformedData marks responses that could not be decoded. Callers
	// skip the record and move on.
	ErrMalformedData = errors.New("strava: malformed response data")
)

// RateLimitError is recoverable, the client waits RetryAfter and reissues
// the request.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("strava: rate limited, retry after %s", e.RetryAfter)
}

// transientError marks server side and transport failures worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConfiguration signals invalid budget/retry/client parameters.
	// It is fatal at startup; no run begins.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrReportNotFound signals a missing snapshot.
	ErrReportNotFound = errors.New("report not found")
)

// FailureClass classifies a failed platform request for retry decisions.
type FailureClass string

const (
	// FailureTransient covers connection/timeout errors and 5xx responses.
	FailureTransient FailureClass = "transient"
	// FailureRateLimited covers 429 responses.
	FailureRateLimited FailureClass = "rate_limited"
	// FailurePermanent covers other 4xx responses and malformed payloads.
	FailurePermanent FailureClass = "permanent"
)

// RequestError describes one failed platform request. RetryAfter carries
// the server-supplied delay hint on rate-limited responses, zero otherwise.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Class      FailureClass
	RetryAfter time.Duration
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request %s: status %d (%s)", e.Endpoint, e.StatusCode, e.Class)
	}
	return fmt.Sprintf("request %s: %v (%s)", e.Endpoint, e.Err, e.Class)
}

func (e *RequestError) Unwrap() error { return e.Err }

// AttemptsError is the terminal error after retry exhaustion. It carries
// the last failure's classification and the attempt count.
type AttemptsError struct {
	Attempts int
	Class    FailureClass
	Err      error
}

func (e *AttemptsError) Error() string {
	return fmt.Sprintf("gave up after %d attempts (%s): %v", e.Attempts, e.Class, e.Err)
}

func (e *AttemptsError) Unwrap() error { return e.Err }

// Classify extracts the failure class from an error chain. Errors that
// carry no classification are treated as transient network failures.
func Classify(err error) FailureClass {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Class
	}
	var attErr *AttemptsError
	if errors.As(err, &attErr) {
		return attErr.Class
	}
	return FailureTransient
}

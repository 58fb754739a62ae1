package catalog

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrInvalidPage is returned when a page number below 1 is requested.
	ErrInvalidPage = errors.New("page number must be >= 1")

	// ErrRateLimited is returned when the rate limit window is exhausted.
	ErrRateLimited = errors.New("request blocked: rate limit exhausted")
)

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents requests refused because the rate limit window is exhausted.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassMalformed represents a 2xx response whose body could not be used.
	ErrorClassMalformed ErrorClass = "malformed"
)

// FetchError is returned by FetchPage for every failed page read.
type FetchError struct {
	Page       int
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch page %d: %s error (status %d): %s: %v",
			e.Page, e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch page %d: %s error (status %d): %s",
		e.Page, e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response body missing the data or
// pagination keys, or one that is not valid JSON. It always reaches callers
// wrapped in a FetchError of class ErrorClassMalformed.
type MalformedResponseError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status code to an ErrorClass.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == 429:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

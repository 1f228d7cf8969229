package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error categories. Every error returned by Client.Do matches exactly one of
// ErrConfiguration, ErrNetwork, ErrRateLimited, ErrAuthentication,
// ErrNotFound, ErrValidation, ErrServer, ErrUnexpectedStatus or
// ErrContextCancelled via errors.Is.
var (
	// ErrConfiguration marks a malformed request or invalid client configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrNetwork marks a transport-level failure (no HTTP response obtained).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited marks a 429 that was not retried or whose retries ran out.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthentication marks a rejected credential (401/403).
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound marks a 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation marks any other 4xx.
	ErrValidation = errors.New("request rejected")

	// ErrServer marks a 5xx.
	ErrServer = errors.New("server error")

	// ErrUnexpectedStatus marks a non-2xx status outside the 4xx/5xx ranges.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrDecode is returned by DoJSON when a 2xx body is not valid JSON for the target.
	ErrDecode = errors.New("decode response")

	// ErrRetryExhausted additionally matches an APIError whose retryable
	// failure ran out of attempts.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context ends a wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// maxBodySnippet bounds the response body kept on an APIError.
const maxBodySnippet = 512

// ErrorClass represents a classification of call outcomes.
type ErrorClass string

const (
	// ErrorClassNone is a successful (2xx) outcome.
	ErrorClassNone ErrorClass = ""

	// ErrorClassNetwork represents transport failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassAuthentication represents 401 and 403.
	ErrorClassAuthentication ErrorClass = "authentication"

	// ErrorClassNotFound represents 404.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassValidation represents the remaining 4xx statuses.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassUnexpected represents 1xx/3xx statuses that reached the client.
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// Retryable reports whether the class is transient.
func (c ErrorClass) Retryable() bool {
	switch c {
	case ErrorClassNetwork, ErrorClassServer, ErrorClassRateLimit:
		return true
	default:
		return false
	}
}

func (c ErrorClass) sentinel() error {
	switch c {
	case ErrorClassNetwork:
		return ErrNetwork
	case ErrorClassRateLimit:
		return ErrRateLimited
	case ErrorClassAuthentication:
		return ErrAuthentication
	case ErrorClassNotFound:
		return ErrNotFound
	case ErrorClassValidation:
		return ErrValidation
	case ErrorClassServer:
		return ErrServer
	case ErrorClassUnexpected:
		return ErrUnexpectedStatus
	default:
		return nil
	}
}

// ClassifyStatus maps an HTTP status code to an ErrorClass.
func ClassifyStatus(status int) ErrorClass {
	switch {
	case status >= 200 && status < 300:
		return ErrorClassNone
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorClassAuthentication
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status >= 400 && status < 500:
		return ErrorClassValidation
	case status >= 500 && status < 600:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}

// APIError is the terminal failure of one logical call. It carries enough
// context to diagnose the failure without verbose tracing.
type APIError struct {
	Class      ErrorClass
	Method     string
	Endpoint   string
	StatusCode int

	// Attempts is the number of physical requests made for the call.
	Attempts int

	// Exhausted is true when a retryable failure ran out of attempts.
	Exhausted bool

	// Message and ECode come from a ClickUp error body ({"err": ..., "ECODE": ...})
	// or fall back to the HTTP status text.
	Message string
	ECode   string

	// Body is the first bytes of the last response body.
	Body string

	// RetryAfter is the last service-supplied wait hint, if any.
	RetryAfter time.Duration

	// Err is the underlying transport error for network failures.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "clickup %s error", e.Class)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	fmt.Fprintf(&b, ": %s %s", e.Method, e.Endpoint)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.ECode != "" {
		fmt.Fprintf(&b, " [%s]", e.ECode)
	}
	fmt.Fprintf(&b, " after %d attempt(s)", e.Attempts)
	if e.RetryAfter > 0 {
		fmt.Fprintf(&b, ", retry after %s", e.RetryAfter)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the category sentinel of the error's class, and
// ErrRetryExhausted when retries ran out.
func (e *APIError) Is(target error) bool {
	if target == ErrRetryExhausted {
		return e.Exhausted
	}
	s := e.Class.sentinel()
	return s != nil && target == s
}

// errorBody is the shape of a ClickUp error response.
type errorBody struct {
	Err   string `json:"err"`
	ECode string `json:"ECODE"`
}

// parseErrorBody fills Message/ECode/Body from a raw response body.
func (e *APIError) parseErrorBody(status int, body []byte) {
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		e.Message = eb.Err
		e.ECode = eb.ECode
	}
	if e.Message == "" && status != 0 {
		e.Message = http.StatusText(status)
	}

	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	e.Body = string(body)
}

// configError wraps err as a configuration error.
func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// cancelled wraps a context error so it matches both ErrContextCancelled and
// the context's own error.
func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrContextCancelled, err)
}

package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of a client error.
type ErrorType int

// Error type constants categorize errors so callers can decide whether to retry.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeConnectivity indicates a DNS, TCP or TLS failure.
	ErrorTypeConnectivity
	// ErrorTypeTimeout indicates the request or dial exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeProtocol indicates a malformed or unexpected response or frame.
	ErrorTypeProtocol
	// ErrorTypeAuthentication indicates missing credentials or a rejected signature.
	ErrorTypeAuthentication
	// ErrorTypeAPI indicates a valid response carrying a non-zero ret_code.
	ErrorTypeAPI
	// ErrorTypeRateLimit indicates the exchange rejected the call for exceeding its limits.
	ErrorTypeRateLimit
	// ErrorTypeUsage indicates invalid or missing parameters caught before sending.
	ErrorTypeUsage
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	if t < ErrorTypeUnknown || t > ErrorTypeUsage {
		return "UNKNOWN"
	}
	return [...]string{
		"UNKNOWN",
		"CONNECTIVITY",
		"TIMEOUT",
		"PROTOCOL",
		"AUTHENTICATION",
		"API",
		"RATE_LIMIT",
		"USAGE",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNotConnected is returned when the websocket is not connected.
	ErrNotConnected = errors.New("websocket not connected")
	// ErrCircuitBreakerOpen is returned while the circuit breaker rejects calls.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrNoCredentials is returned when a signed call is made without API credentials.
	ErrNoCredentials = errors.New("authenticated endpoints require keys")
	// ErrUnsupportedOperation is returned when the contract type has no such endpoint.
	ErrUnsupportedOperation = errors.New("operation not supported for contract type")
	// ErrMissingParameter is returned when a required endpoint parameter is absent.
	ErrMissingParameter = errors.New("missing required parameter")
)

// Error is the typed error surfaced by every REST and websocket call.
type Error struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code, zero when no response was received.
	StatusCode int `json:"status_code,omitempty"`
	// Code is the exchange ret_code, zero unless the exchange reported an error.
	Code int `json:"code,omitempty"`
	// Message is the human-readable description, ret_msg for API errors.
	Message string `json:"message"`
	// Request describes the call as "METHOD path: params".
	Request string `json:"request,omitempty"`
	// Exchange identifies the venue.
	Exchange string `json:"exchange"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.err != nil && msg == "" {
		msg = e.err.Error()
	}
	if e.Code != 0 {
		return fmt.Sprintf("[%s] %s (%d/%d): %s",
			e.Exchange, e.Type, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("[%s] %s (%d): %s",
		e.Exchange, e.Type, e.StatusCode, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.err
}

// WithRequest records the request description and returns the error for chaining.
func (e *Error) WithRequest(request string) *Error {
	e.Request = request
	return e
}

// WithStatus records the HTTP status code and returns the error for chaining.
func (e *Error) WithStatus(status int) *Error {
	e.StatusCode = status
	return e
}

// Wrap attaches a cause and returns the error for chaining.
func (e *Error) Wrap(err error) *Error {
	e.err = err
	return e
}

// NewError creates a new Error of the given type.
func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:      errorType,
		Message:   message,
		Exchange:  Exchange,
		Timestamp: time.Now(),
	}
}

// NewAPIError creates an Error for a non-zero ret_code. The type is derived from the code.
func NewAPIError(code int, message string) *Error {
	e := NewError(TypeForCode(code), message)
	e.Code = code
	return e
}

// NewUsageError wraps a usage sentinel with detail.
func NewUsageError(sentinel error, detail string) *Error {
	return NewError(ErrorTypeUsage, fmt.Sprintf("%s: %s", sentinel, detail)).Wrap(sentinel)
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return ErrorTypeUnknown, false
}

// IsConnectivityError returns true for transport failures and timeouts.
// These are the errors a caller may reasonably retry.
func IsConnectivityError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrorTypeConnectivity || t == ErrorTypeTimeout)
}

// IsTimeoutError returns true if the error is a timeout.
func IsTimeoutError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrorTypeTimeout
}

// IsProtocolError returns true for malformed responses or frames.
func IsProtocolError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrorTypeProtocol
}

// IsAuthenticationError returns true for missing credentials or rejected signatures.
func IsAuthenticationError(err error) bool {
	if errors.Is(err, ErrNoCredentials) {
		return true
	}
	t, ok := errorType(err)
	return ok && t == ErrorTypeAuthentication
}

// IsRateLimitError returns true if the exchange rejected the call for exceeding its limits.
func IsRateLimitError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrorTypeRateLimit
}

// IsUsageError returns true if the caller passed invalid or missing parameters.
func IsUsageError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrorTypeUsage
}

// IsAPIError returns true if the exchange answered with a non-zero ret_code.
func IsAPIError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code != 0
}

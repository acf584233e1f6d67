package mistral

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind names used by Kind and printed by the CLI.
const (
	KindConfiguration = "ConfigurationError"
	KindTransport     = "TransportError"
	KindProvider      = "ProviderError"
	KindDecode        = "DecodeError"
	KindUnknown       = "Error"
)

// ErrResponseTooLarge is wrapped by the DecodeError returned when a success
// body exceeds the size the client is willing to buffer.
var ErrResponseTooLarge = errors.New("response body too large")

// ConfigurationError reports a missing credential or invalid arguments.
// It is always returned before any network call is attempted.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("mistral: %s", e.Reason)
	}
	return fmt.Sprintf("mistral: %s: %v", e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError reports a network-level failure, including timeouts and
// context cancellation.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mistral: request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Canceled reports whether the caller cancelled the request.
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// ProviderError captures a non-2xx response from the provider.
type ProviderError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *ProviderError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("mistral: unexpected status %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("mistral: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// HTTPStatusCode returns the status code returned by the provider.
func (e *ProviderError) HTTPStatusCode() int {
	return e.StatusCode
}

// DecodeError reports a success response whose body is not a JSON object.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mistral: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind returns the taxonomy name of the first classified error in err's
// chain, or KindUnknown.
func Kind(err error) string {
	var (
		cfgErr       *ConfigurationError
		transportErr *TransportError
		providerErr  *ProviderError
		decodeErr    *DecodeError
	)
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &providerErr):
		return KindProvider
	case errors.As(err, &decodeErr):
		return KindDecode
	default:
		return KindUnknown
	}
}

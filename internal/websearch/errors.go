package websearch

import (
	"errors"
	"fmt"
)

// TransportError reports a failure to reach a search backend: DNS, dial,
// TLS, or a timeout enforced by the adapter's HTTP client.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseFormatError reports a response the adapter could not interpret:
// a non-200 status, or a body that is neither valid JSON nor usable HTML.
type ResponseFormatError struct {
	Provider string
	Status   int
	Detail   string
}

func (e *ResponseFormatError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected response (status %d): %s", e.Provider, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: unexpected response: %s", e.Provider, e.Detail)
}

// IsTransportError reports whether err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsResponseFormatError reports whether err is or wraps a ResponseFormatError.
func IsResponseFormatError(err error) bool {
	var fe *ResponseFormatError
	return errors.As(err, &fe)
}

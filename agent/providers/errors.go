package providers

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	ErrProvider        = errors.New("provider call failed")
	ErrUnsupported     = errors.New("operation not supported by provider")
	ErrUnknownProvider = errors.New("unknown provider")
)

// Error is a failed provider call. It matches ErrProvider with errors.Is and
// unwraps to the SDK error, so callers can still inspect SDK-specific types.
// StatusCode is zero when the failure happened before an HTTP response.
type Error struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", ErrProvider, e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrProvider, e.Provider, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrProvider, e.Err}
}

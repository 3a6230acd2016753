package audio

import (
	"errors"
	"fmt"
)

// Sentinel errors for audio acquisition.
var (
	ErrAcquisition           = errors.New("audio acquisition failed")
	ErrUnrecognizedReference = errors.New("unrecognized audio reference")
	ErrTooLarge              = errors.New("audio exceeds size limit")
)

// StatusError reports a remote fetch that completed with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

package loader

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes load failures.
type ErrorCode string

const (
	// ErrCodeInvalidParams means the level/week/set parameters were missing
	// or malformed; no fetch was attempted.
	ErrCodeInvalidParams ErrorCode = "INVALID_PARAMETERS"

	// ErrCodeHTTP means a request failed in transport or returned a
	// non-success status.
	ErrCodeHTTP ErrorCode = "HTTP_ERROR"

	// ErrCodeDecode means a response body could not be decoded into the
	// expected shape.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
)

// LoadError is the single error type surfaced by the loader. All network and
// parsing failures are converted to it at the loader boundary; callers treat
// any LoadError as terminal for that load attempt (explicit retry only).
type LoadError struct {
	Code    ErrorCode
	SetID   int64 // set whose fetch failed, 0 when not set-specific
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.SetID != 0 {
		return fmt.Sprintf("%s: set %d: %s", e.Code, e.SetID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsInvalidParams reports whether err is a parameter-validation failure.
// Uses errors.As to handle wrapped errors.
func IsInvalidParams(err error) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == ErrCodeInvalidParams
	}
	return false
}

func newError(code ErrorCode, setID int64, msg string, err error) *LoadError {
	return &LoadError{Code: code, SetID: setID, Message: msg, Err: err}
}

package err

import (
	"errors"
	"fmt"
)

var (
	ErrorNotFound           = errors.New("not found")                  // Static error for missing records.
	ErrorUnsupportedDriver  = errors.New("unsupported database driver") // Static error for unknown database drivers.
	ErrorUnexpectedType     = errors.New("unexpected type")             // Static error for unexpected type.
	ErrorUnexpectedStatus   = errors.New("unexpected status code")      // Static error for non-200 responses from external services.
	ErrorServiceUnavailable = errors.New("service is not configured")   // Static error for calls to disabled external services.
)

// WrapUnexpectedType wraps the error for unexpected type.
func WrapUnexpectedType(expected string, actual interface{}) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrorUnexpectedType, expected, actual)
}

// WrapUnexpectedStatus wraps the error for an unexpected HTTP status code.
func WrapUnexpectedStatus(code int) error {
	return fmt.Errorf("%w: %d", ErrorUnexpectedStatus, code)
}

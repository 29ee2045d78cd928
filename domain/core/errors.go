package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Dataset errors
	ErrDataUnavailable = errors.New("dataset unavailable")
	ErrUnknownField    = errors.New("unknown field")

	// Selection store contract errors
	ErrNotFound       = errors.New("selection not found")
	ErrEmptySelection = errors.New("empty selection")
	ErrInvalidName    = errors.New("invalid selection name")
	ErrNameCollision  = errors.New("selection name collision")
)

// Error constructors with context
func NewUnknownFieldError(field string) error {
	return fmt.Errorf("%w: %q is not a column of the loaded dataset", ErrUnknownField, field)
}

func NewDataUnavailableError(source string, err error) error {
	return fmt.Errorf("%w: fetch from %s failed: %v", ErrDataUnavailable, source, err)
}

func NewNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func NewNameCollisionError(name string) error {
	return fmt.Errorf("%w: %q already exists", ErrNameCollision, name)
}

// Error checking helpers
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

// IsContractViolation reports whether err is a Selection Store or column-mapping
// contract breach, i.e. a caller error rather than a transient condition.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrNameCollision) ||
		errors.Is(err, ErrUnknownField)
}

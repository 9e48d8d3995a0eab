package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateModule     = errors.New("module already exists in semester")
	ErrModuleAlreadyPassed = errors.New("module already passed")
	ErrAttemptsExhausted   = errors.New("exam attempts exhausted")
	ErrMalformedData       = errors.New("malformed data")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInvalidConfig       = errors.New("invalid config")
)

// Range violations are validation errors.
var (
	ErrInvalidGrade    = fmt.Errorf("grade out of range [1.0, 5.0]: %w", ErrValidation)
	ErrInvalidECTS     = fmt.Errorf("ects must be 5 or 10: %w", ErrValidation)
	ErrInvalidDuration = fmt.Errorf("learning hours must not be negative: %w", ErrValidation)
	ErrInvalidSemester = fmt.Errorf("semester number must be positive: %w", ErrValidation)
)

// ErrUnknownStatus is a decode-time structural violation.
var ErrUnknownStatus = fmt.Errorf("unknown module status: %w", ErrMalformedData)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConflict      ErrorKind = "conflict"
	KindState         ErrorKind = "state"
	KindNotFound      ErrorKind = "not_found"
	KindMalformed     ErrorKind = "malformed"
	KindStorage       ErrorKind = "storage"
	KindInvalidConfig ErrorKind = "invalid_config"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: file path, storage key or field path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

func opErr(op string, kind ErrorKind, path string, err error) error {
	return &OpError{Op: op, Kind: kind, Path: path, Err: err}
}

package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError indicates that a referenced entity does not resolve.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{msg}
}

func (err NotFoundError) Error() string { return err.msg }

// DuplicateError indicates a unique constraint conflict (classCode,
// rollNumber+class, class+date). Distinguished from generic failures so
// callers can offer "already exists" messaging.
type DuplicateError struct {
	msg string
}

func NewDuplicateError(msg string) error {
	return &DuplicateError{msg}
}

func (err DuplicateError) Error() string { return err.msg }

// LockedError indicates a refused mutation of a finalized attendance sheet.
// No partial write happens when it is returned.
type LockedError struct {
	msg string
}

func NewLockedError(msg string) error {
	return &LockedError{msg}
}

func (err LockedError) Error() string { return err.msg }

// NoDataError indicates a report was requested over a range with no
// attendance taken at all.
type NoDataError struct {
	msg string
}

func NewNoDataError(msg string) error {
	return &NoDataError{msg}
}

func (err NoDataError) Error() string { return err.msg }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

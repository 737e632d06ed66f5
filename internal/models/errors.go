package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument   = errors.New("no document uploaded")
	ErrEmptyContent = errors.New("document has no extractable text")
)

// GenerationError is returned when a remote generation or embedding call fails.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError is returned when a session snapshot cannot be written or read.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError reports a missing precondition detected before any remote call.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError or ErrNoDocument.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v) || errors.Is(err, ErrNoDocument) || errors.Is(err, ErrEmptyContent)
}

func IsGeneration(err error) bool {
	var g *GenerationError
	return errors.As(err, &g)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

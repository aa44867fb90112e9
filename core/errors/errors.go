// Package errors provides the error types shared by the practice programs.
//
// Each typed error carries the context a user needs to act on it (which
// file, which field, which line) and unwraps either to its cause or to one
// of the package sentinels, so callers can test with Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported")
)

// orSentinel returns err when set and sentinel otherwise.
func orSentinel(err, sentinel error) error {
	if err != nil {
		return err
	}
	return sentinel
}

// NotFoundError reports a missing scripture source, journal, goal file or
// passage.
type NotFoundError struct {
	Resource string // e.g. "scripture source", "journal", "passage"
	ID       string // usually a path or reference
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return orSentinel(e.Err, ErrNotFound) }

// ValidationError reports a configuration value, path or user input that
// cannot be used.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return orSentinel(e.Err, ErrInvalidInput) }

// IOError reports a failed file operation.
type IOError struct {
	Operation string // "read", "write", "open", ...
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	target := e.Operation
	if e.Path != "" {
		target += " " + e.Path
	}
	return fmt.Sprintf("failed to %s: %v", target, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed content in a source, journal or goal file.
type ParseError struct {
	Format  string // "reference", "goal", "OSIS", ...
	Path    string
	Line    int // 1-based, 0 when unknown
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var where string
	switch {
	case e.Path != "" && e.Line > 0:
		where = fmt.Sprintf(" at %s:%d", e.Path, e.Line)
	case e.Path != "":
		where = " at " + e.Path
	case e.Line > 0:
		where = fmt.Sprintf(" on line %d", e.Line)
	}
	return fmt.Sprintf("failed to parse %s%s: %s", e.Format, where, e.Message)
}

func (e *ParseError) Unwrap() error { return orSentinel(e.Err, ErrInvalidInput) }

// UnsupportedError reports a source format or feature nothing handles.
type UnsupportedError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return "unsupported " + e.Feature
	}
	return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return orSentinel(e.Err, ErrUnsupported) }

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is, As and New mirror the standard library so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }
func As(err error, target any) bool { return errors.As(err, target) }
func New(text string) error { return errors.New(text) }

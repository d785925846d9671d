// Package errors provides the coded error type shared by the planner packages.
//
// Every planning failure is reported as an *Error carrying a Code, so callers
// can tell an infeasible workspace (NO_PATH_FOUND) from a caller mistake
// (INVALID_QUERY) without string matching:
//
//	path, err := bfs.Search(g)
//	if errors.Is(err, errors.ErrCodeNoPath) {
//	    // the roadmap does not connect root and goal
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// ErrCodeNoRoadmapCapacity means the sampler could not produce the
	// requested number of free configurations within the attempt budget.
	ErrCodeNoRoadmapCapacity Code = "NO_ROADMAP_CAPACITY"

	// ErrCodeNoPath means a search exhausted its space (fringe empty or node
	// cap reached) without reaching the goal.
	ErrCodeNoPath Code = "NO_PATH_FOUND"

	// ErrCodeInvalidQuery means the root or goal is not collision-free or is
	// not part of the graph being searched.
	ErrCodeInvalidQuery Code = "INVALID_QUERY"

	// ErrCodeMalformedGeometry is raised by the problem loader.
	ErrCodeMalformedGeometry Code = "MALFORMED_GEOMETRY"

	// ErrCodeInvalidConfig is raised by configuration validation.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// ErrCodeMalformedRoadmap is raised when a saved roadmap cannot be read.
	ErrCodeMalformedRoadmap Code = "MALFORMED_ROADMAP"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

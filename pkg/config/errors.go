package config

import (
	"fmt"
	"strings"
)

// LoadError represents a failure to open or read a configuration file.
// It is never treated as a format problem: the dispatcher does not fall
// back to the flat loader on a LoadError.
type LoadError struct {
	// FilePath is the path to the file that failed to load
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying error that caused this load error
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load configuration file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load configuration file %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseError represents malformed hierarchical content: the file could be
// read but is not a well-formed document with a top-level mapping.
type ParseError struct {
	// FilePath is the path to the file that failed to parse
	FilePath string

	// Line is the line number where the error occurred (1-indexed, 0 if unknown)
	Line int

	// Message describes the parsing error
	Message string

	// Cause is the underlying parser error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %q at line %d: %s", e.FilePath, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// AccessError represents a missing section, key or value, a value that
// could not be coerced to the required type, or a dangling cross-reference.
type AccessError struct {
	// FilePath is the file being read, empty for already merged trees
	FilePath string

	// Section is the section or mapping path holding the key
	Section string

	// Key is the missing or malformed key
	Key string

	// Message describes the error
	Message string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	parts := []string{"configuration access error"}

	if e.FilePath != "" {
		parts = append(parts, fmt.Sprintf("in %q", e.FilePath))
	}

	switch {
	case e.Section != "" && e.Key != "":
		parts = append(parts, fmt.Sprintf("at %s.%s", e.Section, e.Key))
	case e.Section != "":
		parts = append(parts, fmt.Sprintf("at %s", e.Section))
	case e.Key != "":
		parts = append(parts, fmt.Sprintf("at %s", e.Key))
	}

	msg := strings.Join(parts, " ") + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *AccessError) Unwrap() error {
	return e.Cause
}

// MissingKey returns an AccessError for a required key that is absent.
func MissingKey(section, key string) *AccessError {
	return &AccessError{
		Section: section,
		Key:     key,
		Message: "required key is missing",
	}
}

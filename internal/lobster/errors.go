package lobster

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is returned when a message file cannot be opened.
var ErrFileNotFound = errors.New("file not found")

// FileNotFoundError names the input path that could not be opened.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrFileNotFound and the underlying os error.
func (e *FileNotFoundError) Unwrap() []error {
	return []error{ErrFileNotFound, e.Err}
}

// ParseError reports a malformed field in a message file.
type ParseError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: column %s: invalid value %q: %v", e.Source, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

package mesh

import (
	"errors"
	"fmt"
)

// Mesh I/O errors. Every error returned by the readers, writers and the
// sequence codec wraps exactly one of these.
var (
	ErrIO     = errors.New("mesh I/O error")
	ErrFormat = errors.New("malformed mesh data")
	ErrBounds = errors.New("index out of bounds")
)

// ParseError attaches the file and record position to a failure.
type ParseError struct {
	Path string // empty when reading from an anonymous stream
	Line int    // 1-based physical line, 0 when not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<stream>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WithPath sets the path on err if it is a *ParseError without one,
// or wraps it in a new ParseError otherwise.
func WithPath(err error, path string) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		if pe.Path == "" {
			pe.Path = path
		}
		return err
	}
	return &ParseError{Path: path, Err: err}
}

// Package formats provides readers and writers for text polygon-mesh
// interchange formats.
//
// Supported formats:
//   - OFF: read and write (off.go)
//   - OBJ: read (obj.go), positions, normals, texture coordinates and faces
package formats

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Faultbox/meshio/pkg/mesh"
)

// formatErrorf reports malformed input at the scanner's current line.
func formatErrorf(s *LineScanner, format string, args ...any) error {
	return &mesh.ParseError{Line: s.Line(), Err: fmt.Errorf("%w: "+format, append([]any{mesh.ErrFormat}, args...)...)}
}

// boundsErrorf reports an out-of-range index at the scanner's current line.
func boundsErrorf(s *LineScanner, format string, args ...any) error {
	return &mesh.ParseError{Line: s.Line(), Err: fmt.Errorf("%w: "+format, append([]any{mesh.ErrBounds}, args...)...)}
}

// openFile opens path for reading, classifying failures as mesh.ErrIO.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &mesh.ParseError{Path: path, Err: fmt.Errorf("%w: %v", mesh.ErrIO, err)}
	}
	return f, nil
}

// parseFloats parses the first len(dst) fields into dst.
func parseFloats(fields []string, dst []float64) error {
	if len(fields) < len(dst) {
		return fmt.Errorf("have %d components, expected %d", len(fields), len(dst))
	}
	for i := range dst {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return fmt.Errorf("component %d: invalid number %q", i, fields[i])
		}
		dst[i] = v
	}
	return nil
}

// parseCount parses a non-negative element count.
func parseCount(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", field)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/meshio/pkg/mesh"
)

// Mark is a position in the input captured by LineScanner.Mark.
type Mark struct {
	offset int64
	line   int
}

// LineScanner yields the meaningful lines of a text mesh file: lines that
// are non-empty once the trailing CR/LF is removed and do not start with '#'.
// It can seek back to an earlier mark so a file can be scanned in several
// passes without reopening it.
type LineScanner struct {
	rs     io.ReadSeeker
	br     *bufio.Reader
	start  Mark
	offset int64 // offset of the next unread byte
	line   int   // physical line number of the last line read
}

// NewLineScanner creates a scanner starting at the current offset of rs.
func NewLineScanner(rs io.ReadSeeker) (*LineScanner, error) {
	off, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: locating start of input: %v", mesh.ErrIO, err)
	}
	return &LineScanner{
		rs:     rs,
		br:     bufio.NewReader(rs),
		start:  Mark{offset: off},
		offset: off,
	}, nil
}

// Next returns the next meaningful line without its line terminator.
// It returns io.EOF once the input is exhausted.
func (s *LineScanner) Next() (string, error) {
	for {
		raw, err := s.br.ReadString('\n')
		if len(raw) > 0 {
			s.offset += int64(len(raw))
			s.line++
			line := strings.TrimRight(raw, "\r\n")
			if line != "" && line[0] != '#' {
				return line, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", &mesh.ParseError{Line: s.line + 1, Err: fmt.Errorf("%w: %v", mesh.ErrIO, err)}
		}
	}
}

// Line returns the physical line number of the line last returned by Next.
func (s *LineScanner) Line() int {
	return s.line
}

// Mark captures the current position. Lines returned after a Reset to this
// mark are the same lines Next would return now.
func (s *LineScanner) Mark() Mark {
	return Mark{offset: s.offset, line: s.line}
}

// Reset moves the scanner back (or forward) to m.
func (s *LineScanner) Reset(m Mark) error {
	if _, err := s.rs.Seek(m.offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to offset %d: %v", mesh.ErrIO, m.offset, err)
	}
	s.br.Reset(s.rs)
	s.offset = m.offset
	s.line = m.line
	return nil
}

// Rewind resets the scanner to where it started.
func (s *LineScanner) Rewind() error {
	return s.Reset(s.start)
}

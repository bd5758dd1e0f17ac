package formats

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func collectLines(t *testing.T, s *LineScanner) []string {
	t.Helper()
	var lines []string
	for {
		line, err := s.Next()
		if errors.Is(err, io.EOF) {
			return lines
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestLineScanner_SkipsBlankAndComments(t *testing.T) {
	input := "# header comment\r\n\r\nOFF\r\n\n#another\n3 1 0\nlast line without newline"

	s, err := NewLineScanner(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewLineScanner failed: %v", err)
	}

	got := collectLines(t, s)
	want := []string{"OFF", "3 1 0", "last line without newline"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineScanner_LineNumbers(t *testing.T) {
	s, _ := NewLineScanner(strings.NewReader("# c\n\na\n#\nb\n"))

	if _, err := s.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if s.Line() != 3 {
		t.Errorf("expected line 3, got %d", s.Line())
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if s.Line() != 5 {
		t.Errorf("expected line 5, got %d", s.Line())
	}
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestLineScanner_MarkAndReset(t *testing.T) {
	s, _ := NewLineScanner(strings.NewReader("one\ntwo\n\nthree\nfour\n"))

	s.Next() // one
	mark := s.Mark()
	first := collectLines(t, s)

	if err := s.Reset(mark); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	line, err := s.Next()
	if err != nil {
		t.Fatalf("Next after Reset failed: %v", err)
	}
	if line != "two" {
		t.Errorf("expected 'two' after reset, got %q", line)
	}
	if s.Line() != 2 {
		t.Errorf("expected line 2 after reset, got %d", s.Line())
	}

	rest := collectLines(t, s)
	if len(rest)+1 != len(first) {
		t.Errorf("expected %d lines after reset, got %d", len(first), len(rest)+1)
	}
}

func TestLineScanner_Rewind(t *testing.T) {
	r := strings.NewReader("skip\na\nb\n")
	r.Seek(5, io.SeekStart) // start after "skip\n"

	s, err := NewLineScanner(r)
	if err != nil {
		t.Fatalf("NewLineScanner failed: %v", err)
	}
	first := collectLines(t, s)
	if err := s.Rewind(); err != nil {
		t.Fatalf("Rewind failed: %v", err)
	}
	second := collectLines(t, s)

	if strings.Join(first, ",") != "a,b" {
		t.Errorf("unexpected first pass %q", first)
	}
	if strings.Join(second, ",") != strings.Join(first, ",") {
		t.Errorf("rewind produced %q, want %q", second, first)
	}
}

// Package seam decodes and encodes packed seam vertex sequences.
//
// A packed buffer is a flat array of uint32 words:
//
//	[count, len0, loop0, idx0_0 .. idx0_len0-1, len1, loop1, ...]
//
// where loopN is 1 if the last vertex of sequence N connects back to the
// first and 0 otherwise.
package seam

import (
	"fmt"

	"github.com/Faultbox/meshio/pkg/mesh"
)

// headerWords is the number of words preceding the indices of a sequence.
const headerWords = 2

// Sequence is an ordered chain of vertex indices along a seam or contour.
type Sequence struct {
	Indices []uint32
	IsLoop  bool
}

// Decode unpacks buf into its sequences, preserving their order and the
// order of the indices within each sequence.
func Decode(buf []uint32) ([]Sequence, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty sequence buffer", mesh.ErrFormat)
	}

	cursor := 1
	// Every sequence needs at least its two header words. Compare before
	// converting so a large word cannot turn negative on 32-bit int.
	if uint64(buf[0]) > uint64((len(buf)-cursor)/headerWords) {
		return nil, fmt.Errorf("%w: buffer of %d words cannot hold %d sequences", mesh.ErrFormat, len(buf), buf[0])
	}
	count := int(buf[0])

	seqs := make([]Sequence, count)
	for i := range seqs {
		if len(buf)-cursor < headerWords {
			return nil, fmt.Errorf("%w: sequence %d header at word %d runs past end of %d-word buffer", mesh.ErrFormat, i, cursor, len(buf))
		}
		size := buf[cursor]
		flag := buf[cursor+1]
		cursor += headerWords

		if flag > 1 {
			return nil, fmt.Errorf("%w: sequence %d has loop flag %d at word %d", mesh.ErrFormat, i, flag, cursor-1)
		}
		if uint64(size) > uint64(len(buf)-cursor) {
			return nil, fmt.Errorf("%w: sequence %d declares %d indices but only %d words remain", mesh.ErrFormat, i, size, len(buf)-cursor)
		}
		n := int(size)

		indices := make([]uint32, n)
		copy(indices, buf[cursor:cursor+n])
		cursor += n

		seqs[i] = Sequence{Indices: indices, IsLoop: flag == 1}
	}

	if cursor != len(buf) {
		return nil, fmt.Errorf("%w: %d trailing words after %d sequences", mesh.ErrFormat, len(buf)-cursor, count)
	}
	return seqs, nil
}

// Encode packs seqs into the layout read by Decode.
func Encode(seqs []Sequence) []uint32 {
	size := 1
	for _, s := range seqs {
		size += headerWords + len(s.Indices)
	}

	buf := make([]uint32, 0, size)
	buf = append(buf, uint32(len(seqs)))
	for _, s := range seqs {
		var flag uint32
		if s.IsLoop {
			flag = 1
		}
		buf = append(buf, uint32(len(s.Indices)), flag)
		buf = append(buf, s.Indices...)
	}
	return buf
}

// CheckBounds verifies that every index refers to one of numVertices
// vertices.
func CheckBounds(seqs []Sequence, numVertices int) error {
	for i, s := range seqs {
		for j, idx := range s.Indices {
			if int(idx) >= numVertices {
				return fmt.Errorf("%w: sequence %d position %d references vertex %d, have %d", mesh.ErrBounds, i, j, idx, numVertices)
			}
		}
	}
	return nil
}

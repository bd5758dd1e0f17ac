package seam

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/meshio/pkg/mesh"
)

// ToMesh stores seqs as a vertex-less mesh with one pseudo-face per
// sequence so they can be written with the OFF writer. Loop flags are not
// part of the result; FileName encodes them instead.
func ToMesh(seqs []Sequence) *mesh.Mesh {
	m := &mesh.Mesh{
		FaceSizes: make([]uint32, len(seqs)),
	}
	total := 0
	for _, s := range seqs {
		total += len(s.Indices)
	}
	m.FaceIndices = make([]uint32, 0, total)
	for i, s := range seqs {
		m.FaceSizes[i] = uint32(len(s.Indices))
		m.FaceIndices = append(m.FaceIndices, s.Indices...)
	}
	return m
}

// FromMesh rebuilds sequences from the pseudo-faces of m. loops gives the
// loop flag per face and may be nil, in which case every sequence is open.
func FromMesh(m *mesh.Mesh, loops []bool) ([]Sequence, error) {
	if loops != nil && len(loops) != len(m.FaceSizes) {
		return nil, fmt.Errorf("%w: %d loop flags for %d sequences", mesh.ErrFormat, len(loops), len(m.FaceSizes))
	}

	seqs := make([]Sequence, len(m.FaceSizes))
	offset := 0
	for i, n := range m.FaceSizes {
		end := offset + int(n)
		if end > len(m.FaceIndices) {
			return nil, fmt.Errorf("%w: sequence %d runs past the end of %d indices", mesh.ErrFormat, i, len(m.FaceIndices))
		}
		seqs[i].Indices = append([]uint32(nil), m.FaceIndices[offset:end]...)
		if loops != nil {
			seqs[i].IsLoop = loops[i]
		}
		offset = end
	}
	return seqs, nil
}

// FileName returns the name under which the seams of a connected component
// are saved, e.g. "frag-0-seam-vertices-id0_isLOOP-id1_isOPEN.txt".
func FileName(component int, seqs []Sequence) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frag-%d-seam-vertices", component)
	for i, s := range seqs {
		kind := "OPEN"
		if s.IsLoop {
			kind = "LOOP"
		}
		fmt.Fprintf(&sb, "-id%d_is%s", i, kind)
	}
	sb.WriteString(".txt")
	return sb.String()
}

// Words converts a little-endian byte dump into uint32 words.
func Words(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of 32-bit words", mesh.ErrFormat, len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// Bytes converts words into a little-endian byte dump.
func Bytes(words []uint32) []byte {
	data := make([]byte, 0, len(words)*4)
	for _, w := range words {
		data = binary.LittleEndian.AppendUint32(data, w)
	}
	return data
}

// ReadFile loads and decodes a packed sequence dump.
func ReadFile(path string) ([]Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &mesh.ParseError{Path: path, Err: fmt.Errorf("%w: %v", mesh.ErrIO, err)}
	}
	words, err := Words(data)
	if err != nil {
		return nil, &mesh.ParseError{Path: path, Err: err}
	}
	seqs, err := Decode(words)
	if err != nil {
		return nil, &mesh.ParseError{Path: path, Err: err}
	}
	return seqs, nil
}

// WriteFile encodes seqs and writes them as a packed dump.
func WriteFile(path string, seqs []Sequence) error {
	if err := os.WriteFile(path, Bytes(Encode(seqs)), 0644); err != nil {
		return &mesh.ParseError{Path: path, Err: fmt.Errorf("%w: %v", mesh.ErrIO, err)}
	}
	return nil
}

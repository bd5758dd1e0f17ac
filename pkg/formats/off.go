package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshio/pkg/mesh"
)

// maxElements bounds declared element counts so a corrupt header cannot
// trigger an enormous allocation before any record has been read.
const maxElements = 1 << 26

// ReadOptions controls how OFF files are read.
type ReadOptions struct {
	// Records reads the face block as plain ragged records, as written for
	// seam sequences: records may hold any number of indices and indices are
	// not checked against the vertex count.
	Records bool
}

// ReadOFF parses an OFF mesh.
func ReadOFF(r io.ReadSeeker) (*mesh.Mesh, error) {
	return ReadOFFWithOptions(r, ReadOptions{})
}

// ReadOFFWithOptions parses an OFF file.
//
// Face records are scanned twice: the first scan only reads each face's
// vertex count so the flattened index array can be allocated at its final
// size, the second seeks back and fills it.
func ReadOFFWithOptions(r io.ReadSeeker, opts ReadOptions) (*mesh.Mesh, error) {
	minFaceSize := 3
	if opts.Records {
		minFaceSize = 0
	}

	s, err := NewLineScanner(r)
	if err != nil {
		return nil, err
	}

	header, err := s.Next()
	if err != nil {
		return nil, missingLine(s, err, "header")
	}
	if !strings.Contains(header, "OFF") {
		return nil, formatErrorf(s, "unrecognised OFF header %q", header)
	}

	counts, err := s.Next()
	if err != nil {
		return nil, missingLine(s, err, "element counts")
	}
	numVertices, numFaces, err := parseOFFCounts(strings.Fields(counts))
	if err != nil {
		return nil, formatErrorf(s, "element counts: %v", err)
	}

	m := &mesh.Mesh{
		Vertices:  make([]float64, numVertices*3),
		FaceSizes: make([]uint32, numFaces),
	}

	for i := 0; i < numVertices; i++ {
		line, err := s.Next()
		if err != nil {
			return nil, missingLine(s, err, fmt.Sprintf("vertex %d of %d", i, numVertices))
		}
		if err := parseFloats(strings.Fields(line), m.Vertices[i*3:i*3+3]); err != nil {
			return nil, formatErrorf(s, "vertex %d: %v", i, err)
		}
	}

	facesStart := s.Mark()

	total := 0
	for i := 0; i < numFaces; i++ {
		line, err := s.Next()
		if err != nil {
			return nil, missingLine(s, err, fmt.Sprintf("face %d of %d", i, numFaces))
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, formatErrorf(s, "face %d: blank record", i)
		}
		n, err := parseCount(fields[0])
		if err != nil {
			return nil, formatErrorf(s, "face %d: %v", i, err)
		}
		if n < minFaceSize {
			return nil, formatErrorf(s, "face %d has %d vertices, need at least %d", i, n, minFaceSize)
		}
		if n > maxElements {
			return nil, formatErrorf(s, "face %d size %d exceeds limit %d", i, n, maxElements)
		}
		total += n
		if total > maxElements {
			return nil, formatErrorf(s, "face %d brings the index count to %d, limit %d", i, total, maxElements)
		}
		m.FaceSizes[i] = uint32(n)
	}

	if err := s.Reset(facesStart); err != nil {
		return nil, err
	}

	m.FaceIndices = make([]uint32, total)
	offset := 0
	for i := 0; i < numFaces; i++ {
		line, err := s.Next()
		if err != nil {
			return nil, missingLine(s, err, fmt.Sprintf("face %d of %d", i, numFaces))
		}
		fields := strings.Fields(line)
		n := int(m.FaceSizes[i])
		if len(fields) == 0 {
			return nil, formatErrorf(s, "face %d: blank record", i)
		}
		if declared, err := parseCount(fields[0]); err != nil || declared != n {
			return nil, formatErrorf(s, "face %d size changed between scans: %s, was %d", i, fields[0], n)
		}
		if len(fields)-1 < n {
			return nil, formatErrorf(s, "face %d declares %d vertices but lists %d", i, n, len(fields)-1)
		}
		for j := 0; j < n; j++ {
			idx, err := strconv.ParseUint(fields[j+1], 10, 32)
			if err != nil {
				return nil, formatErrorf(s, "face %d: invalid vertex index %q", i, fields[j+1])
			}
			if !opts.Records && int(idx) >= numVertices {
				return nil, boundsErrorf(s, "face %d references vertex %d, have %d", i, idx, numVertices)
			}
			m.FaceIndices[offset+j] = uint32(idx)
		}
		offset += n
	}

	return m, nil
}

// ReadOFFFile parses an OFF mesh from disk.
func ReadOFFFile(path string) (*mesh.Mesh, error) {
	return ReadOFFFileWithOptions(path, ReadOptions{})
}

// ReadOFFFileWithOptions parses an OFF file from disk.
func ReadOFFFileWithOptions(path string, opts ReadOptions) (*mesh.Mesh, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadOFFWithOptions(f, opts)
	if err != nil {
		return nil, mesh.WithPath(err, path)
	}
	return m, nil
}

func parseOFFCounts(fields []string) (vertices, faces int, err error) {
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("have %d values, expected vertex, face and edge counts", len(fields))
	}
	if vertices, err = parseCount(fields[0]); err != nil {
		return 0, 0, err
	}
	if faces, err = parseCount(fields[1]); err != nil {
		return 0, 0, err
	}
	// The edge count is optional and not used when reading.
	if len(fields) > 2 {
		if _, err = parseCount(fields[2]); err != nil {
			return 0, 0, err
		}
	}
	if vertices > maxElements || faces > maxElements {
		return 0, 0, fmt.Errorf("counts %d/%d exceed limit %d", vertices, faces, maxElements)
	}
	return vertices, faces, nil
}

// missingLine converts a scanner failure while expecting a record into a
// format error, keeping I/O failures as they are.
func missingLine(s *LineScanner, err error, what string) error {
	if errors.Is(err, io.EOF) {
		return formatErrorf(s, "unexpected end of file, expected %s", what)
	}
	return err
}

// WriteOptions controls how meshes are written.
type WriteOptions struct {
	// Precision is the number of decimals written per coordinate.
	// -1 writes the shortest representation that reads back exactly.
	Precision int
}

// DefaultWriteOptions matches printf's %f.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Precision: 6}
}

// WriteOFF writes m in OFF format.
//
// Any of the vertex, face or edge arrays may be empty, which makes the
// writer usable for plain ragged records such as seam sequences. When
// FaceSizes is nil, FaceIndices is written as a list of triangles.
func WriteOFF(w io.Writer, m *mesh.Mesh, opts WriteOptions) error {
	numFaces := len(m.FaceSizes)
	if m.FaceSizes == nil {
		if len(m.FaceIndices)%3 != 0 {
			return fmt.Errorf("%w: %d triangle indices is not a multiple of 3", mesh.ErrFormat, len(m.FaceIndices))
		}
		numFaces = len(m.FaceIndices) / 3
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "OFF")
	fmt.Fprintf(bw, "%d %d %d\n", m.NumVertices(), numFaces, m.NumEdges())

	for i := 0; i < m.NumVertices(); i++ {
		v := m.Vertex(i)
		bw.WriteString(strconv.FormatFloat(v[0], 'f', opts.Precision, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(v[1], 'f', opts.Precision, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(v[2], 'f', opts.Precision, 64))
		bw.WriteByte('\n')
	}

	offset := 0
	for i := 0; i < numFaces; i++ {
		n := 3
		if m.FaceSizes != nil {
			n = int(m.FaceSizes[i])
		}
		if offset+n > len(m.FaceIndices) {
			return fmt.Errorf("%w: face %d runs past the end of %d face indices", mesh.ErrFormat, i, len(m.FaceIndices))
		}
		bw.WriteString(strconv.Itoa(n))
		for _, idx := range m.FaceIndices[offset : offset+n] {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatUint(uint64(idx), 10))
		}
		bw.WriteByte('\n')
		offset += n
	}
	if m.FaceSizes != nil && offset != len(m.FaceIndices) {
		return fmt.Errorf("%w: face sizes cover %d of %d face indices", mesh.ErrFormat, offset, len(m.FaceIndices))
	}

	for i := 0; i < m.NumEdges(); i++ {
		fmt.Fprintf(bw, "%d %d\n", m.Edges[i*2], m.Edges[i*2+1])
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", mesh.ErrIO, err)
	}
	return nil
}

// WriteOFFFile writes m to path in OFF format.
func WriteOFFFile(path string, m *mesh.Mesh, opts WriteOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &mesh.ParseError{Path: path, Err: fmt.Errorf("%w: %v", mesh.ErrIO, err)}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &mesh.ParseError{Path: path, Err: fmt.Errorf("%w: %v", mesh.ErrIO, cerr)}
		}
	}()

	if err := WriteOFF(f, m, opts); err != nil {
		return mesh.WithPath(err, path)
	}
	return nil
}

package formats

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/meshio/pkg/mesh"
)

// objCommand identifies the OBJ statements the reader understands.
type objCommand int

const (
	objUnknown objCommand = iota
	objVertex
	objNormal
	objTexCoord
	objFace
)

// String returns the OBJ keyword of the command.
func (c objCommand) String() string {
	switch c {
	case objVertex:
		return "v"
	case objNormal:
		return "vn"
	case objTexCoord:
		return "vt"
	case objFace:
		return "f"
	default:
		return "unknown"
	}
}

// classifyOBJ returns the command of a tokenised line. Everything other
// than v, vn, vt and f (vp, o, g, s, usemtl, mtllib, ...) is unknown.
func classifyOBJ(fields []string) objCommand {
	if len(fields) == 0 {
		return objUnknown
	}
	switch fields[0] {
	case "v":
		return objVertex
	case "vn":
		return objNormal
	case "vt":
		return objTexCoord
	case "f":
		return objFace
	default:
		return objUnknown
	}
}

// objReader holds the state shared by the three passes over an OBJ file.
type objReader struct {
	s *LineScanner
	m *mesh.Mesh
}

// ReadOBJ parses a Wavefront OBJ mesh.
//
// Statements may appear in any order, so the input is read three times:
// the first pass counts records, the second fills the coordinate arrays and
// the per-face sizes, the third fills the flattened face index arrays.
// Texture coordinate and normal index arrays are only allocated when the
// file contains vt and vn records respectively.
//
// A face slot of the form v/x is read as vertex/texcoord when the file has
// any vt record and as vertex/normal otherwise.
//
// Once a file has vt (or vn) records every face slot must carry a texcoord
// (or normal) index; a slot without one, such as 1/1 in a file that also
// has vn records, is rejected with mesh.ErrFormat.
func ReadOBJ(r io.ReadSeeker) (*mesh.Mesh, error) {
	s, err := NewLineScanner(r)
	if err != nil {
		return nil, err
	}
	or := &objReader{s: s}

	if err := or.count(); err != nil {
		return nil, err
	}
	if err := s.Rewind(); err != nil {
		return nil, err
	}
	total, err := or.readRecords()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, &mesh.ParseError{Err: fmt.Errorf("%w: no face indices found", mesh.ErrFormat)}
	}
	if err := s.Rewind(); err != nil {
		return nil, err
	}
	if err := or.readFaces(total); err != nil {
		return nil, err
	}
	return or.m, nil
}

// ReadOBJFile parses an OBJ mesh from disk.
func ReadOBJFile(path string) (*mesh.Mesh, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadOBJ(f)
	if err != nil {
		return nil, mesh.WithPath(err, path)
	}
	return m, nil
}

// each calls fn for every meaningful line until the end of input.
func (or *objReader) each(fn func(cmd objCommand, fields []string) error) error {
	for {
		line, err := or.s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		cmd := classifyOBJ(fields)
		if cmd == objUnknown {
			continue
		}
		if err := fn(cmd, fields); err != nil {
			return err
		}
	}
}

// count tallies records and allocates the mesh arrays.
func (or *objReader) count() error {
	var counts [objFace + 1]int
	err := or.each(func(cmd objCommand, _ []string) error {
		counts[cmd]++
		return nil
	})
	if err != nil {
		return err
	}

	for cmd, n := range counts {
		if n > maxElements {
			return &mesh.ParseError{Err: fmt.Errorf("%w: %d %s records exceed limit %d", mesh.ErrFormat, n, objCommand(cmd), maxElements)}
		}
	}

	or.m = &mesh.Mesh{
		Vertices:  make([]float64, counts[objVertex]*3),
		FaceSizes: make([]uint32, counts[objFace]),
	}
	if n := counts[objNormal]; n > 0 {
		or.m.Normals = make([]float64, n*3)
	}
	if n := counts[objTexCoord]; n > 0 {
		or.m.TexCoords = make([]float64, n*2)
	}
	return nil
}

// readRecords parses coordinates in place and records every face size.
// It returns the total number of face-vertex slots.
func (or *objReader) readRecords() (int, error) {
	var vertexID, normalID, texCoordID, faceID, total int
	full := func(cmd objCommand) bool {
		switch cmd {
		case objVertex:
			return vertexID >= or.m.NumVertices()
		case objNormal:
			return normalID >= or.m.NumNormals()
		case objTexCoord:
			return texCoordID >= or.m.NumTexCoords()
		default:
			return faceID >= or.m.NumFaces()
		}
	}

	err := or.each(func(cmd objCommand, fields []string) error {
		if full(cmd) {
			return formatErrorf(or.s, "more %s records than in the first pass", cmd)
		}
		switch cmd {
		case objVertex:
			if err := parseFloats(fields[1:], or.m.Vertices[vertexID*3:vertexID*3+3]); err != nil {
				return formatErrorf(or.s, "v %d: %v", vertexID, err)
			}
			vertexID++
		case objNormal:
			if err := parseFloats(fields[1:], or.m.Normals[normalID*3:normalID*3+3]); err != nil {
				return formatErrorf(or.s, "vn %d: %v", normalID, err)
			}
			normalID++
		case objTexCoord:
			if err := parseFloats(fields[1:], or.m.TexCoords[texCoordID*2:texCoordID*2+2]); err != nil {
				return formatErrorf(or.s, "vt %d: %v", texCoordID, err)
			}
			texCoordID++
		case objFace:
			n := len(fields) - 1
			if n < 3 {
				return formatErrorf(or.s, "face %d has %d vertices, need at least 3", faceID, n)
			}
			or.m.FaceSizes[faceID] = uint32(n)
			total += n
			faceID++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// The counts come from the first pass; a mismatch means the input
	// changed underneath us.
	if vertexID != or.m.NumVertices() || normalID != or.m.NumNormals() ||
		texCoordID != or.m.NumTexCoords() || faceID != or.m.NumFaces() {
		return 0, &mesh.ParseError{Err: fmt.Errorf("%w: record counts changed between passes", mesh.ErrFormat)}
	}
	return total, nil
}

// readFaces fills the flattened face index arrays.
func (or *objReader) readFaces(total int) error {
	m := or.m
	m.FaceIndices = make([]uint32, total)
	if m.TexCoords != nil {
		m.FaceTexCoordIndices = make([]uint32, total)
	}
	if m.Normals != nil {
		m.FaceNormalIndices = make([]uint32, total)
	}
	haveTexCoords := m.TexCoords != nil

	faceID, offset := 0, 0
	return or.each(func(cmd objCommand, fields []string) error {
		if cmd != objFace {
			return nil
		}
		if faceID >= len(m.FaceSizes) {
			return formatErrorf(or.s, "face %d was not present in earlier passes", faceID)
		}
		slots := fields[1:]
		if want := int(m.FaceSizes[faceID]); len(slots) != want {
			return formatErrorf(or.s, "face %d has %d vertices when there should be %d", faceID, len(slots), want)
		}

		for j, slot := range slots {
			parts := strings.Split(slot, "/")
			if len(parts) > 3 {
				return formatErrorf(or.s, "face %d vertex %d: too many fields in %q", faceID, j, slot)
			}

			var texField, normalField string
			switch len(parts) {
			case 2:
				if haveTexCoords {
					texField = parts[1]
				} else {
					normalField = parts[1]
				}
			case 3:
				texField, normalField = parts[1], parts[2]
			}

			idx, err := or.index(parts[0], m.NumVertices(), "vertex", faceID, j)
			if err != nil {
				return err
			}
			m.FaceIndices[offset+j] = idx

			if err := or.aux(texField, m.FaceTexCoordIndices, m.NumTexCoords(), "texcoord", faceID, j, offset+j); err != nil {
				return err
			}
			if err := or.aux(normalField, m.FaceNormalIndices, m.NumNormals(), "normal", faceID, j, offset+j); err != nil {
				return err
			}
		}

		offset += len(slots)
		faceID++
		return nil
	})
}

// aux stores an optional texcoord or normal index. A field is required
// when the destination array exists and rejected when it does not.
func (or *objReader) aux(field string, dst []uint32, limit int, kind string, face, slot, pos int) error {
	if field == "" {
		if dst != nil {
			return formatErrorf(or.s, "face %d vertex %d: missing %s index", face, slot, kind)
		}
		return nil
	}
	idx, err := or.index(field, limit, kind, face, slot)
	if err != nil {
		return err
	}
	dst[pos] = idx
	return nil
}

// index converts a one-based OBJ index to a zero-based one.
func (or *objReader) index(field string, limit int, kind string, face, slot int) (uint32, error) {
	if field == "" {
		return 0, formatErrorf(or.s, "face %d vertex %d: missing %s index", face, slot, kind)
	}
	v, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, formatErrorf(or.s, "face %d vertex %d: invalid %s index %q", face, slot, kind, field)
	}
	if v < 1 {
		return 0, formatErrorf(or.s, "face %d vertex %d: unsupported %s index %d", face, slot, kind, v)
	}
	if v > int64(limit) {
		return 0, boundsErrorf(or.s, "face %d vertex %d: %s index %d, have %d", face, slot, kind, v, limit)
	}
	return uint32(v - 1), nil
}

// Package mesh defines the flattened polygon-mesh buffers shared by the
// format readers, the writers and the seam-sequence codec.
package mesh

import "fmt"

// Mesh is a polygon mesh stored as densely packed arrays.
//
// Faces are ragged: FaceSizes holds one vertex count per face and
// FaceIndices holds all faces back to back, so face i starts at the sum of
// FaceSizes[:i]. The optional texcoord and normal index arrays run parallel
// to FaceIndices. All indices are zero-based.
type Mesh struct {
	Vertices  []float64 // x, y, z per vertex
	Normals   []float64 // x, y, z per normal
	TexCoords []float64 // u, v per texture coordinate

	FaceSizes           []uint32
	FaceIndices         []uint32
	FaceTexCoordIndices []uint32 // nil unless the mesh has texcoords
	FaceNormalIndices   []uint32 // nil unless the mesh has normals

	Edges []uint32 // vertex index pairs
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int { return len(m.Vertices) / 3 }

// NumNormals returns the number of normals.
func (m *Mesh) NumNormals() int { return len(m.Normals) / 3 }

// NumTexCoords returns the number of texture coordinates.
func (m *Mesh) NumTexCoords() int { return len(m.TexCoords) / 2 }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.FaceSizes) }

// NumFaceIndices returns the length of the flattened face index array.
func (m *Mesh) NumFaceIndices() int { return len(m.FaceIndices) }

// NumEdges returns the number of edges.
func (m *Mesh) NumEdges() int { return len(m.Edges) / 2 }

// Vertex returns the coordinates of vertex i.
func (m *Mesh) Vertex(i int) [3]float64 {
	return [3]float64{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

// FaceOffsets returns the start of every face window in FaceIndices.
func (m *Mesh) FaceOffsets() []int {
	offsets := make([]int, len(m.FaceSizes))
	running := 0
	for i, n := range m.FaceSizes {
		offsets[i] = running
		running += int(n)
	}
	return offsets
}

// Face returns the vertex indices of face i. The slice aliases FaceIndices.
// Callers iterating all faces should prefer FaceOffsets.
func (m *Mesh) Face(i int) []uint32 {
	start := 0
	for _, n := range m.FaceSizes[:i] {
		start += int(n)
	}
	return m.FaceIndices[start : start+int(m.FaceSizes[i])]
}

// Validate checks the structural invariants of the mesh: the face sizes
// add up to every face index array and every index lies within its
// referent array.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("%w: vertex array length %d is not a multiple of 3", ErrFormat, len(m.Vertices))
	}
	if len(m.Normals)%3 != 0 {
		return fmt.Errorf("%w: normal array length %d is not a multiple of 3", ErrFormat, len(m.Normals))
	}
	if len(m.TexCoords)%2 != 0 {
		return fmt.Errorf("%w: texcoord array length %d is not a multiple of 2", ErrFormat, len(m.TexCoords))
	}
	if len(m.Edges)%2 != 0 {
		return fmt.Errorf("%w: edge array length %d is not a multiple of 2", ErrFormat, len(m.Edges))
	}

	total := 0
	for _, n := range m.FaceSizes {
		total += int(n)
	}
	if total != len(m.FaceIndices) {
		return fmt.Errorf("%w: face sizes sum to %d but there are %d face indices", ErrFormat, total, len(m.FaceIndices))
	}
	if m.FaceTexCoordIndices != nil && len(m.FaceTexCoordIndices) != total {
		return fmt.Errorf("%w: %d texcoord indices, expected %d", ErrFormat, len(m.FaceTexCoordIndices), total)
	}
	if m.FaceNormalIndices != nil && len(m.FaceNormalIndices) != total {
		return fmt.Errorf("%w: %d normal indices, expected %d", ErrFormat, len(m.FaceNormalIndices), total)
	}

	if err := checkIndices("face vertex", m.FaceIndices, m.NumVertices()); err != nil {
		return err
	}
	if err := checkIndices("face texcoord", m.FaceTexCoordIndices, m.NumTexCoords()); err != nil {
		return err
	}
	if err := checkIndices("face normal", m.FaceNormalIndices, m.NumNormals()); err != nil {
		return err
	}
	return checkIndices("edge", m.Edges, m.NumVertices())
}

func checkIndices(kind string, indices []uint32, limit int) error {
	for i, idx := range indices {
		if int(idx) >= limit {
			return fmt.Errorf("%w: %s index %d at position %d, have %d", ErrBounds, kind, idx, i, limit)
		}
	}
	return nil
}

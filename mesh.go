// Package trimesh implements constrained isotropic remeshing of a triangular
// domain. Given per-edge subdivision counts for the three boundary edges it
// produces an interior triangulation with near-uniform edge lengths and
// regular vertex valence while preserving the boundary subdivision exactly.
package trimesh

import (
	"errors"

	"github.com/soypat/trimesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed mesh with derived connectivity. Vertices hold positions,
// faces are ordered vertex index loops. Edges, boundary flags and vertex
// adjacency are recomputed from the faces after every topology change; they
// carry no identity of their own beyond their endpoint pair.
type Mesh struct {
	verts []r3.Vec
	faces [][]int

	// Connectivity below is derived from faces and rebuilt lazily.
	edges     [][2]int
	edgeFaces []int // number of faces adjacent to edges[i]
	adjacent  [][]int
	boundary  []bool
	dirty     bool
}

// NewMesh assembles a mesh from vertex positions and face index loops.
// Face loops must index into vertices and contain at least 3 entries each.
func NewMesh(vertices []r3.Vec, faces [][]int) *Mesh {
	return &Mesh{verts: vertices, faces: faces, dirty: true}
}

// NumVertices returns the number of vertices in the mesh.
func (m *Mesh) NumVertices() int { return len(m.verts) }

// NumFaces returns the number of faces in the mesh.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Position returns the position of vertex v.
func (m *Mesh) Position(v int) r3.Vec { return m.verts[v] }

// SetPosition moves vertex v. Moving a vertex does not change connectivity.
func (m *Mesh) SetPosition(v int, p r3.Vec) { m.verts[v] = p }

// Face returns the vertex loop of face f. The returned slice is owned by the
// mesh and must not be modified.
func (m *Mesh) Face(f int) []int { return m.faces[f] }

// Edges returns all unordered vertex pairs referenced by faces, lower index
// first. The returned slice is owned by the mesh and must not be modified.
func (m *Mesh) Edges() [][2]int {
	m.connectivity()
	return m.edges
}

// EdgeLength returns the euclidean distance between the endpoints of edge e.
func (m *Mesh) EdgeLength(e int) float64 {
	m.connectivity()
	return r3.Norm(r3.Sub(m.verts[m.edges[e][0]], m.verts[m.edges[e][1]]))
}

// IsBoundaryEdge reports whether edge e borders exactly one face.
func (m *Mesh) IsBoundaryEdge(e int) bool {
	m.connectivity()
	return m.edgeFaces[e] == 1
}

// IsBoundaryVertex reports whether vertex v lies on a boundary edge.
func (m *Mesh) IsBoundaryVertex(v int) bool {
	m.connectivity()
	return m.boundary[v]
}

// BoundaryEdgeCount returns the number of boundary edges. The remesh loop
// treats any change of this count as topology corruption.
func (m *Mesh) BoundaryEdgeCount() int {
	m.connectivity()
	n := 0
	for _, c := range m.edgeFaces {
		if c == 1 {
			n++
		}
	}
	return n
}

// ShortestBoundaryEdge returns the length of the shortest boundary edge.
// ok is false when the mesh has no boundary edges.
func (m *Mesh) ShortestBoundaryEdge() (length float64, ok bool) {
	m.connectivity()
	for e := range m.edges {
		if m.edgeFaces[e] != 1 {
			continue
		}
		if l := m.EdgeLength(e); !ok || l < length {
			length = l
			ok = true
		}
	}
	return length, ok
}

// Neighbors returns the indices of vertices joined to v by an edge. The
// returned slice is owned by the mesh and must not be modified.
func (m *Mesh) Neighbors(v int) []int {
	m.connectivity()
	return m.adjacent[v]
}

// VertexDegree returns the number of edges incident to vertex v.
func (m *Mesh) VertexDegree(v int) int {
	m.connectivity()
	return len(m.adjacent[v])
}

// InteriorVertices returns the indices of all non-boundary vertices.
func (m *Mesh) InteriorVertices() []int {
	m.connectivity()
	var interior []int
	for v := range m.verts {
		if !m.boundary[v] {
			interior = append(interior, v)
		}
	}
	return interior
}

// FaceArea returns the area of face f computed with Newell's method, so it
// is exact for planar polygons and triangles alike.
func (m *Mesh) FaceArea(f int) float64 {
	loop := m.faces[f]
	var n r3.Vec
	for i, vi := range loop {
		vj := loop[(i+1)%len(loop)]
		n = r3.Add(n, r3.Cross(m.verts[vi], m.verts[vj]))
	}
	return 0.5 * r3.Norm(n)
}

// Bounds returns the axis aligned bounding box of the mesh vertices.
func (m *Mesh) Bounds() d3.Box {
	bb := d3.Box{Min: d3.Elem(1e300), Max: d3.Elem(-1e300)}
	for _, v := range m.verts {
		bb = bb.Include(v)
	}
	return bb
}

// Buffers returns the plain mesh buffer: the vertex position array and the
// triangular face index array. It errors if any face is not a triangle.
func (m *Mesh) Buffers() ([]r3.Vec, [][3]int, error) {
	tris := make([][3]int, len(m.faces))
	for i, f := range m.faces {
		if len(f) != 3 {
			return nil, nil, errors.New("trimesh: mesh has non-triangular faces, triangulate first")
		}
		tris[i] = [3]int{f[0], f[1], f[2]}
	}
	verts := make([]r3.Vec, len(m.verts))
	copy(verts, m.verts)
	return verts, tris, nil
}

// SubdivideEdges splits every listed edge, given by its endpoint pair, into
// cuts+1 equal length segments. New vertices are spliced into every face loop
// containing the edge so faces stay closed. Edges not present in the mesh are
// ignored. cuts of zero is a no-op.
func (m *Mesh) SubdivideEdges(edges [][2]int, cuts int) {
	if cuts <= 0 {
		return
	}
	for _, e := range edges {
		m.splitEdge(e[0], e[1], cuts)
	}
}

func (m *Mesh) splitEdge(a, b int, cuts int) {
	type occurrence struct {
		face, at int
		forward  bool
	}
	var occurrences []occurrence
	for fi, f := range m.faces {
		for i := range f {
			va, vb := f[i], f[(i+1)%len(f)]
			if va == a && vb == b {
				occurrences = append(occurrences, occurrence{face: fi, at: i, forward: true})
				break
			}
			if va == b && vb == a {
				occurrences = append(occurrences, occurrence{face: fi, at: i})
				break
			}
		}
	}
	if len(occurrences) == 0 {
		return
	}
	pa, pb := m.verts[a], m.verts[b]
	first := len(m.verts)
	for i := 1; i <= cuts; i++ {
		t := float64(i) / float64(cuts+1)
		m.verts = append(m.verts, r3.Add(pa, r3.Scale(t, r3.Sub(pb, pa))))
	}
	for _, oc := range occurrences {
		f := m.faces[oc.face]
		insert := make([]int, cuts)
		for k := range insert {
			if oc.forward {
				insert[k] = first + k
			} else {
				insert[k] = first + cuts - 1 - k
			}
		}
		loop := make([]int, 0, len(f)+cuts)
		loop = append(loop, f[:oc.at+1]...)
		loop = append(loop, insert...)
		loop = append(loop, f[oc.at+1:]...)
		m.faces[oc.face] = loop
	}
	m.dirty = true
}

// connectivity rebuilds derived edge and adjacency data when stale.
func (m *Mesh) connectivity() {
	if !m.dirty {
		return
	}
	m.edges = m.edges[:0]
	m.edgeFaces = m.edgeFaces[:0]
	index := make(map[[2]int]int)
	for _, f := range m.faces {
		for i := range f {
			k := edgeKey(f[i], f[(i+1)%len(f)])
			e, ok := index[k]
			if !ok {
				e = len(m.edges)
				index[k] = e
				m.edges = append(m.edges, k)
				m.edgeFaces = append(m.edgeFaces, 0)
			}
			m.edgeFaces[e]++
		}
	}
	m.adjacent = make([][]int, len(m.verts))
	m.boundary = make([]bool, len(m.verts))
	for e, k := range m.edges {
		m.adjacent[k[0]] = append(m.adjacent[k[0]], k[1])
		m.adjacent[k[1]] = append(m.adjacent[k[1]], k[0])
		if m.edgeFaces[e] == 1 {
			m.boundary[k[0]] = true
			m.boundary[k[1]] = true
		}
	}
	m.dirty = false
}

// compact drops vertices referenced by no face and remaps face indices.
// Returns the number of removed vertices.
func (m *Mesh) compact() int {
	used := make([]bool, len(m.verts))
	for _, f := range m.faces {
		for _, v := range f {
			used[v] = true
		}
	}
	remap := make([]int, len(m.verts))
	kept := 0
	for v, u := range used {
		if u {
			m.verts[kept] = m.verts[v]
			remap[v] = kept
			kept++
		}
	}
	removed := len(m.verts) - kept
	if removed == 0 {
		return 0
	}
	m.verts = m.verts[:kept]
	for _, f := range m.faces {
		for i, v := range f {
			f[i] = remap[v]
		}
	}
	m.dirty = true
	return removed
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

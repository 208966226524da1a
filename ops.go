package trimesh

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Interactive edit operations. Each applies one remeshing primitive once to
// a caller-supplied mesh and sizes its threshold from the shortest boundary
// edge, so they compose with meshes that never went through BuildTriangle.
// A mesh without boundary edges does not satisfy their precondition; they
// then return ErrNoBoundary without touching the mesh. That status is
// distinct from both remesh failure tiers and is not fatal.

// ErrNoBoundary reports that an edit operation requires boundary edges and
// the mesh has none. The mesh is left unmodified.
var ErrNoBoundary = errors.New("trimesh: mesh has no boundary edges")

// RefineLongEdges subdivides every interior edge longer than 1.2 times the
// shortest boundary edge with a single cut and re-triangulates. Returns the
// number of subdivided edges.
func RefineLongEdges(m *Mesh, tr Triangulator) (int, error) {
	minBoundary, ok := m.ShortestBoundaryEdge()
	if !ok {
		return 0, ErrNoBoundary
	}
	threshold := refineFactor * minBoundary
	var long [][2]int
	for e, k := range m.Edges() {
		if !m.IsBoundaryEdge(e) && m.EdgeLength(e) > threshold {
			long = append(long, k)
		}
	}
	if len(long) > 0 {
		m.SubdivideEdges(long, 1)
	}
	if err := m.Triangulate(tr); err != nil {
		return len(long), err
	}
	return len(long), nil
}

// CollapseShortEdges collapses every edge shorter than 0.6 times the
// shortest boundary edge whose endpoints are both interior vertices. Each
// cluster of collapsed edges merges to a single vertex at the cluster
// centroid. Returns the number of collapsed edges.
func CollapseShortEdges(m *Mesh, tr Triangulator) (int, error) {
	minBoundary, ok := m.ShortestBoundaryEdge()
	if !ok {
		return 0, ErrNoBoundary
	}
	threshold := weldFactor * minBoundary
	uf := newUnionFind(m.NumVertices())
	collapsed := 0
	for e, k := range m.Edges() {
		if m.IsBoundaryEdge(e) || m.IsBoundaryVertex(k[0]) || m.IsBoundaryVertex(k[1]) {
			continue
		}
		if m.EdgeLength(e) < threshold {
			uf.union(k[0], k[1])
			collapsed++
		}
	}
	if collapsed > 0 {
		// Move every cluster root to its cluster centroid before the merge.
		sum := make(map[int]r3.Vec)
		count := make(map[int]int)
		for v := 0; v < m.NumVertices(); v++ {
			root := uf.find(v)
			sum[root] = r3.Add(sum[root], m.verts[v])
			count[root]++
		}
		for root, n := range count {
			if n > 1 {
				m.verts[root] = r3.Scale(1/float64(n), sum[root])
			}
		}
		m.mergeVertices(uf)
	}
	if err := m.Triangulate(tr); err != nil {
		return collapsed, err
	}
	return collapsed, nil
}

// WeldCloseVertices merges interior vertices closer than 0.6 times the
// shortest boundary edge and re-triangulates. Returns the number of removed
// vertices.
func WeldCloseVertices(m *Mesh, tr Triangulator) (int, error) {
	minBoundary, ok := m.ShortestBoundaryEdge()
	if !ok {
		return 0, ErrNoBoundary
	}
	removed := m.WeldVertices(m.InteriorVertices(), weldFactor*minBoundary)
	if err := m.Triangulate(tr); err != nil {
		return removed, err
	}
	return removed, nil
}

// DeleteInterior removes every interior vertex and the faces touching them,
// then re-seats the boundary loop as a single polygon face. The mesh is
// restored to the state it had right after boundary subdivision, ready for
// another remeshing attempt. Returns the number of removed vertices.
func DeleteInterior(m *Mesh) (int, error) {
	loop, err := m.boundaryLoop()
	if err != nil {
		return 0, err
	}
	before := m.NumVertices()
	m.faces = [][]int{loop}
	m.dirty = true
	m.compact()
	return before - m.NumVertices(), nil
}

// boundaryLoop walks the boundary edges into a single ordered cycle.
func (m *Mesh) boundaryLoop() ([]int, error) {
	m.connectivity()
	next := make(map[int][]int)
	total := 0
	for e, k := range m.edges {
		if m.edgeFaces[e] != 1 {
			continue
		}
		next[k[0]] = append(next[k[0]], k[1])
		next[k[1]] = append(next[k[1]], k[0])
		total++
	}
	if total == 0 {
		return nil, ErrNoBoundary
	}
	start := -1
	for v := range next {
		if start < 0 || v < start {
			start = v
		}
	}
	loop := []int{start}
	prev, cur := -1, start
	for len(loop) <= total {
		candidates := next[cur]
		if len(candidates) != 2 {
			return nil, errors.New("trimesh: boundary is not a single closed loop")
		}
		step := candidates[0]
		if step == prev {
			step = candidates[1]
		}
		if step == start {
			break
		}
		loop = append(loop, step)
		prev, cur = cur, step
	}
	if len(loop) != total {
		return nil, errors.New("trimesh: boundary is not a single closed loop")
	}
	return loop, nil
}

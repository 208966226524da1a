package trimesh

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// WeldVertices merges candidate vertices that lie within dist of each other.
// Merging is transitive: a chain of mutually close candidates collapses to a
// single representative, the lowest-index vertex of the cluster, which keeps
// its own position. Faces left with fewer than 3 distinct vertices are
// removed, duplicated triangles are collapsed to one and orphaned vertices
// are dropped. Returns the number of removed vertices.
//
// The remesh loop must never pass boundary vertices as candidates; welding a
// boundary vertex changes the boundary rim, which the caller contract
// forbids.
func (m *Mesh) WeldVertices(candidates []int, dist float64) int {
	if dist <= 0 || len(candidates) < 2 {
		return 0
	}
	pts := make(weldPoints, len(candidates))
	for i, v := range candidates {
		pts[i] = weldPoint{pos: m.verts[v], vert: v}
	}
	tree := kdtree.New(pts, false)
	uf := newUnionFind(len(m.verts))
	d2 := dist * dist
	for _, p := range pts {
		keep := kdtree.NewDistKeeper(d2)
		tree.NearestSet(keep, p)
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			uf.union(p.vert, c.Comparable.(weldPoint).vert)
		}
	}
	return m.mergeVertices(uf)
}

// collapseShortPass collapses edges shorter than dist between candidate
// vertices, shortest first, merging each endpoint pair into its lower-index
// vertex. At most one collapse touches any vertex per pass and a collapse is
// skipped unless the edge satisfies the link condition: the endpoints'
// common neighbors are exactly the two vertices opposite the edge. Collapses
// that violate it pinch the triangulation and tear holes into it, which is
// why the remesh loop uses this pass instead of a transitive weld. Returns
// the number of removed vertices.
func (m *Mesh) collapseShortPass(candidates []int, dist float64) int {
	if dist <= 0 || len(candidates) < 2 {
		return 0
	}
	m.connectivity()
	cand := make([]bool, len(m.verts))
	for _, v := range candidates {
		cand[v] = true
	}
	type shortEdge struct {
		l2   float64
		a, b int
	}
	var short []shortEdge
	d2 := dist * dist
	for _, k := range m.edges {
		if !cand[k[0]] || !cand[k[1]] {
			continue
		}
		l2 := r3.Norm2(r3.Sub(m.verts[k[0]], m.verts[k[1]]))
		if l2 <= d2 {
			short = append(short, shortEdge{l2: l2, a: k[0], b: k[1]})
		}
	}
	if len(short) == 0 {
		return 0
	}
	sort.Slice(short, func(i, j int) bool {
		if short[i].l2 != short[j].l2 {
			return short[i].l2 < short[j].l2
		}
		if short[i].a != short[j].a {
			return short[i].a < short[j].a
		}
		return short[i].b < short[j].b
	})
	opposite := make(map[[2]int][]int)
	for _, f := range m.faces {
		if len(f) != 3 {
			continue
		}
		for i := 0; i < 3; i++ {
			k := edgeKey(f[i], f[(i+1)%3])
			opposite[k] = append(opposite[k], f[(i+2)%3])
		}
	}
	uf := newUnionFind(len(m.verts))
	merged := make([]bool, len(m.verts))
	collapsed := 0
	for _, e := range short {
		if merged[e.a] || merged[e.b] {
			continue
		}
		if !m.linkCondition(e.a, e.b, opposite[edgeKey(e.a, e.b)]) {
			continue
		}
		uf.union(e.a, e.b)
		merged[e.a], merged[e.b] = true, true
		collapsed++
	}
	if collapsed == 0 {
		return 0
	}
	return m.mergeVertices(uf)
}

// linkCondition reports whether every common neighbor of a and b is a vertex
// opposite the edge a-b. Every opposite vertex is a common neighbor by
// construction, so this is equality of the two sets.
func (m *Mesh) linkCondition(a, b int, opposite []int) bool {
	for _, n := range m.adjacent[a] {
		if n == b {
			continue
		}
		shared := false
		for _, n2 := range m.adjacent[b] {
			if n2 == n {
				shared = true
				break
			}
		}
		if !shared {
			continue
		}
		opp := false
		for _, o := range opposite {
			if o == n {
				opp = true
				break
			}
		}
		if !opp {
			return false
		}
	}
	return true
}

// mergeVertices rewrites every face through the union-find roots, drops
// degenerate and duplicate faces and compacts unreferenced vertices.
func (m *Mesh) mergeVertices(uf *unionFind) int {
	seen := make(map[[3]int]bool, len(m.faces))
	kept := m.faces[:0]
	for _, f := range m.faces {
		for i, v := range f {
			f[i] = uf.find(v)
		}
		loop := f[:0]
		for i, v := range f {
			if v != f[(i+1)%len(f)] {
				loop = append(loop, v)
			}
		}
		if len(distinct(loop)) < 3 {
			continue
		}
		if len(loop) == 3 {
			k := triKey(loop[0], loop[1], loop[2])
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		kept = append(kept, loop)
	}
	m.faces = kept
	m.dirty = true
	return m.compact()
}

func distinct(loop []int) []int {
	out := loop[:0:0]
	for _, v := range loop {
		dup := false
		for _, u := range out {
			if u == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func triKey(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// unionFind tracks vertex merge clusters. Roots are always the lowest vertex
// index of their cluster so the surviving representative is deterministic.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}

// weldPoint adapts a mesh vertex to gonum's kdtree for proximity queries.
type weldPoint struct {
	pos  r3.Vec
	vert int
}

func (p weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(weldPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		return p.pos.Z - q.pos.Z
	}
}

func (p weldPoint) Dims() int { return 3 }

func (p weldPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(weldPoint)
	return r3.Norm2(r3.Sub(p.pos, q.pos))
}

type weldPoints []weldPoint

func (p weldPoints) Index(i int) kdtree.Comparable { return p[i] }

func (p weldPoints) Len() int { return len(p) }

func (p weldPoints) Pivot(d kdtree.Dim) int {
	pl := weldPlane{dim: int(d), pts: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

func (p weldPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type weldPlane struct {
	dim int
	pts weldPoints
}

func (p weldPlane) Less(i, j int) bool {
	return p.pts[i].Compare(p.pts[j], kdtree.Dim(p.dim)) < 0
}

func (p weldPlane) Swap(i, j int) {
	p.pts[i], p.pts[j] = p.pts[j], p.pts[i]
}

func (p weldPlane) Len() int { return len(p.pts) }

func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.pts = p.pts[start:end]
	return p
}

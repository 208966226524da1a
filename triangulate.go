package trimesh

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Triangulator splits a polygonal face into triangles. pos is the mesh
// vertex position array and loop the ordered vertex indices of the face.
// Returned triangles index into the same vertex space. Implementations must
// not add or move vertices.
type Triangulator interface {
	Triangulate(pos []r3.Vec, loop []int) ([][3]int, error)
}

// EarClip is the default Triangulator. It projects the face onto its
// dominant plane and clips convex ears. Collinear vertices, as produced by
// edge subdivision, are handled by only ever clipping strictly convex ears.
type EarClip struct{}

var errDegeneratePolygon = errors.New("trimesh: cannot triangulate degenerate polygon")

func (EarClip) Triangulate(pos []r3.Vec, loop []int) ([][3]int, error) {
	if len(loop) < 3 {
		return nil, errDegeneratePolygon
	}
	if len(loop) == 3 {
		return [][3]int{{loop[0], loop[1], loop[2]}}, nil
	}
	pts, eps, err := project(pos, loop)
	if err != nil {
		return nil, err
	}
	// Work on a mutable copy so clipped ears can be removed. idx[i] holds the
	// position of pts[i]'s vertex in the original loop.
	idx := make([]int, len(loop))
	for i := range idx {
		idx[i] = i
	}
	if signedArea(pts, idx) < 0 {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	tris := make([][3]int, 0, len(loop)-2)
	for len(idx) > 3 {
		clipped := false
		for i := range idx {
			prev := idx[(i+len(idx)-1)%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if cross2(pts[prev], pts[cur], pts[next]) <= eps {
				continue // reflex or collinear corner, not an ear.
			}
			if containsAny(pts, idx, prev, cur, next, eps) {
				continue
			}
			tris = append(tris, [3]int{loop[prev], loop[cur], loop[next]})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, errDegeneratePolygon
		}
	}
	tris = append(tris, [3]int{loop[idx[0]], loop[idx[1]], loop[idx[2]]})
	return tris, nil
}

type point2 struct{ x, y float64 }

// project maps the face loop onto the coordinate plane most orthogonal to
// its Newell normal and returns a cross-product tolerance scaled to the
// polygon size.
func project(pos []r3.Vec, loop []int) ([]point2, float64, error) {
	var n r3.Vec
	for i, vi := range loop {
		vj := loop[(i+1)%len(loop)]
		n = r3.Add(n, r3.Cross(pos[vi], pos[vj]))
	}
	if r3.Norm(n) == 0 {
		return nil, 0, errDegeneratePolygon
	}
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	pts := make([]point2, len(loop))
	var span float64
	for i, v := range loop {
		p := pos[v]
		switch {
		case az >= ax && az >= ay:
			pts[i] = point2{p.X, p.Y}
		case ax >= ay:
			pts[i] = point2{p.Y, p.Z}
		default:
			pts[i] = point2{p.Z, p.X}
		}
		span = math.Max(span, math.Max(math.Abs(pts[i].x), math.Abs(pts[i].y)))
	}
	return pts, 1e-12 * span * span, nil
}

func signedArea(pts []point2, idx []int) float64 {
	var area float64
	for i, vi := range idx {
		vj := idx[(i+1)%len(idx)]
		area += pts[vi].x*pts[vj].y - pts[vj].x*pts[vi].y
	}
	return 0.5 * area
}

// cross2 is the z component of (b-a)×(c-a); positive for a counterclockwise
// turn at b.
func cross2(a, b, c point2) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// containsAny reports whether any remaining loop vertex lies inside or on
// the candidate ear (prev, cur, next). The test is inclusive: a vertex
// sitting exactly on an ear edge blocks the clip, otherwise the cut would
// leave a zero-area remainder polygon behind.
func containsAny(pts []point2, idx []int, prev, cur, next int, eps float64) bool {
	for _, v := range idx {
		if v == prev || v == cur || v == next {
			continue
		}
		p := pts[v]
		if cross2(pts[prev], pts[cur], p) >= -eps &&
			cross2(pts[cur], pts[next], p) >= -eps &&
			cross2(pts[next], pts[prev], p) >= -eps {
			return true
		}
	}
	return false
}

// Triangulate replaces every face that is not already a triangle with the
// triangles produced by tr, then rotates interior edges until the local
// Delaunay criterion holds everywhere. After it returns without error every
// face has exactly 3 vertices.
//
// The rotation pass is what keeps the remesh loop stable: ear clipping alone
// produces fan-heavy triangulations whose slivers put far-apart vertices on
// common faces, and welding such a mesh tears holes into it.
func (m *Mesh) Triangulate(tr Triangulator) error {
	out := make([][]int, 0, len(m.faces))
	changed := false
	for _, f := range m.faces {
		if len(f) == 3 {
			out = append(out, f)
			continue
		}
		tris, err := tr.Triangulate(m.verts, f)
		if err != nil {
			return err
		}
		for _, t := range tris {
			out = append(out, []int{t[0], t[1], t[2]})
		}
		changed = true
	}
	if changed {
		m.faces = out
		m.dirty = true
	}
	m.beautify()
	return nil
}

// maxRotatePasses caps the edge rotation sweeps. Delaunay rotation
// terminates on its own; the cap only bounds pathological inputs.
const maxRotatePasses = 100

// beautify sweeps all interior edges shared by exactly two triangles and
// rotates every edge that violates the local Delaunay criterion, until a
// sweep performs no rotation. Boundary edges and vertex positions are never
// touched, so the boundary edge count is invariant under beautify.
func (m *Mesh) beautify() {
	for pass := 0; pass < maxRotatePasses; pass++ {
		if m.rotatePass() == 0 {
			break
		}
	}
}

// edgeSide records one triangle incident to an edge: the face index, the
// vertex opposite the edge and whether the face traverses the edge from its
// lower to its higher vertex index.
type edgeSide struct {
	face     int
	opposite int
	forward  bool
}

// rotatePass performs one sweep of Delaunay edge rotations and returns the
// number of rotated edges. Rotations within a sweep never touch the same
// face twice, so the side map built up front stays valid for every edge it
// is consulted for.
func (m *Mesh) rotatePass() int {
	sides := make(map[[2]int][]edgeSide, 3*len(m.faces))
	for fi, f := range m.faces {
		if len(f) != 3 {
			return 0
		}
		for i := 0; i < 3; i++ {
			va, vb := f[i], f[(i+1)%3]
			k := edgeKey(va, vb)
			sides[k] = append(sides[k], edgeSide{face: fi, opposite: f[(i+2)%3], forward: va == k[0]})
		}
	}
	m.connectivity()
	keys := make([][2]int, len(m.edges))
	copy(keys, m.edges)

	touched := make([]bool, len(m.faces))
	created := make(map[[2]int]bool)
	flips := 0
	for _, k := range keys {
		s := sides[k]
		if len(s) != 2 || s[0].forward == s[1].forward {
			continue
		}
		if touched[s[0].face] || touched[s[1].face] {
			continue
		}
		fwd, rev := s[0], s[1]
		if !fwd.forward {
			fwd, rev = rev, fwd
		}
		a, b := fwd.opposite, rev.opposite
		if a == b {
			continue
		}
		diag := edgeKey(a, b)
		if _, exists := sides[diag]; exists || created[diag] {
			continue
		}
		c, d := k[0], k[1]
		if !shouldRotate(m.verts[a], m.verts[b], m.verts[c], m.verts[d]) {
			continue
		}
		m.faces[fwd.face] = []int{a, c, b}
		m.faces[rev.face] = []int{b, d, a}
		touched[fwd.face] = true
		touched[rev.face] = true
		created[diag] = true
		flips++
	}
	if flips > 0 {
		m.dirty = true
	}
	return flips
}

// shouldRotate reports whether the shared edge c-d of the triangle pair
// (c,d,a) and (d,c,b) should be rotated to a-b. True when the angles at a
// and b sum to more than pi, the planar in-circle criterion, and both
// rotated triangles (a,c,b) and (b,d,a) keep the pair's orientation, which
// rules out rotations across a reflex quad.
func shouldRotate(a, b, c, d r3.Vec) bool {
	u1, v1 := r3.Sub(c, a), r3.Sub(d, a)
	u2, v2 := r3.Sub(d, b), r3.Sub(c, b)
	n1 := r3.Norm(u1) * r3.Norm(v1)
	n2 := r3.Norm(u2) * r3.Norm(v2)
	if n1 == 0 || n2 == 0 {
		return false
	}
	cosA, sinA := r3.Dot(u1, v1)/n1, r3.Norm(r3.Cross(u1, v1))/n1
	cosB, sinB := r3.Dot(u2, v2)/n2, r3.Norm(r3.Cross(u2, v2))/n2
	// sin(A+B) < 0 iff A+B > pi. The margin keeps borderline quads, whose
	// two diagonals are equally good, from rotating back and forth.
	if sinA*cosB+cosA*sinB >= -1e-12 {
		return false
	}
	n := r3.Cross(r3.Sub(d, c), r3.Sub(a, c))
	t1 := r3.Cross(r3.Sub(c, a), r3.Sub(b, a))
	t2 := r3.Cross(r3.Sub(d, b), r3.Sub(a, b))
	return r3.Dot(t1, n) > 0 && r3.Dot(t2, n) > 0
}

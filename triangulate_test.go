package trimesh_test

import (
	"math"
	"testing"

	"github.com/soypat/trimesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestEarClipConvex(t *testing.T) {
	// Regular hexagon.
	var pos []r3.Vec
	var loop []int
	for i := 0; i < 6; i++ {
		a := 2 * math.Pi * float64(i) / 6
		pos = append(pos, r3.Vec{X: math.Cos(a), Y: math.Sin(a)})
		loop = append(loop, i)
	}
	tris, err := trimesh.EarClip{}.Triangulate(pos, loop)
	if err != nil {
		t.Fatal(err)
	}
	checkTriangulation(t, pos, loop, tris)
}

func TestEarClipCollinear(t *testing.T) {
	// A triangle whose edges carry collinear subdivision points, as produced
	// by boundary subdivision. Clipping must not strand a zero-area
	// remainder polygon.
	pos := []r3.Vec{
		{X: 0, Y: 0},
		{X: 4, Y: 0},
		{X: 2, Y: 3},
	}
	loop := []int{0}
	for i := 1; i <= 3; i++ {
		pos = append(pos, r3.Vec{X: float64(i), Y: 0})
		loop = append(loop, len(pos)-1)
	}
	loop = append(loop, 1)
	for i := 1; i <= 2; i++ {
		s := float64(i) / 3
		pos = append(pos, r3.Vec{X: 4 + s*(2-4), Y: s * 3})
		loop = append(loop, len(pos)-1)
	}
	loop = append(loop, 2)
	tris, err := trimesh.EarClip{}.Triangulate(pos, loop)
	if err != nil {
		t.Fatal(err)
	}
	checkTriangulation(t, pos, loop, tris)
}

func TestEarClipReversedWinding(t *testing.T) {
	pos := []r3.Vec{
		{X: 0, Y: 0},
		{X: 0, Y: 1},
		{X: 1, Y: 1},
		{X: 1, Y: 0},
	}
	loop := []int{0, 1, 2, 3} // clockwise square
	tris, err := trimesh.EarClip{}.Triangulate(pos, loop)
	if err != nil {
		t.Fatal(err)
	}
	checkTriangulation(t, pos, loop, tris)
}

func TestEarClipDegenerate(t *testing.T) {
	pos := []r3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	if _, err := (trimesh.EarClip{}).Triangulate(pos, []int{0, 1, 2, 3}); err == nil {
		t.Error("expected error for zero-area polygon")
	}
	if _, err := (trimesh.EarClip{}).Triangulate(pos, []int{0, 1}); err == nil {
		t.Error("expected error for loop with fewer than 3 vertices")
	}
}

func hasEdge(m *trimesh.Mesh, a, b int) bool {
	for _, k := range m.Edges() {
		if (k[0] == a && k[1] == b) || (k[0] == b && k[1] == a) {
			return true
		}
	}
	return false
}

func TestTriangulateRotatesSliverEdge(t *testing.T) {
	// Two slivers sharing the long edge 0-1. The angles opposite that edge
	// sum to well over pi, so triangulation must rotate the shared edge to
	// 2-3, leaving two well-shaped triangles.
	m := trimesh.NewMesh([]r3.Vec{
		{X: -1, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 0.2},
		{X: 0, Y: -0.2},
	}, [][]int{{0, 1, 2}, {1, 0, 3}})
	if err := m.Triangulate(trimesh.EarClip{}); err != nil {
		t.Fatal(err)
	}
	if hasEdge(m, 0, 1) {
		t.Error("sliver edge 0-1 was not rotated")
	}
	if !hasEdge(m, 2, 3) {
		t.Error("rotated edge 2-3 is missing")
	}
	if got := m.NumFaces(); got != 2 {
		t.Errorf("face count = %d, want 2", got)
	}
	if got := m.BoundaryEdgeCount(); got != 4 {
		t.Errorf("boundary edge count = %d, want 4", got)
	}
}

func TestTriangulateKeepsDelaunayPair(t *testing.T) {
	// A square split along one diagonal already satisfies the Delaunay
	// criterion; the opposite angles sum to exactly pi and the pair must be
	// left alone.
	m := trimesh.NewMesh([]r3.Vec{
		{X: -1, Y: 0},
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: 0, Y: -1},
	}, [][]int{{0, 1, 2}, {1, 0, 3}})
	if err := m.Triangulate(trimesh.EarClip{}); err != nil {
		t.Fatal(err)
	}
	if !hasEdge(m, 0, 1) {
		t.Error("borderline diagonal 0-1 must not rotate")
	}
}

// checkTriangulation verifies triangle count and that the triangle areas sum
// to the polygon area.
func checkTriangulation(t *testing.T, pos []r3.Vec, loop []int, tris [][3]int) {
	t.Helper()
	if got, want := len(tris), len(loop)-2; got != want {
		t.Fatalf("triangle count = %d, want %d", got, want)
	}
	var polyNormal r3.Vec
	for i, vi := range loop {
		vj := loop[(i+1)%len(loop)]
		polyNormal = r3.Add(polyNormal, r3.Cross(pos[vi], pos[vj]))
	}
	polyArea := 0.5 * r3.Norm(polyNormal)
	var sum float64
	for _, tri := range tris {
		e1 := r3.Sub(pos[tri[1]], pos[tri[0]])
		e2 := r3.Sub(pos[tri[2]], pos[tri[0]])
		sum += 0.5 * r3.Norm(r3.Cross(e1, e2))
	}
	if math.Abs(sum-polyArea) > 1e-9*math.Max(1, polyArea) {
		t.Errorf("triangle areas sum to %g, polygon area is %g", sum, polyArea)
	}
}

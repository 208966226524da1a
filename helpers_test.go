package trimesh_test

import (
	"math"

	"github.com/soypat/trimesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// triangularGrid builds a perfectly uniform triangular lattice with n unit
// segments per side. Interior vertices all have valence 6 and every face has
// the same area.
func triangularGrid(n int) *trimesh.Mesh {
	rowStart := make([]int, n+2)
	var verts []r3.Vec
	for i := 0; i <= n; i++ {
		rowStart[i] = len(verts)
		for j := 0; j <= n-i; j++ {
			verts = append(verts, r3.Vec{
				X: float64(j) + float64(i)/2,
				Y: float64(i) * math.Sqrt(3) / 2,
			})
		}
	}
	rowStart[n+1] = len(verts)
	at := func(i, j int) int { return rowStart[i] + j }
	var faces [][]int
	for i := 0; i < n; i++ {
		for j := 0; j < n-i; j++ {
			faces = append(faces, []int{at(i, j), at(i, j+1), at(i+1, j)})
			if j < n-i-1 {
				faces = append(faces, []int{at(i, j+1), at(i+1, j+1), at(i+1, j)})
			}
		}
	}
	return trimesh.NewMesh(verts, faces)
}

// tetrahedron is a closed mesh: every edge borders two faces, so it has no
// boundary at all.
func tetrahedron() *trimesh.Mesh {
	return trimesh.NewMesh([]r3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}, [][]int{
		{0, 1, 2},
		{0, 3, 1},
		{0, 2, 3},
		{1, 3, 2},
	})
}

// Package render persists generated triangle meshes in formats external
// tools understand. It speaks the plain mesh buffer contract of the core:
// a vertex position array and a triangular face index array.
package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle defined by its corner positions.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the triangle's unit normal following right hand rule
// winding.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Area returns the triangle's area.
func (t Triangle3) Area() float64 {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return 0.5 * r3.Norm(r3.Cross(e1, e2))
}

// MeshTriangles converts a mesh buffer to renderable triangles.
func MeshTriangles(vertices []r3.Vec, faces [][3]int) []Triangle3 {
	model := make([]Triangle3, len(faces))
	for i, f := range faces {
		model[i] = Triangle3{V: [3]r3.Vec{vertices[f[0]], vertices[f[1]], vertices[f[2]]}}
	}
	return model
}

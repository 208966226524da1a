package trimesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Seed triangle corners. The ratio fit rescales these towards the requested
// edge proportions before boundary subdivision.
var seedCorners = [3]r3.Vec{
	{X: -1, Y: -1},
	{X: 1, Y: -1},
	{X: 0, Y: 1},
}

// seedEdges lists the three original edges in construction order: edge 0
// carries cutsA, edge 1 cutsB, edge 2 cutsC.
var seedEdges = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

// fitIterations is a fixed cap for the edge-ratio fit. Edges
// share vertices so scaling one perturbs its neighbors; the fit converges in
// practice well before this cap but is not an exact solve.
const fitIterations = 100

// BuildTriangle constructs the initial triangle domain for one remesh run.
// The triangle's edge lengths are fitted to the ratios
// (cuts+1)/(maxCuts+1) and each original edge is then subdivided into
// exactly cuts+1 equal segments. The subdivision counts encode the caller's
// request and are preserved by all later remeshing stages.
//
// The returned reference length is the minimum edge length right after
// boundary subdivision, before triangulation; every remesh and quality
// threshold is scaled against it. Zero cuts are valid and leave the
// corresponding edge unsubdivided.
func BuildTriangle(cutsA, cutsB, cutsC, maxCuts int, tr Triangulator) (*Mesh, float64, error) {
	verts := make([]r3.Vec, 3)
	copy(verts, seedCorners[:])
	m := NewMesh(verts, [][]int{{0, 1, 2}})

	norm := float64(maxCuts + 1)
	targets := [3]float64{
		float64(cutsA+1) / norm,
		float64(cutsB+1) / norm,
		float64(cutsC+1) / norm,
	}
	for i := 0; i < fitIterations; i++ {
		for e, edge := range seedEdges {
			l := r3.Norm(r3.Sub(m.verts[edge[0]], m.verts[edge[1]]))
			s := targets[e] / l
			// Uniform scale of both endpoints about the origin.
			m.verts[edge[0]] = r3.Scale(s, m.verts[edge[0]])
			m.verts[edge[1]] = r3.Scale(s, m.verts[edge[1]])
		}
	}

	for e, cuts := range [3]int{cutsA, cutsB, cutsC} {
		m.splitEdge(seedEdges[e][0], seedEdges[e][1], cuts)
	}

	ref := math.MaxFloat64
	for e := range m.Edges() {
		ref = math.Min(ref, m.EdgeLength(e))
	}
	if err := m.Triangulate(tr); err != nil {
		return m, ref, err
	}
	return m, ref, nil
}

package trimesh

import (
	"errors"
	"fmt"
)

// Fixed iteration caps for the remesh fixed-point loop. The caps bound
// runtime deterministically; hitting one without convergence is not itself a
// failure.
const (
	maxRounds          = 100
	maxInnerIterations = 100
)

// Thresholds relative to the reference edge length.
const (
	refineFactor = 1.2 // interior edges longer than this are split
	weldFactor   = 0.6 // interior vertices closer than this are merged
)

// ErrCorruptTopology reports that a refine or weld pass changed the number
// of boundary edges, which must stay fixed for the whole remesh. The mesh is
// left in its partially remeshed state for inspection.
var ErrCorruptTopology = errors.New("trimesh: boundary edge count changed during remesh")

// Remesher drives the subdivide/weld/relax/retriangulate loop towards
// uniform interior edge lengths. The zero value is ready to use.
type Remesher struct {
	// Triangulator restores the all-triangles invariant after each topology
	// change. EarClip is used when nil.
	Triangulator Triangulator
}

func (r *Remesher) triangulator() Triangulator {
	if r.Triangulator == nil {
		return EarClip{}
	}
	return r.Triangulator
}

// Remesh runs the isotropic remeshing loop on m with reference edge length
// refLen until no pass modifies the mesh or the iteration caps are reached.
// It returns ErrCorruptTopology if the boundary edge count changes, leaving
// the partial mesh intact. The boundary subdivision itself is never touched:
// only interior edges are refined and only interior vertices are collapsed
// or relaxed. Vertices closer than the merge distance collapse one short
// edge at a time across the inner iterations, so chains of close vertices
// still end up merged without the tearing a transitive weld can cause.
func (r *Remesher) Remesh(m *Mesh, refLen float64) error {
	tr := r.triangulator()
	boundaryEdges := m.BoundaryEdgeCount()

	for round := 0; round < maxRounds; round++ {
		modified := false

		var long [][2]int
		for e, k := range m.Edges() {
			if !m.IsBoundaryEdge(e) && m.EdgeLength(e) > refineFactor*refLen {
				long = append(long, k)
			}
		}
		if len(long) > 0 {
			m.SubdivideEdges(long, 1)
			if err := m.Triangulate(tr); err != nil {
				return err
			}
			if m.BoundaryEdgeCount() != boundaryEdges {
				return ErrCorruptTopology
			}
			modified = true
		}

		for it := 0; it < maxInnerIterations; it++ {
			before := m.NumVertices()
			m.collapseShortPass(m.InteriorVertices(), weldFactor*refLen)
			if err := m.Triangulate(tr); err != nil {
				return err
			}
			if m.BoundaryEdgeCount() != boundaryEdges {
				return ErrCorruptTopology
			}
			m.Relax(1, 1)
			if m.NumVertices() == before {
				break
			}
			modified = true
		}

		if !modified {
			break
		}
	}

	// Cleanup: keep collapsing and relaxing until the vertex count settles.
	// This pass intentionally performs no boundary check.
	for it := 0; it < maxInnerIterations; it++ {
		before := m.NumVertices()
		m.collapseShortPass(m.InteriorVertices(), weldFactor*refLen)
		if err := m.Triangulate(tr); err != nil {
			return err
		}
		m.Relax(1, 1)
		if m.NumVertices() == before {
			break
		}
	}
	return nil
}

// Result is the outcome of generating one remeshed triangle.
type Result struct {
	// Mesh is the generated mesh. It is also populated when Failed is true
	// so callers can inspect what went wrong.
	Mesh *Mesh
	// Cuts are the requested boundary subdivision counts.
	Cuts [3]int
	// Failed reports topology corruption or any quality violation. A failed
	// mesh must not be accepted automatically.
	Failed bool
	// Reasons holds one entry per violated quality constraint. It is empty
	// for corruption failures, which abort before the quality checks run.
	Reasons []string
}

// Name returns the display name convention for the generated mesh:
// Triangle_a_b_c, with a .failed suffix when the result failed.
func (r Result) Name() string {
	name := fmt.Sprintf("Triangle_%d_%d_%d", r.Cuts[0], r.Cuts[1], r.Cuts[2])
	if r.Failed {
		name += ".failed"
	}
	return name
}

// Generate runs the full pipeline for one cut triple: triangle construction
// with edge-ratio fitting, isotropic remeshing and quality validation.
// maxCuts is the largest cut count used across the calling batch and only
// normalizes the edge-ratio targets.
func Generate(cutsA, cutsB, cutsC, maxCuts int) Result {
	var rm Remesher
	return rm.Generate(cutsA, cutsB, cutsC, maxCuts)
}

// Generate is like the package-level Generate using r's triangulator.
func (r *Remesher) Generate(cutsA, cutsB, cutsC, maxCuts int) Result {
	res := Result{Cuts: [3]int{cutsA, cutsB, cutsC}}
	m, refLen, err := BuildTriangle(cutsA, cutsB, cutsC, maxCuts, r.triangulator())
	res.Mesh = m
	if err == nil {
		err = r.Remesh(m, refLen)
	}
	if err != nil {
		res.Failed = true
		return res
	}
	res.Reasons = Validate(m, refLen)
	res.Failed = len(res.Reasons) > 0
	return res
}

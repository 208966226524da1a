package trimesh

import (
	"fmt"
	"math"
)

// Quality thresholds relative to the reference edge length.
const (
	shortEdgeFactor = 0.3 // boundary-adjacent edges must not be shorter
	longEdgeFactor  = 1.3 // interior edges must not be longer
	poleDegree      = 3   // interior vertices with this degree or less fail
	minAreaRatio    = 0.1 // min/max face area must not fall below
)

// Validate inspects a converged mesh against the quality constraints and
// returns one human-readable reason per violated constraint. All checks are
// evaluated independently; an empty result means the mesh passed.
//
// The short-edge check applies to edges with exactly one endpoint on the
// boundary while the long-edge check applies to any non-boundary edge. The
// asymmetry is deliberate and must not be unified.
func Validate(m *Mesh, refLen float64) []string {
	var reasons []string

	short, long := 0, 0
	for e, k := range m.Edges() {
		l := m.EdgeLength(e)
		if m.IsBoundaryVertex(k[0]) != m.IsBoundaryVertex(k[1]) && l < shortEdgeFactor*refLen {
			short++
		}
		if !m.IsBoundaryEdge(e) && l > longEdgeFactor*refLen {
			long++
		}
	}
	if short > 0 {
		reasons = append(reasons, fmt.Sprintf("short edge constraint: %d boundary-adjacent edge(s) shorter than %.3g", short, shortEdgeFactor*refLen))
	}
	if long > 0 {
		reasons = append(reasons, fmt.Sprintf("long edge constraint: %d interior edge(s) longer than %.3g", long, longEdgeFactor*refLen))
	}

	poles := 0
	for v := 0; v < m.NumVertices(); v++ {
		if !m.IsBoundaryVertex(v) && m.VertexDegree(v) <= poleDegree {
			poles++
		}
	}
	if poles > 0 {
		reasons = append(reasons, fmt.Sprintf("pole constraint: %d interior vertex(es) with %d or fewer edges", poles, poleDegree))
	}

	if m.NumFaces() > 0 {
		minArea, maxArea := math.MaxFloat64, 0.0
		for f := 0; f < m.NumFaces(); f++ {
			a := m.FaceArea(f)
			minArea = math.Min(minArea, a)
			maxArea = math.Max(maxArea, a)
		}
		if maxArea > 0 && minArea/maxArea < minAreaRatio {
			reasons = append(reasons, fmt.Sprintf("area constraint: min/max face area ratio %.3g below %g", minArea/maxArea, minAreaRatio))
		}
	}
	return reasons
}

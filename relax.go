package trimesh

import "gonum.org/v1/gonum/spatial/r3"

// Relax applies iterations of Laplacian smoothing to all interior vertices.
// Each iteration moves every non-boundary vertex with at least one incident
// edge towards the arithmetic mean of its one-hop neighbors:
//
//	new = current + factor*(mean - current)
//
// Neighbor means are computed from a snapshot of the positions as they stood
// at the start of the iteration; updates are applied only after the full
// pass. Boundary vertices are never moved. factor must be in [0,1], where 1
// snaps fully onto the neighbor mean.
func (m *Mesh) Relax(iterations int, factor float64) {
	if factor < 0 || factor > 1 {
		panic("trimesh: relax factor must be in [0,1]")
	}
	m.connectivity()
	staged := make([]r3.Vec, len(m.verts))
	for it := 0; it < iterations; it++ {
		moved := staged[:0]
		var which []int
		for v := range m.verts {
			if m.boundary[v] || len(m.adjacent[v]) == 0 {
				continue
			}
			var sum r3.Vec
			for _, n := range m.adjacent[v] {
				sum = r3.Add(sum, m.verts[n])
			}
			mean := r3.Scale(1/float64(len(m.adjacent[v])), sum)
			p := m.verts[v]
			moved = append(moved, r3.Add(p, r3.Scale(factor, r3.Sub(mean, p))))
			which = append(which, v)
		}
		for i, v := range which {
			m.verts[v] = moved[i]
		}
	}
}

package trimesh_test

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRelaxPinsBoundary(t *testing.T) {
	m := triangularGrid(4)
	var before []r3.Vec
	for v := 0; v < m.NumVertices(); v++ {
		before = append(before, m.Position(v))
	}
	// Perturb interior vertices so relaxation has work to do.
	for _, v := range m.InteriorVertices() {
		p := m.Position(v)
		m.SetPosition(v, r3.Add(p, r3.Vec{X: 0.1, Y: -0.05}))
	}
	m.Relax(5, 0.7)
	for v := 0; v < m.NumVertices(); v++ {
		if m.IsBoundaryVertex(v) && r3.Norm(r3.Sub(m.Position(v), before[v])) != 0 {
			t.Errorf("boundary vertex %d moved from %v to %v", v, before[v], m.Position(v))
		}
	}
}

func TestRelaxZeroFactorIsIdentity(t *testing.T) {
	m := triangularGrid(3)
	var before []r3.Vec
	for v := 0; v < m.NumVertices(); v++ {
		before = append(before, m.Position(v))
	}
	m.Relax(10, 0)
	for v := 0; v < m.NumVertices(); v++ {
		if m.Position(v) != before[v] {
			t.Fatalf("vertex %d moved with factor 0", v)
		}
	}
}

func TestRelaxSnapshotDiscipline(t *testing.T) {
	// The three interior vertices of this lattice are mutual neighbors, so a
	// sequential (Gauss-Seidel) update would feed already-moved positions
	// into later vertices. Verify each update only saw pre-iteration state.
	m := triangularGrid(4)
	interior := m.InteriorVertices()
	if len(interior) != 3 {
		t.Fatalf("interior vertex count = %d, want 3", len(interior))
	}
	for i, v := range interior {
		p := m.Position(v)
		m.SetPosition(v, r3.Add(p, r3.Vec{X: 0.2 * float64(i+1), Y: 0.1}))
	}
	want := make(map[int]r3.Vec)
	for _, v := range interior {
		var sum r3.Vec
		neighbors := m.Neighbors(v)
		for _, n := range neighbors {
			sum = r3.Add(sum, m.Position(n))
		}
		want[v] = r3.Scale(1/float64(len(neighbors)), sum)
	}
	m.Relax(1, 1)
	for _, v := range interior {
		if r3.Norm(r3.Sub(m.Position(v), want[v])) > 1e-12 {
			t.Errorf("vertex %d = %v, want snapshot mean %v", v, m.Position(v), want[v])
		}
	}
}

func TestRelaxBadFactorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for factor outside [0,1]")
		}
	}()
	triangularGrid(2).Relax(1, 1.5)
}

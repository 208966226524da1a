package render_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/hschendel/stl"
	"github.com/soypat/trimesh"
	"github.com/soypat/trimesh/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func generatedModel(t *testing.T) []render.Triangle3 {
	t.Helper()
	res := trimesh.Generate(1, 1, 1, 1)
	verts, faces, err := res.Mesh.Buffers()
	if err != nil {
		t.Fatal(err)
	}
	return render.MeshTriangles(verts, faces)
}

func TestSTLWriteReadRoundTrip(t *testing.T) {
	model := generatedModel(t)
	var b bytes.Buffer
	if err := render.WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	got, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("triangle count = %d, want %d", len(got), len(model))
	}
	const tol = 1e-6 // STL stores float32
	for i := range got {
		for j := 0; j < 3; j++ {
			if r3.Norm(r3.Sub(got[i].V[j], model[i].V[j])) > tol {
				t.Fatalf("triangle %d vertex %d = %v, want %v", i, j, got[i].V[j], model[i].V[j])
			}
		}
	}
}

func TestSTLEmptyModel(t *testing.T) {
	var b bytes.Buffer
	if err := render.WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}

func TestCreateSTLExternalReader(t *testing.T) {
	model := generatedModel(t)
	path := filepath.Join(t.TempDir(), "triangle.stl")
	if err := render.CreateSTL(path, model); err != nil {
		t.Fatal(err)
	}
	solid, err := stl.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(solid.Triangles) != len(model) {
		t.Fatalf("external reader triangle count = %d, want %d", len(solid.Triangles), len(model))
	}
}

func TestMeshTriangles(t *testing.T) {
	verts := []r3.Vec{{X: 0}, {X: 1}, {Y: 1}}
	model := render.MeshTriangles(verts, [][3]int{{0, 1, 2}})
	if len(model) != 1 {
		t.Fatalf("model length = %d", len(model))
	}
	if got := model[0].Area(); got < 0.5-1e-12 || got > 0.5+1e-12 {
		t.Errorf("area = %g, want 0.5", got)
	}
	n := model[0].Normal()
	if r3.Norm(r3.Sub(n, r3.Vec{Z: 1})) > 1e-12 {
		t.Errorf("normal = %v, want +Z", n)
	}
}

package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/host"
	"github.com/chazu/famdef/pkg/host/memhost"
	"github.com/chazu/famdef/pkg/kernel"
	"github.com/chazu/famdef/pkg/kernel/sdfx"
	"github.com/chazu/famdef/pkg/rebuild"
	"github.com/chazu/famdef/pkg/tessellate"
)

const cells = 40

func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(cells)
}

func rebuilt(t *testing.T) *memhost.Document {
	t.Helper()
	f := family.New()
	f.Parameters = []family.ParameterData{{Name: "p", Value: 250, Type: family.TypeLength}}
	f.Extrusion = family.ExtrusionData{
		ProfilePoints: []family.Point2D{
			{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 600}, {X: 0, Y: 600},
		},
		DepthParameter: "p",
	}
	doc := memhost.New()
	if _, err := rebuild.Rebuild(doc, f, rebuild.DefaultOptions()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return doc
}

func TestDocumentMeshExtent(t *testing.T) {
	meshes, err := tessellate.Document(rebuilt(t), newKernel())
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.Name == "" {
		t.Error("mesh has no name")
	}

	tol := 1000.0 / cells
	min, max := m.Bounds()
	wantMin := [3]float64{0, 0, 0}
	wantMax := [3]float64{1000, 600, 250}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestDocumentFollowsDepthParameter(t *testing.T) {
	doc := rebuilt(t)
	p, ok := doc.Parameter("p")
	if !ok {
		t.Fatal("parameter p missing")
	}
	if err := doc.SetValue(p, 500/304.8); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	solids := doc.Solids()
	if len(solids) != 1 {
		t.Fatalf("expected 1 solid, got %d", len(solids))
	}
	m, err := tessellate.Solid(solids[0], newKernel())
	if err != nil {
		t.Fatalf("Solid failed: %v", err)
	}
	_, max := m.Bounds()
	if math.Abs(max[2]-500) > 1000.0/cells {
		t.Errorf("max z = %f, expected ~500", max[2])
	}
}

func TestDocumentTranslatesByPlaneOrigin(t *testing.T) {
	doc := memhost.New()
	plane, err := doc.NewSketchPlane(host.BasisZ, host.XYZ{Z: 1})
	if err != nil {
		t.Fatalf("NewSketchPlane failed: %v", err)
	}
	pts := []host.XYZ{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	loop := make([]host.Line, len(pts))
	for i := range pts {
		loop[i] = host.Line{Start: pts[i], End: pts[(i+1)%len(pts)]}
	}
	if _, err := doc.NewExtrusion(true, loop, plane, 1); err != nil {
		t.Fatalf("NewExtrusion failed: %v", err)
	}

	meshes, err := tessellate.Document(doc, newKernel())
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	min, _ := meshes[0].Bounds()
	if math.Abs(min[2]-304.8) > 304.8/cells {
		t.Errorf("min z = %f, expected ~304.8", min[2])
	}
}

func TestDocumentSkipsVoids(t *testing.T) {
	doc := memhost.New()
	plane, _ := doc.NewSketchPlane(host.BasisZ, host.Origin)
	pts := []host.XYZ{{}, {X: 1}, {Y: 1}}
	loop := make([]host.Line, len(pts))
	for i := range pts {
		loop[i] = host.Line{Start: pts[i], End: pts[(i+1)%len(pts)]}
	}
	if _, err := doc.NewExtrusion(false, loop, plane, 1); err != nil {
		t.Fatalf("NewExtrusion failed: %v", err)
	}
	meshes, err := tessellate.Document(doc, newKernel())
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}
}

func TestNilDocument(t *testing.T) {
	meshes, err := tessellate.Document(nil, newKernel())
	if err == nil {
		t.Fatal("expected error for nil document")
	}
	if meshes != nil {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}
}

// Package tessellate meshes the extrusions of a reference host document
// through a geometry kernel. One mesh is produced per solid extrusion, in
// millimetres. Documents are read-only here.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/famdef/pkg/host"
	"github.com/chazu/famdef/pkg/host/memhost"
	"github.com/chazu/famdef/pkg/kernel"
	"github.com/chazu/famdef/pkg/units"
)

// Document meshes every solid extrusion of doc. Void extrusions are
// skipped.
func Document(doc *memhost.Document, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if doc == nil {
		return nil, errors.New("tessellate: document is nil")
	}
	var meshes []*kernel.Mesh
	for _, s := range doc.Solids() {
		if !s.IsSolid {
			continue
		}
		m, err := Solid(s, k)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Solid meshes one extrusion. The mesh is named after the element ID.
func Solid(s memhost.Solid, k kernel.Kernel) (*kernel.Mesh, error) {
	profile := make([]kernel.Vec2, 0, len(s.Profile))
	for i, p := range s.Profile {
		x, y, err := toMM(p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: extrusion %d vertex %d: %w", s.ID, i, err)
		}
		profile = append(profile, kernel.Vec2{X: x, Y: y})
	}
	depth, err := units.ToMillimeters(s.Depth)
	if err != nil {
		return nil, fmt.Errorf("tessellate: extrusion %d depth: %w", s.ID, err)
	}

	solid, err := k.Extrude(profile, depth)
	if err != nil {
		return nil, fmt.Errorf("tessellate: extrusion %d: %w", s.ID, err)
	}

	if s.Origin != host.Origin {
		ox, oy, err := toMM(s.Origin)
		if err != nil {
			return nil, fmt.Errorf("tessellate: extrusion %d origin: %w", s.ID, err)
		}
		oz, err := units.ToMillimeters(s.Origin.Z)
		if err != nil {
			return nil, fmt.Errorf("tessellate: extrusion %d origin: %w", s.ID, err)
		}
		solid = k.Translate(solid, ox, oy, oz)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for extrusion %d: %w", s.ID, err)
	}
	mesh.Name = fmt.Sprintf("extrusion-%d", s.ID)
	return mesh, nil
}

func toMM(p host.XYZ) (x, y float64, err error) {
	if x, err = units.ToMillimeters(p.X); err != nil {
		return 0, 0, err
	}
	if y, err = units.ToMillimeters(p.Y); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// Package kernel defines the abstract geometry kernel used to turn a
// family's extrusion into a solid and a triangle mesh. Lengths are in mm.
package kernel

// Vec2 is a profile vertex.
type Vec2 struct {
	X, Y float64
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and meshes solids.
type Kernel interface {
	// Extrude sweeps a closed polygon along +Z so that the solid spans
	// z in [0, depth]. The last vertex connects back to the first.
	Extrude(profile []Vec2, depth float64) (Solid, error)

	Translate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}

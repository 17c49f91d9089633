package host

// Document is write access to an empty family document, used by
// reconstruction.
type Document interface {
	// Parameter looks up an existing family parameter by name.
	Parameter(name string) (FamilyParameter, bool)
	AddParameter(name string, group ParameterGroup, spec SpecTypeID) (FamilyParameter, error)
	// HasCurrentType reports whether the document has a current type to
	// hold parameter values.
	HasCurrentType() bool
	// SetValue assigns a value, in internal units, on the current type.
	SetValue(p FamilyParameter, value float64) error

	NewSketchPlane(normal, origin XYZ) (SketchPlane, error)
	NewModelCurve(l Line, plane SketchPlane) (CurveRef, error)
	// NewExtrusion builds a solid (or void) extrusion from one closed loop.
	NewExtrusion(solid bool, loop []Line, plane SketchPlane, depth float64) (ExtrusionHandle, error)
	// BindDepth drives the extrusion's end depth from p through a formula
	// reference to p's name.
	BindDepth(ext ExtrusionHandle, p FamilyParameter) error

	Views() []View
	NewDimension(view View, l Line, refs []CurveRef) (DimensionHandle, error)
}

// FamilyParameter is a parameter handle in the target document.
type FamilyParameter interface {
	Name() string
}

// SketchPlane is a work plane that hosts profile curves.
type SketchPlane interface {
	Normal() XYZ
	Origin() XYZ
}

// CurveRef is a created model curve that dimensions can reference.
type CurveRef interface {
	ID() ElementID
	// Geometry returns the curve as a line, false if it is not one.
	Geometry() (Line, bool)
}

// ExtrusionHandle is a created extrusion.
type ExtrusionHandle interface {
	ID() ElementID
	// EndDepth returns the current end depth in internal units.
	EndDepth() float64
}

// View is a host view that can host annotations.
type View interface {
	Name() string
	Kind() ViewKind
	IsTemplate() bool
}

// DimensionHandle is a created dimension.
type DimensionHandle interface {
	ID() ElementID
	SegmentCount() int
	SetLabel(p FamilyParameter) error
	SetSegmentsEqual(equal bool) error
}

// Transactor opens atomic units of work on a document.
type Transactor interface {
	Begin(name string) (Transaction, error)
}

// Transaction is an all-or-nothing unit of work.
type Transaction interface {
	Commit() error
	RollBack() error
}

// TransactionalDocument is a Document that supports transactions.
type TransactionalDocument interface {
	Document
	Transactor
}

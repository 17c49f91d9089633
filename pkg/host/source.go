package host

// Source is read access to an open family document, used by extraction.
// The engine is handed the Source explicitly; it never looks up an
// "active" document.
type Source interface {
	// Parameters returns the family parameters in host order.
	Parameters() []Parameter
	// Extrusions returns every extrusion feature, in host order.
	Extrusions() []Extrusion
	// Dimensions returns the dimension annotations, possibly none.
	Dimensions() []Dimension
}

// Parameter is a host family parameter as seen by extraction.
type Parameter interface {
	Name() string
	// Value returns the current type's value, false if it has none.
	// Lengths are in internal units.
	Value() (float64, bool)
	// DataType returns the declared data kind. An error means the kind
	// cannot be determined.
	DataType() (SpecTypeID, error)
}

// Extrusion is a single-profile extrusion feature.
type Extrusion interface {
	ID() ElementID
	// Profile returns the first closed curve loop of the sketch.
	Profile() ([]Curve, error)
	// DepthParameter returns the parameter driving the end depth, if any.
	DepthParameter() (string, bool)
}

// Curve is one edge of a sketch profile.
type Curve interface {
	StartPoint() (XYZ, error)
}

// Dimension is a dimension annotation as seen by extraction.
type Dimension interface {
	SegmentCount() int
	// Label returns the name of the parameter labelling the dimension.
	Label() (string, bool)
	References() ([]Reference, error)
	SegmentsEqual() bool
	// Curve returns the dimension line, false if the host has none.
	Curve() (Line, bool)
}

// Reference is one end of a dimension.
type Reference interface {
	// ElementLocation returns the location point of the referenced element
	// when it is a placed instance.
	ElementLocation() (XYZ, bool)
	// GlobalPoint returns the point where the reference was picked.
	GlobalPoint() (XYZ, bool)
}

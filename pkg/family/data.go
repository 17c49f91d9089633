package family

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// Point2D is a coordinate in the sketch plane, in mm.
type Point2D struct {
	X float64 `json:"X" yaml:"X"`
	Y float64 `json:"Y" yaml:"Y"`
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

// ParameterType classifies a parameter's data kind. Values outside the known
// set are opaque host type identifiers carried through verbatim.
type ParameterType string

const (
	TypeLength        ParameterType = "Length"
	TypeAngle         ParameterType = "Angle"
	TypeText          ParameterType = "Text"
	TypeMultilineText ParameterType = "MultilineText"
	TypeURL           ParameterType = "Url"
	TypeYesNo         ParameterType = "YesNo"
	TypeInteger       ParameterType = "Integer"
	TypeMaterial      ParameterType = "Material"
)

// Known reports whether t is one of the named parameter types.
func (t ParameterType) Known() bool {
	switch t {
	case TypeLength, TypeAngle, TypeText, TypeMultilineText, TypeURL,
		TypeYesNo, TypeInteger, TypeMaterial:
		return true
	default:
		return false
	}
}

// IsLength reports whether values of this type are lengths in mm.
func (t ParameterType) IsLength() bool {
	return t == TypeLength
}

// ParameterData describes one family parameter.
type ParameterData struct {
	Name  string        `json:"Name" yaml:"Name"`
	Value float64       `json:"Value" yaml:"Value"` // mm for Length, raw otherwise
	Type  ParameterType `json:"Type" yaml:"Type"`
}

// ---------------------------------------------------------------------------
// Extrusion
// ---------------------------------------------------------------------------

// ExtrusionData is the single extruded profile of the family.
// The profile is implicitly closed: the last point connects to the first.
type ExtrusionData struct {
	ProfilePoints  []Point2D `json:"ProfilePoints" yaml:"ProfilePoints"`
	DepthParameter string    `json:"DepthParameter,omitempty" yaml:"DepthParameter,omitempty"` // "" = absent
}

// Edge returns the i-th profile edge, wrapping the last point to the first.
func (e ExtrusionData) Edge(i int) (Point2D, Point2D) {
	n := len(e.ProfilePoints)
	return e.ProfilePoints[i], e.ProfilePoints[(i+1)%n]
}

// ---------------------------------------------------------------------------
// Constraints
// ---------------------------------------------------------------------------

// DimensionData is a linear dimension driven by the parameter named Label.
type DimensionData struct {
	Start Point2D `json:"Start" yaml:"Start"`
	End   Point2D `json:"End" yaml:"End"`
	Label string  `json:"Label" yaml:"Label"`
}

// Direction is the axis of an equalisation constraint.
type Direction string

const (
	Horizontal Direction = "Horizontal"
	Vertical   Direction = "Vertical"
)

// Valid reports whether d is Horizontal or Vertical.
func (d Direction) Valid() bool {
	return d == Horizontal || d == Vertical
}

// AlignmentData is an equal-distribution (EQ) constraint along one axis.
// It carries no geometric reference.
type AlignmentData struct {
	Direction Direction `json:"Direction" yaml:"Direction"`
	Equalize  bool      `json:"Equalize" yaml:"Equalize"`
}

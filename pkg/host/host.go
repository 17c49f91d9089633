// Package host defines the capabilities the interchange engine needs from a
// CAD host. Extraction reads through Source; reconstruction writes through
// Document. Host objects are only consulted transiently and never stored in
// the family model. All lengths crossing these interfaces are in the host's
// internal unit (feet).
package host

import (
	"fmt"
	"math"
)

// ElementID identifies a host element.
type ElementID int64

// XYZ is a point or vector in host space.
type XYZ struct {
	X, Y, Z float64
}

var (
	Origin = XYZ{}
	BasisX = XYZ{X: 1}
	BasisY = XYZ{Y: 1}
	BasisZ = XYZ{Z: 1}
)

// Add returns p + q.
func (p XYZ) Add(q XYZ) XYZ { return XYZ{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Sub returns p - q.
func (p XYZ) Sub(q XYZ) XYZ { return XYZ{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Scale returns p * s.
func (p XYZ) Scale(s float64) XYZ { return XYZ{p.X * s, p.Y * s, p.Z * s} }

// Length returns the Euclidean norm.
func (p XYZ) Length() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z) }

func (p XYZ) String() string { return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z) }

// Line is a bound straight segment.
type Line struct {
	Start, End XYZ
}

// Direction returns End - Start.
func (l Line) Direction() XYZ { return l.End.Sub(l.Start) }

// Length returns the segment length.
func (l Line) Length() float64 { return l.Direction().Length() }

// Midpoint returns the segment midpoint.
func (l Line) Midpoint() XYZ { return l.Start.Add(l.End).Scale(0.5) }

// SpecTypeID is the host's identifier for a parameter's data kind.
type SpecTypeID string

const (
	SpecLength        SpecTypeID = "autodesk.spec.aec:length-2.0.0"
	SpecAngle         SpecTypeID = "autodesk.spec.aec:angle-2.0.0"
	SpecText          SpecTypeID = "autodesk.spec:spec.string-2.0.0"
	SpecMultilineText SpecTypeID = "autodesk.spec.string:multilineText-2.0.0"
	SpecURL           SpecTypeID = "autodesk.spec.string:url-2.0.0"
	SpecYesNo         SpecTypeID = "autodesk.spec:spec.bool-1.0.0"
	SpecInteger       SpecTypeID = "autodesk.spec:spec.int64-2.0.0"
	SpecMaterial      SpecTypeID = "autodesk.spec.reference:material-1.0.0"
)

// ParameterGroup is the UI group a family parameter is filed under.
type ParameterGroup string

const (
	GroupConstraints ParameterGroup = "Constraints"
	GroupGeometry    ParameterGroup = "Geometry"
)

// ViewKind classifies a host view.
type ViewKind int

const (
	ViewFloorPlan ViewKind = iota
	ViewCeilingPlan
	ViewElevation
	ViewSection
	ViewThreeD
)

func (k ViewKind) String() string {
	switch k {
	case ViewFloorPlan:
		return "floor-plan"
	case ViewCeilingPlan:
		return "ceiling-plan"
	case ViewElevation:
		return "elevation"
	case ViewSection:
		return "section"
	case ViewThreeD:
		return "3d"
	default:
		return "unknown"
	}
}

package rebuild

import (
	"math"
	"slices"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
	"github.com/chazu/famdef/pkg/units"
)

// EdgeClass is the axis classification of a profile edge.
type EdgeClass int

const (
	Oblique EdgeClass = iota
	Horizontal
	Vertical
)

func (c EdgeClass) String() string {
	switch c {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "oblique"
	}
}

// ClassifyEdge reports whether l is horizontal (constant Y, varying X),
// vertical (constant X, varying Y) or neither. tol is in internal units.
func ClassifyEdge(l host.Line, tol float64) EdgeClass {
	dx := math.Abs(l.End.X - l.Start.X)
	dy := math.Abs(l.End.Y - l.Start.Y)
	switch {
	case dy <= tol && dx > tol:
		return Horizontal
	case dx <= tol && dy > tol:
		return Vertical
	default:
		return Oblique
	}
}

// ClassifyEdges splits edges into the horizontal group, sorted by minimum
// X, and the vertical group, sorted by minimum Y. Oblique edges are in
// neither. Sorting is stable.
func ClassifyEdges(edges []Edge, tol float64) (horizontal, vertical []Edge) {
	for _, e := range edges {
		switch ClassifyEdge(e.Line, tol) {
		case Horizontal:
			horizontal = append(horizontal, e)
		case Vertical:
			vertical = append(vertical, e)
		}
	}
	slices.SortStableFunc(horizontal, func(a, b Edge) int {
		return cmpFloat(minX(a.Line), minX(b.Line))
	})
	slices.SortStableFunc(vertical, func(a, b Edge) int {
		return cmpFloat(minY(a.Line), minY(b.Line))
	})
	return horizontal, vertical
}

func minX(l host.Line) float64 { return math.Min(l.Start.X, l.End.X) }
func minY(l host.Line) float64 { return math.Min(l.Start.Y, l.End.Y) }

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Dimension is a created dimension.
type Dimension struct {
	// Direction is the class of the edges it spans.
	Direction family.Direction
	Handle    host.DimensionHandle
	Line      host.Line
	From, To  Edge
	// Label is the bound parameter, empty if binding failed.
	Label     string
	Equalized bool
}

// dimensions dimensions the outermost horizontal and vertical edges on
// the first non-template floor plan. Profiles with fewer than four edges
// get no dimensions.
func (b *builder) dimensions() error {
	if len(b.res.Edges) < 4 {
		b.log.Debug("rebuild.dimensions_skipped", "edges", len(b.res.Edges))
		return nil
	}

	view, ok := floorPlan(b.doc.Views())
	if !ok {
		return fault.Errorf("rebuild.dimensions", fault.KindNoHostView,
			"no non-template floor plan view to host dimensions")
	}

	tol, err := units.ToInternalUnits(b.opts.ToleranceMM)
	if err != nil {
		tol = 0
	}
	offset, err := units.ToInternalUnits(b.opts.DimensionOffsetMM)
	if err != nil {
		return fault.New("rebuild.dimensions", fault.KindInvalidValue, "dimension offset", err)
	}

	edges := make([]Edge, 0, len(b.res.Edges))
	for _, e := range b.res.Edges {
		g, ok := e.Curve.Geometry()
		if !ok {
			continue
		}
		e.Line = g
		edges = append(edges, e)
	}
	horizontal, vertical := ClassifyEdges(edges, tol)
	b.log.Debug("rebuild.classified", "horizontal", len(horizontal), "vertical", len(vertical))

	if len(horizontal) >= 2 {
		if err := b.dimension(view, family.Horizontal, horizontal, host.BasisY, host.BasisX.Scale(offset)); err != nil {
			return err
		}
	}
	if len(vertical) >= 2 {
		if err := b.dimension(view, family.Vertical, vertical, host.BasisX, host.BasisY.Scale(-offset)); err != nil {
			return err
		}
	}
	return nil
}

// dimension spans the first and last edge of group with a line along dir,
// centred between their start points and moved by shift.
func (b *builder) dimension(view host.View, dirn family.Direction, group []Edge, dir, shift host.XYZ) error {
	first, last := group[0], group[len(group)-1]
	mid := first.Line.Start.Add(last.Line.Start).Scale(0.5).Add(shift)
	line := host.Line{
		Start: mid.Sub(dir.Scale(dimensionHalfLength)),
		End:   mid.Add(dir.Scale(dimensionHalfLength)),
	}

	h, err := b.doc.NewDimension(view, line, []host.CurveRef{first.Curve, last.Curve})
	if err != nil {
		return hostErr("dimensions", string(dirn)+" dimension", err)
	}
	dim := Dimension{Direction: dirn, Handle: h, Line: line, From: first, To: last}

	w, err := b.widthParameter()
	if err != nil {
		return err
	}
	if err := h.SetLabel(w); err != nil {
		b.diagnose(fault.KindParameterBinding, string(dirn)+" dimension label", err)
	} else {
		dim.Label = w.Name()
	}

	if dirn == family.Vertical && h.SegmentCount() > 1 {
		if err := h.SetSegmentsEqual(true); err != nil {
			b.diagnose(fault.KindParameterBinding, "vertical dimension EQ", err)
		} else {
			dim.Equalized = true
		}
	}

	b.res.Dimensions = append(b.res.Dimensions, dim)
	b.log.Debug("rebuild.dimension", "direction", dirn, "label", dim.Label, "equalized", dim.Equalized)
	return nil
}

// widthParameter finds or creates the parameter that labels dimensions.
func (b *builder) widthParameter() (host.FamilyParameter, error) {
	name := b.opts.WidthParameter
	if p, ok := b.res.Parameters[name]; ok {
		return p, nil
	}
	p, ok := b.doc.Parameter(name)
	if !ok {
		var err error
		p, err = b.doc.AddParameter(name, host.GroupGeometry, host.SpecLength)
		if err != nil {
			return nil, hostErr("dimensions", "parameter "+name, err)
		}
	}
	b.res.Parameters[name] = p
	return p, nil
}

// floorPlan returns the first non-template floor plan.
func floorPlan(views []host.View) (host.View, bool) {
	for _, v := range views {
		if v != nil && v.Kind() == host.ViewFloorPlan && !v.IsTemplate() {
			return v, true
		}
	}
	return nil, false
}

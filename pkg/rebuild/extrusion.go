package rebuild

import (
	"fmt"

	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
	"github.com/chazu/famdef/pkg/units"
)

// Edge is one created profile curve.
type Edge struct {
	Index int
	Line  host.Line
	Curve host.CurveRef
}

// extrusion draws the closed profile on a sketch plane at z=0 and extrudes
// it. The last point connects back to the first.
func (b *builder) extrusion() error {
	plane, err := b.doc.NewSketchPlane(host.BasisZ, host.Origin)
	if err != nil {
		return hostErr("extrusion", "sketch plane", err)
	}

	pts := b.pre.profile
	loop := make([]host.Line, len(pts))
	for i := range pts {
		l := host.Line{Start: pts[i], End: pts[(i+1)%len(pts)]}
		c, err := b.doc.NewModelCurve(l, plane)
		if err != nil {
			return hostErr("extrusion", fmt.Sprintf("edge %d", i), err)
		}
		loop[i] = l
		b.res.Edges = append(b.res.Edges, Edge{Index: i, Line: l, Curve: c})
	}

	depth := b.depth()
	ext, err := b.doc.NewExtrusion(true, loop, plane, depth)
	if err != nil {
		return hostErr("extrusion", "extrusion", err)
	}
	b.res.Extrusion = ext
	b.res.Depth = depth
	b.log.Debug("rebuild.extrusion", "edges", len(loop), "depth", depth)
	return nil
}

// depth resolves the initial extrusion depth in internal units.
func (b *builder) depth() float64 {
	name := b.data.Extrusion.DepthParameter
	if name == "" {
		d, err := units.ToInternalUnits(b.opts.DefaultDepthMM)
		if err != nil {
			return b.opts.FallbackDepth
		}
		return d
	}
	v, ok := b.pre.values[name]
	if !ok {
		b.log.Warn("rebuild.depth_unresolved", "parameter", name, "fallback", b.opts.FallbackDepth)
		return b.opts.FallbackDepth
	}
	if v <= 0 {
		b.log.Warn("rebuild.depth_not_positive", "parameter", name, "value", v, "fallback", b.opts.FallbackDepth)
		return b.opts.FallbackDepth
	}
	return v
}

// bindDepth drives the extrusion depth from the depth parameter.
func (b *builder) bindDepth() error {
	name := b.data.Extrusion.DepthParameter
	if name == "" {
		return nil
	}
	p, ok := b.res.Parameters[name]
	if !ok {
		b.diagnose(fault.KindParameterBinding, "depth parameter "+name,
			fmt.Errorf("no parameter named %q", name))
		return nil
	}
	if err := b.doc.BindDepth(b.res.Extrusion, p); err != nil {
		b.diagnose(fault.KindParameterBinding, "depth parameter "+name, err)
	}
	return nil
}

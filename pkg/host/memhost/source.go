package memhost

import (
	"errors"

	"github.com/chazu/famdef/pkg/host"
)

// Parameters returns every family parameter in creation order.
func (d *Document) Parameters() []host.Parameter {
	out := make([]host.Parameter, 0, len(d.st.params))
	for _, p := range d.st.params {
		out = append(out, sourceParam{doc: d, name: p.name})
	}
	return out
}

// Extrusions returns every extrusion in creation order.
func (d *Document) Extrusions() []host.Extrusion {
	out := make([]host.Extrusion, 0, len(d.st.extrusions))
	for _, e := range d.st.extrusions {
		out = append(out, sourceExtrusion{doc: d, id: e.id})
	}
	return out
}

// Dimensions returns every dimension in creation order.
func (d *Document) Dimensions() []host.Dimension {
	out := make([]host.Dimension, 0, len(d.st.dims))
	for _, dim := range d.st.dims {
		out = append(out, sourceDimension{doc: d, id: dim.id})
	}
	return out
}

type sourceParam struct {
	doc  *Document
	name string
}

func (p sourceParam) Name() string { return p.name }

// Value returns the resolved value. A formula that fails to evaluate
// reads as no value.
func (p sourceParam) Value() (float64, bool) {
	v, ok, err := p.doc.resolve(p.name, map[string]bool{})
	if err != nil {
		return 0, false
	}
	return v, ok
}

func (p sourceParam) DataType() (host.SpecTypeID, error) {
	pe := p.doc.st.param(p.name)
	if pe == nil {
		return "", errors.New("memhost: parameter no longer exists")
	}
	if pe.spec == "" {
		return "", errors.New("memhost: parameter has no data type")
	}
	return pe.spec, nil
}

type sourceExtrusion struct {
	doc *Document
	id  host.ElementID
}

func (e sourceExtrusion) ID() host.ElementID { return e.id }

func (e sourceExtrusion) Profile() ([]host.Curve, error) {
	ex := e.doc.st.extrusion(e.id)
	if ex == nil {
		return nil, errors.New("memhost: extrusion no longer exists")
	}
	curves := make([]host.Curve, len(ex.loop))
	for i, l := range ex.loop {
		curves[i] = sourceCurve{line: l}
	}
	return curves, nil
}

func (e sourceExtrusion) DepthParameter() (string, bool) {
	ex := e.doc.st.extrusion(e.id)
	if ex == nil || ex.depthParam == "" {
		return "", false
	}
	return ex.depthParam, true
}

type sourceCurve struct {
	line host.Line
}

func (c sourceCurve) StartPoint() (host.XYZ, error) { return c.line.Start, nil }

type sourceDimension struct {
	doc *Document
	id  host.ElementID
}

func (d sourceDimension) elem() *dimensionElem { return d.doc.st.dimension(d.id) }

func (d sourceDimension) SegmentCount() int {
	if dim := d.elem(); dim != nil {
		return dim.segments
	}
	return 0
}

func (d sourceDimension) Label() (string, bool) {
	if dim := d.elem(); dim != nil && dim.label != "" {
		return dim.label, true
	}
	return "", false
}

func (d sourceDimension) References() ([]host.Reference, error) {
	dim := d.elem()
	if dim == nil {
		return nil, errors.New("memhost: dimension no longer exists")
	}
	refs := make([]host.Reference, len(dim.refs))
	for i, r := range dim.refs {
		refs[i] = sourceReference{doc: d.doc, ref: r}
	}
	return refs, nil
}

func (d sourceDimension) SegmentsEqual() bool {
	dim := d.elem()
	return dim != nil && dim.equal
}

func (d sourceDimension) Curve() (host.Line, bool) {
	dim := d.elem()
	if dim == nil || !dim.hasLine {
		return host.Line{}, false
	}
	return dim.line, true
}

// sourceReference resolves a dimension end. Curves have no point
// location; their global point is the curve midpoint.
type sourceReference struct {
	doc *Document
	ref refElem
}

func (r sourceReference) ElementLocation() (host.XYZ, bool) {
	if r.ref.location != nil {
		return *r.ref.location, true
	}
	return host.XYZ{}, false
}

func (r sourceReference) GlobalPoint() (host.XYZ, bool) {
	if r.ref.global != nil {
		return *r.ref.global, true
	}
	if r.ref.curve != 0 {
		if c := r.doc.st.curve(r.ref.curve); c != nil {
			return c.line.Midpoint(), true
		}
	}
	return host.XYZ{}, false
}

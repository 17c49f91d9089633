package memhost

import (
	"errors"
	"fmt"

	"github.com/chazu/famdef/pkg/host"
)

// Handles hold the owning document and a key. Every method resolves the
// element through the document's current state.

type paramRef struct {
	doc  *Document
	name string
}

func (p paramRef) Name() string { return p.name }

type planeRef struct {
	doc *Document
	id  host.ElementID
}

func (p planeRef) Normal() host.XYZ {
	if pl := p.doc.st.plane(p.id); pl != nil {
		return pl.normal
	}
	return host.XYZ{}
}

func (p planeRef) Origin() host.XYZ {
	if pl := p.doc.st.plane(p.id); pl != nil {
		return pl.origin
	}
	return host.XYZ{}
}

type curveRef struct {
	doc *Document
	id  host.ElementID
}

func (c curveRef) ID() host.ElementID { return c.id }

func (c curveRef) Geometry() (host.Line, bool) {
	if cv := c.doc.st.curve(c.id); cv != nil {
		return cv.line, true
	}
	return host.Line{}, false
}

type extrusionRef struct {
	doc *Document
	id  host.ElementID
}

func (e extrusionRef) ID() host.ElementID { return e.id }

func (e extrusionRef) EndDepth() float64 {
	if ex := e.doc.st.extrusion(e.id); ex != nil {
		return e.doc.endDepth(ex)
	}
	return 0
}

type viewRef struct {
	doc *Document
	id  host.ElementID
}

func (v viewRef) Name() string {
	if ve := v.doc.st.view(v.id); ve != nil {
		return ve.name
	}
	return ""
}

func (v viewRef) Kind() host.ViewKind {
	if ve := v.doc.st.view(v.id); ve != nil {
		return ve.kind
	}
	return host.ViewThreeD
}

func (v viewRef) IsTemplate() bool {
	if ve := v.doc.st.view(v.id); ve != nil {
		return ve.template
	}
	return false
}

type dimensionRef struct {
	doc *Document
	id  host.ElementID
}

func (d dimensionRef) ID() host.ElementID { return d.id }

func (d dimensionRef) SegmentCount() int {
	if dim := d.doc.st.dimension(d.id); dim != nil {
		return dim.segments
	}
	return 0
}

// SetLabel binds the dimension to a length parameter.
func (d dimensionRef) SetLabel(p host.FamilyParameter) error {
	if err := d.doc.failure(OpSetLabel); err != nil {
		return err
	}
	dim := d.doc.st.dimension(d.id)
	if dim == nil {
		return fmt.Errorf("memhost: dimension %d no longer exists", d.id)
	}
	pe, err := d.doc.ownParam(p)
	if err != nil {
		return err
	}
	if pe.spec != host.SpecLength {
		return fmt.Errorf("memhost: parameter %q is not a length", pe.name)
	}
	dim.label = pe.name
	return nil
}

// SetSegmentsEqual sets the EQ constraint. Only multi-segment dimensions
// accept it.
func (d dimensionRef) SetSegmentsEqual(equal bool) error {
	if err := d.doc.failure(OpSetEqual); err != nil {
		return err
	}
	dim := d.doc.st.dimension(d.id)
	if dim == nil {
		return fmt.Errorf("memhost: dimension %d no longer exists", d.id)
	}
	if dim.segments < 2 {
		return errors.New("memhost: dimension has a single segment")
	}
	dim.equal = equal
	return nil
}

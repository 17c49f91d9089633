package memhost

import (
	"slices"

	"github.com/chazu/famdef/pkg/host"
)

// state is everything a transaction snapshots. Handles refer to elements by
// name or ID and resolve through the live state, so they survive a
// rollback for the elements that still exist.
type state struct {
	nextID      host.ElementID
	currentType bool
	params      []*paramElem
	planes      []*planeElem
	curves      []*curveElem
	extrusions  []*extrusionElem
	views       []*viewElem
	dims        []*dimensionElem
}

func newState() *state {
	return &state{nextID: 1, currentType: true}
}

func (s *state) allocID() host.ElementID {
	id := s.nextID
	s.nextID++
	return id
}

type paramElem struct {
	id       host.ElementID
	name     string
	group    host.ParameterGroup
	spec     host.SpecTypeID
	value    float64
	hasValue bool
	formula  string
}

type planeElem struct {
	id             host.ElementID
	normal, origin host.XYZ
}

type curveElem struct {
	id    host.ElementID
	line  host.Line
	plane host.ElementID
}

type extrusionElem struct {
	id         host.ElementID
	solid      bool
	loop       []host.Line
	plane      host.ElementID
	depth      float64
	depthParam string
	// depthFormula drives depth once bound.
	depthFormula string
}

type viewElem struct {
	id       host.ElementID
	name     string
	kind     host.ViewKind
	template bool
}

// refElem is a dimension end. A created dimension references a curve;
// an annotation added with AddDimension carries points directly.
type refElem struct {
	curve    host.ElementID
	location *host.XYZ
	global   *host.XYZ
}

type dimensionElem struct {
	id       host.ElementID
	view     host.ElementID
	line     host.Line
	hasLine  bool
	refs     []refElem
	segments int
	label    string
	equal    bool
}

func (s *state) param(name string) *paramElem {
	for _, p := range s.params {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (s *state) paramNames() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.name
	}
	return names
}

func (s *state) plane(id host.ElementID) *planeElem {
	return find(s.planes, func(p *planeElem) bool { return p.id == id })
}

func (s *state) curve(id host.ElementID) *curveElem {
	return find(s.curves, func(c *curveElem) bool { return c.id == id })
}

func (s *state) extrusion(id host.ElementID) *extrusionElem {
	return find(s.extrusions, func(e *extrusionElem) bool { return e.id == id })
}

func (s *state) view(id host.ElementID) *viewElem {
	return find(s.views, func(v *viewElem) bool { return v.id == id })
}

func (s *state) dimension(id host.ElementID) *dimensionElem {
	return find(s.dims, func(d *dimensionElem) bool { return d.id == id })
}

func find[T any](xs []*T, match func(*T) bool) *T {
	if i := slices.IndexFunc(xs, match); i >= 0 {
		return xs[i]
	}
	return nil
}

// clone returns a deep copy.
func (s *state) clone() *state {
	c := &state{nextID: s.nextID, currentType: s.currentType}
	c.params = cloneElems(s.params, func(p paramElem) paramElem { return p })
	c.planes = cloneElems(s.planes, func(p planeElem) planeElem { return p })
	c.curves = cloneElems(s.curves, func(cv curveElem) curveElem { return cv })
	c.extrusions = cloneElems(s.extrusions, func(e extrusionElem) extrusionElem {
		e.loop = slices.Clone(e.loop)
		return e
	})
	c.views = cloneElems(s.views, func(v viewElem) viewElem { return v })
	c.dims = cloneElems(s.dims, func(d dimensionElem) dimensionElem {
		refs := make([]refElem, len(d.refs))
		for i, r := range d.refs {
			refs[i] = refElem{curve: r.curve, location: clonePoint(r.location), global: clonePoint(r.global)}
		}
		d.refs = refs
		return d
	})
	return c
}

func cloneElems[T any](xs []*T, deep func(T) T) []*T {
	out := make([]*T, len(xs))
	for i, x := range xs {
		v := deep(*x)
		out[i] = &v
	}
	return out
}

func clonePoint(p *host.XYZ) *host.XYZ {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

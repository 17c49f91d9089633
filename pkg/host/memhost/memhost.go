// Package memhost is an in-memory family document that implements every
// host capability: host.Source for extraction and host.TransactionalDocument
// for reconstruction. It backs the tests and the famdef CLI.
//
// All lengths are stored in internal units. Parameter formulas are
// evaluated over internal-unit values.
package memhost

import (
	"errors"
	"fmt"
	"slices"

	"github.com/chazu/famdef/pkg/formula"
	"github.com/chazu/famdef/pkg/host"
)

// ViewSpec describes a view to seed a document with.
type ViewSpec struct {
	Name     string
	Kind     host.ViewKind
	Template bool
}

// DefaultViews are the views of an empty family template.
var DefaultViews = []ViewSpec{
	{Name: "Ref. Level", Kind: host.ViewFloorPlan},
	{Name: "Front", Kind: host.ViewElevation},
	{Name: "Right", Kind: host.ViewElevation},
	{Name: "{3D}", Kind: host.ViewThreeD},
}

// Op names a document operation that can be made to fail with FailOn.
type Op string

const (
	OpAddParameter   Op = "AddParameter"
	OpSetValue       Op = "SetValue"
	OpNewSketchPlane Op = "NewSketchPlane"
	OpNewModelCurve  Op = "NewModelCurve"
	OpNewExtrusion   Op = "NewExtrusion"
	OpBindDepth      Op = "BindDepth"
	OpNewDimension   Op = "NewDimension"
	OpSetLabel       Op = "SetLabel"
	OpSetEqual       Op = "SetSegmentsEqual"
	OpCommit         Op = "Commit"
)

// Option configures a Document.
type Option func(*Document)

// WithViews replaces the default views.
func WithViews(views ...ViewSpec) Option {
	return func(d *Document) { d.seedViews = views }
}

// WithoutCurrentType creates a document with no current type, so parameter
// values cannot be assigned.
func WithoutCurrentType() Option {
	return func(d *Document) { d.st.currentType = false }
}

// WithEvaluator sets the formula evaluator.
func WithEvaluator(ev *formula.Evaluator) Option {
	return func(d *Document) { d.ev = ev }
}

// Document is an in-memory family document. It is not safe for concurrent
// use.
type Document struct {
	st        *state
	ev        *formula.Evaluator
	tx        *transaction
	fail      map[Op]error
	seedViews []ViewSpec
}

var (
	_ host.TransactionalDocument = (*Document)(nil)
	_ host.Source                = (*Document)(nil)
)

// New creates an empty family document.
func New(opts ...Option) *Document {
	d := &Document{
		st:        newState(),
		fail:      map[Op]error{},
		seedViews: DefaultViews,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.ev == nil {
		d.ev = formula.New()
	}
	for _, v := range d.seedViews {
		id := d.st.allocID()
		d.st.views = append(d.st.views, &viewElem{id: id, name: v.Name, kind: v.Kind, template: v.Template})
	}
	return d
}

// FailOn makes every later call of op return err. A nil err clears it.
func (d *Document) FailOn(op Op, err error) {
	if err == nil {
		delete(d.fail, op)
		return
	}
	d.fail[op] = err
}

func (d *Document) failure(op Op) error {
	if err, ok := d.fail[op]; ok {
		return fmt.Errorf("memhost: %s: %w", op, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

// Parameter looks up a family parameter by name.
func (d *Document) Parameter(name string) (host.FamilyParameter, bool) {
	if d.st.param(name) == nil {
		return nil, false
	}
	return paramRef{doc: d, name: name}, true
}

// AddParameter creates a family parameter with no value.
func (d *Document) AddParameter(name string, group host.ParameterGroup, spec host.SpecTypeID) (host.FamilyParameter, error) {
	if err := d.failure(OpAddParameter); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("memhost: parameter name is empty")
	}
	if d.st.param(name) != nil {
		return nil, fmt.Errorf("memhost: parameter %q already exists", name)
	}
	d.st.params = append(d.st.params, &paramElem{
		id:    d.st.allocID(),
		name:  name,
		group: group,
		spec:  spec,
	})
	return paramRef{doc: d, name: name}, nil
}

// HasCurrentType reports whether values can be assigned.
func (d *Document) HasCurrentType() bool {
	return d.st.currentType
}

// SetValue assigns a value in internal units and clears any formula.
func (d *Document) SetValue(p host.FamilyParameter, value float64) error {
	if err := d.failure(OpSetValue); err != nil {
		return err
	}
	if !d.st.currentType {
		return errors.New("memhost: document has no current type")
	}
	pe, err := d.ownParam(p)
	if err != nil {
		return err
	}
	pe.value, pe.hasValue, pe.formula = value, true, ""
	return nil
}

// SetFormula drives a parameter from a formula over other parameters. The
// formula is evaluated immediately and rejected if it fails or forms a
// cycle.
func (d *Document) SetFormula(name, expr string) error {
	pe := d.st.param(name)
	if pe == nil {
		return fmt.Errorf("memhost: no parameter %q", name)
	}
	prev := pe.formula
	pe.formula = expr
	if _, _, err := d.resolve(name, map[string]bool{}); err != nil {
		pe.formula = prev
		return err
	}
	return nil
}

// Value returns the resolved value of a parameter in internal units.
func (d *Document) Value(name string) (float64, bool, error) {
	if d.st.param(name) == nil {
		return 0, false, fmt.Errorf("memhost: no parameter %q", name)
	}
	return d.resolve(name, map[string]bool{})
}

// resolve evaluates name, following formulas depth first.
func (d *Document) resolve(name string, visiting map[string]bool) (float64, bool, error) {
	pe := d.st.param(name)
	if pe == nil {
		return 0, false, fmt.Errorf("memhost: no parameter %q", name)
	}
	if !d.st.currentType {
		return 0, false, nil
	}
	if pe.formula == "" {
		return pe.value, pe.hasValue, nil
	}
	if visiting[name] {
		return 0, false, fmt.Errorf("memhost: formula cycle through %q", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	if slices.Contains(formula.References(pe.formula, d.st.paramNames()), name) {
		return 0, false, fmt.Errorf("memhost: formula cycle through %q", name)
	}
	v, err := d.evaluate(pe.formula, visiting)
	if err != nil {
		return 0, false, fmt.Errorf("memhost: parameter %q: %w", name, err)
	}
	return v, true, nil
}

// evaluate runs expr with every parameter it references bound to its
// resolved value. Parameters without a value stay unbound.
func (d *Document) evaluate(expr string, visiting map[string]bool) (float64, error) {
	vars := map[string]float64{}
	for _, ref := range formula.References(expr, d.st.paramNames()) {
		v, ok, err := d.resolve(ref, visiting)
		if err != nil {
			return 0, err
		}
		if ok {
			vars[ref] = v
		}
	}
	return d.ev.Evaluate(expr, vars)
}

func (d *Document) ownParam(p host.FamilyParameter) (*paramElem, error) {
	if p == nil {
		return nil, errors.New("memhost: parameter is nil")
	}
	pr, ok := p.(paramRef)
	if !ok || pr.doc != d {
		return nil, fmt.Errorf("memhost: parameter %q belongs to another document", p.Name())
	}
	pe := d.st.param(pr.name)
	if pe == nil {
		return nil, fmt.Errorf("memhost: parameter %q no longer exists", pr.name)
	}
	return pe, nil
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// NewSketchPlane creates a work plane.
func (d *Document) NewSketchPlane(normal, origin host.XYZ) (host.SketchPlane, error) {
	if err := d.failure(OpNewSketchPlane); err != nil {
		return nil, err
	}
	if normal.Length() == 0 {
		return nil, errors.New("memhost: sketch plane normal is zero")
	}
	pl := &planeElem{id: d.st.allocID(), normal: normal, origin: origin}
	d.st.planes = append(d.st.planes, pl)
	return planeRef{doc: d, id: pl.id}, nil
}

// NewModelCurve creates a line on plane.
func (d *Document) NewModelCurve(l host.Line, plane host.SketchPlane) (host.CurveRef, error) {
	if err := d.failure(OpNewModelCurve); err != nil {
		return nil, err
	}
	pl, err := d.ownPlane(plane)
	if err != nil {
		return nil, err
	}
	if l.Length() == 0 {
		return nil, errors.New("memhost: curve is too short")
	}
	c := &curveElem{id: d.st.allocID(), line: l, plane: pl.id}
	d.st.curves = append(d.st.curves, c)
	return curveRef{doc: d, id: c.id}, nil
}

// NewExtrusion creates an extrusion from one closed loop of lines.
func (d *Document) NewExtrusion(solid bool, loop []host.Line, plane host.SketchPlane, depth float64) (host.ExtrusionHandle, error) {
	if err := d.failure(OpNewExtrusion); err != nil {
		return nil, err
	}
	pl, err := d.ownPlane(plane)
	if err != nil {
		return nil, err
	}
	if len(loop) < 3 {
		return nil, fmt.Errorf("memhost: profile needs 3 curves, have %d", len(loop))
	}
	for i, l := range loop {
		next := loop[(i+1)%len(loop)]
		if l.End.Sub(next.Start).Length() > closureTolerance {
			return nil, fmt.Errorf("memhost: profile is not closed at curve %d", i)
		}
	}
	if depth <= 0 {
		return nil, fmt.Errorf("memhost: extrusion depth %g is not positive", depth)
	}
	e := &extrusionElem{
		id:    d.st.allocID(),
		solid: solid,
		loop:  slices.Clone(loop),
		plane: pl.id,
		depth: depth,
	}
	d.st.extrusions = append(d.st.extrusions, e)
	return extrusionRef{doc: d, id: e.id}, nil
}

const closureTolerance = 1e-9

// BindDepth drives ext's end depth from p through a formula that
// references p by name.
func (d *Document) BindDepth(ext host.ExtrusionHandle, p host.FamilyParameter) error {
	if err := d.failure(OpBindDepth); err != nil {
		return err
	}
	e, err := d.ownExtrusion(ext)
	if err != nil {
		return err
	}
	pe, err := d.ownParam(p)
	if err != nil {
		return err
	}
	if pe.spec != host.SpecLength {
		return fmt.Errorf("memhost: parameter %q is not a length", pe.name)
	}
	e.depthParam = pe.name
	e.depthFormula = pe.name
	return nil
}

// endDepth evaluates the depth formula. The static depth is used while
// the formula has no positive value.
func (d *Document) endDepth(e *extrusionElem) float64 {
	if e.depthFormula == "" || !d.st.currentType {
		return e.depth
	}
	v, err := d.evaluate(e.depthFormula, map[string]bool{})
	if err != nil {
		// Names the interpreter reserves cannot be bound as symbols.
		var ok bool
		if v, ok, err = d.resolve(e.depthParam, map[string]bool{}); err != nil || !ok {
			return e.depth
		}
	}
	if v <= 0 {
		return e.depth
	}
	return v
}

func (d *Document) ownPlane(p host.SketchPlane) (*planeElem, error) {
	pr, ok := p.(planeRef)
	if !ok || pr.doc != d {
		return nil, errors.New("memhost: sketch plane belongs to another document")
	}
	pl := d.st.plane(pr.id)
	if pl == nil {
		return nil, fmt.Errorf("memhost: sketch plane %d no longer exists", pr.id)
	}
	return pl, nil
}

func (d *Document) ownExtrusion(h host.ExtrusionHandle) (*extrusionElem, error) {
	er, ok := h.(extrusionRef)
	if !ok || er.doc != d {
		return nil, errors.New("memhost: extrusion belongs to another document")
	}
	e := d.st.extrusion(er.id)
	if e == nil {
		return nil, fmt.Errorf("memhost: extrusion %d no longer exists", er.id)
	}
	return e, nil
}

// ---------------------------------------------------------------------------
// Views and dimensions
// ---------------------------------------------------------------------------

// Views returns the document views in creation order.
func (d *Document) Views() []host.View {
	out := make([]host.View, 0, len(d.st.views))
	for _, v := range d.st.views {
		out = append(out, viewRef{doc: d, id: v.id})
	}
	return out
}

// NewDimension creates a dimension along l between the referenced curves.
func (d *Document) NewDimension(view host.View, l host.Line, refs []host.CurveRef) (host.DimensionHandle, error) {
	if err := d.failure(OpNewDimension); err != nil {
		return nil, err
	}
	vr, ok := view.(viewRef)
	if !ok || vr.doc != d || d.st.view(vr.id) == nil {
		return nil, errors.New("memhost: view belongs to another document")
	}
	if d.st.view(vr.id).template {
		return nil, fmt.Errorf("memhost: view %q is a template", d.st.view(vr.id).name)
	}
	if len(refs) < 2 {
		return nil, fmt.Errorf("memhost: dimension needs 2 references, have %d", len(refs))
	}
	if l.Length() == 0 {
		return nil, errors.New("memhost: dimension line is too short")
	}
	ends := make([]refElem, 0, len(refs))
	for i, r := range refs {
		cr, ok := r.(curveRef)
		if !ok || cr.doc != d || d.st.curve(cr.id) == nil {
			return nil, fmt.Errorf("memhost: reference %d is not a curve of this document", i)
		}
		ends = append(ends, refElem{curve: cr.id})
	}
	dim := &dimensionElem{
		id:       d.st.allocID(),
		view:     vr.id,
		line:     l,
		hasLine:  true,
		refs:     ends,
		segments: len(refs) - 1,
	}
	d.st.dims = append(d.st.dims, dim)
	return dimensionRef{doc: d, id: dim.id}, nil
}

// RefSpec is one end of a dimension added with AddDimension. Nil points
// are unresolvable.
type RefSpec struct {
	Location *host.XYZ
	Global   *host.XYZ
}

// DimensionSpec describes an existing annotation for AddDimension.
type DimensionSpec struct {
	Line     *host.Line
	Refs     []RefSpec
	Segments int
	Label    string
	Equal    bool
}

// AddDimension records a dimension as the host would present it to
// extraction. Segments defaults to len(Refs)-1.
func (d *Document) AddDimension(spec DimensionSpec) host.ElementID {
	dim := &dimensionElem{
		id:       d.st.allocID(),
		segments: spec.Segments,
		label:    spec.Label,
		equal:    spec.Equal,
	}
	if spec.Line != nil {
		dim.line, dim.hasLine = *spec.Line, true
	}
	for _, r := range spec.Refs {
		dim.refs = append(dim.refs, refElem{location: clonePoint(r.Location), global: clonePoint(r.Global)})
	}
	if dim.segments == 0 && len(dim.refs) > 1 {
		dim.segments = len(dim.refs) - 1
	}
	d.st.dims = append(d.st.dims, dim)
	return dim.id
}

// ---------------------------------------------------------------------------
// Inspection
// ---------------------------------------------------------------------------

// Solid is a read-only view of an extrusion for meshing and inspection.
type Solid struct {
	ID             host.ElementID
	IsSolid        bool
	Profile        []host.XYZ
	Origin         host.XYZ // sketch plane origin
	Depth          float64
	DepthParameter string
}

// Solids returns every extrusion with its resolved end depth.
func (d *Document) Solids() []Solid {
	out := make([]Solid, 0, len(d.st.extrusions))
	for _, e := range d.st.extrusions {
		s := Solid{ID: e.id, IsSolid: e.solid, Depth: d.endDepth(e), DepthParameter: e.depthParam}
		if pl := d.st.plane(e.plane); pl != nil {
			s.Origin = pl.origin
		}
		for _, l := range e.loop {
			s.Profile = append(s.Profile, l.Start)
		}
		out = append(out, s)
	}
	return out
}

// DimensionInfo is a read-only view of a dimension.
type DimensionInfo struct {
	ID       host.ElementID
	View     string
	Line     host.Line
	Segments int
	Label    string
	Equal    bool
}

// DimensionInfos returns every dimension in creation order.
func (d *Document) DimensionInfos() []DimensionInfo {
	out := make([]DimensionInfo, 0, len(d.st.dims))
	for _, dim := range d.st.dims {
		info := DimensionInfo{ID: dim.id, Line: dim.line, Segments: dim.segments, Label: dim.label, Equal: dim.equal}
		if v := d.st.view(dim.view); v != nil {
			info.View = v.name
		}
		out = append(out, info)
	}
	return out
}

// CurveCount returns the number of model curves.
func (d *Document) CurveCount() int { return len(d.st.curves) }

// ElementCount returns the number of elements excluding views.
func (d *Document) ElementCount() int {
	s := d.st
	return len(s.params) + len(s.planes) + len(s.curves) + len(s.extrusions) + len(s.dims)
}

// InTransaction reports whether a transaction is open.
func (d *Document) InTransaction() bool { return d.tx != nil }

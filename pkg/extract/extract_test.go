package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeParam struct {
	name    string
	value   float64
	hasVal  bool
	spec    host.SpecTypeID
	specErr error
}

func (p fakeParam) Name() string                       { return p.name }
func (p fakeParam) Value() (float64, bool)             { return p.value, p.hasVal }
func (p fakeParam) DataType() (host.SpecTypeID, error) { return p.spec, p.specErr }

type fakeCurve struct {
	start host.XYZ
	err   error
}

func (c fakeCurve) StartPoint() (host.XYZ, error) { return c.start, c.err }

type fakeExtrusion struct {
	id         host.ElementID
	curves     []host.Curve
	profileErr error
	depth      string
}

func (e fakeExtrusion) ID() host.ElementID               { return e.id }
func (e fakeExtrusion) Profile() ([]host.Curve, error)   { return e.curves, e.profileErr }
func (e fakeExtrusion) DepthParameter() (string, bool)   { return e.depth, e.depth != "" }

type fakeRef struct {
	loc, global       host.XYZ
	hasLoc, hasGlobal bool
}

func (r fakeRef) ElementLocation() (host.XYZ, bool) { return r.loc, r.hasLoc }
func (r fakeRef) GlobalPoint() (host.XYZ, bool)     { return r.global, r.hasGlobal }

type fakeDim struct {
	segments int
	label    string
	refs     []host.Reference
	refsErr  error
	equal    bool
	line     *host.Line
	panics   bool
}

func (d fakeDim) SegmentCount() int      { return d.segments }
func (d fakeDim) Label() (string, bool)  { return d.label, d.label != "" }
func (d fakeDim) SegmentsEqual() bool    { return d.equal }
func (d fakeDim) References() ([]host.Reference, error) {
	if d.panics {
		panic("reference table corrupted")
	}
	return d.refs, d.refsErr
}
func (d fakeDim) Curve() (host.Line, bool) {
	if d.line == nil {
		return host.Line{}, false
	}
	return *d.line, true
}

type fakeSource struct {
	params []host.Parameter
	exts   []host.Extrusion
	dims   []host.Dimension
}

func (s fakeSource) Parameters() []host.Parameter { return s.params }
func (s fakeSource) Extrusions() []host.Extrusion { return s.exts }
func (s fakeSource) Dimensions() []host.Dimension { return s.dims }

func ft(mm float64) float64 { return mm / 304.8 }

func squareCurves() []host.Curve {
	return []host.Curve{
		fakeCurve{start: host.XYZ{X: 0, Y: 0}},
		fakeCurve{start: host.XYZ{X: ft(1000), Y: 0}},
		fakeCurve{start: host.XYZ{X: ft(1000), Y: ft(1000)}},
		fakeCurve{start: host.XYZ{X: 0, Y: ft(1000)}},
	}
}

func squareSource() fakeSource {
	return fakeSource{
		params: []host.Parameter{
			fakeParam{name: "p", value: ft(250), hasVal: true, spec: host.SpecLength},
		},
		exts: []host.Extrusion{
			fakeExtrusion{id: 7, curves: squareCurves(), depth: "p"},
		},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestExtractUnitSquare(t *testing.T) {
	res, err := Extract(squareSource(), Options{})
	require.NoError(t, err)
	f := res.Family

	require.Len(t, f.Parameters, 1)
	assert.Equal(t, "p", f.Parameters[0].Name)
	assert.InDelta(t, 250.0, f.Parameters[0].Value, 1e-9)
	assert.Equal(t, family.TypeLength, f.Parameters[0].Type)

	require.Len(t, f.Extrusion.ProfilePoints, 4)
	want := []family.Point2D{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}
	for i, p := range f.Extrusion.ProfilePoints {
		assert.InDelta(t, want[i].X, p.X, 1e-9)
		assert.InDelta(t, want[i].Y, p.Y, 1e-9)
	}
	assert.Equal(t, "p", f.Extrusion.DepthParameter)

	assert.NotNil(t, f.Dimensions)
	assert.Empty(t, f.Dimensions)
	assert.NotNil(t, f.Alignments)
	assert.Empty(t, f.Alignments)
	assert.Empty(t, res.Diagnostics)
}

func TestExtractParameters(t *testing.T) {
	src := squareSource()
	src.params = []host.Parameter{
		fakeParam{name: "len", value: 1, hasVal: true, spec: host.SpecLength},
		fakeParam{name: "angle", value: 0.5, hasVal: true, spec: host.SpecAngle},
		fakeParam{name: "count", value: 3, hasVal: true, spec: host.SpecInteger},
		fakeParam{name: "flag", value: 1, hasVal: true, spec: host.SpecYesNo},
		fakeParam{name: "area", value: 2, hasVal: true, spec: "autodesk.spec.aec:area-2.0.0"},
		fakeParam{name: "mystery", value: 1, hasVal: true, specErr: errors.New("no data type")},
		fakeParam{name: "unset", hasVal: false, spec: host.SpecLength},
	}

	res, err := Extract(src, Options{})
	require.NoError(t, err)
	idx := res.Family.ParameterIndex()

	assert.Equal(t, 304.8, idx["len"].Value)
	assert.Equal(t, 0.5, idx["angle"].Value, "non-length values pass through")
	assert.Equal(t, family.TypeAngle, idx["angle"].Type)
	assert.Equal(t, 3.0, idx["count"].Value)
	assert.Equal(t, family.TypeInteger, idx["count"].Type)
	assert.Equal(t, family.TypeYesNo, idx["flag"].Type)
	assert.Equal(t, family.ParameterType("autodesk.spec.aec:area-2.0.0"), idx["area"].Type)
	assert.Equal(t, 2.0, idx["area"].Value)
	assert.Equal(t, family.TypeLength, idx["mystery"].Type, "undeterminable kind falls back to Length")
	assert.Equal(t, 304.8, idx["mystery"].Value)
	assert.Equal(t, 0.0, idx["unset"].Value)

	names := make([]string, 0, len(res.Family.Parameters))
	for _, p := range res.Family.Parameters {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"len", "angle", "count", "flag", "area", "mystery", "unset"}, names)
}

func TestExtractNonFiniteParameter(t *testing.T) {
	src := squareSource()
	src.params = []host.Parameter{fakeParam{name: "bad", value: math.NaN(), hasVal: true, spec: host.SpecLength}}
	_, err := Extract(src, Options{})
	assert.True(t, errors.Is(err, fault.ErrInvalidValue))
}

func TestExtractNoExtrusion(t *testing.T) {
	src := squareSource()
	src.exts = nil
	_, err := Extract(src, Options{})
	assert.True(t, errors.Is(err, fault.ErrNoExtrusionFound), "got %v", err)
}

func TestExtractPicksFirstExtrusion(t *testing.T) {
	src := squareSource()
	tri := []host.Curve{
		fakeCurve{start: host.XYZ{}},
		fakeCurve{start: host.XYZ{X: 1}},
		fakeCurve{start: host.XYZ{Y: 1}},
	}
	src.exts = append(src.exts, fakeExtrusion{id: 8, curves: tri})
	res, err := Extract(src, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Family.Extrusion.ProfilePoints, 4)
}

func TestExtractProfileErrors(t *testing.T) {
	tests := []struct {
		name string
		ext  fakeExtrusion
	}{
		{"sketch unreadable", fakeExtrusion{id: 1, profileErr: errors.New("sketch is locked")}},
		{"empty profile", fakeExtrusion{id: 1}},
		{"curve without start", fakeExtrusion{id: 1, curves: []host.Curve{
			fakeCurve{start: host.XYZ{}},
			fakeCurve{err: errors.New("arc has no start point")},
			fakeCurve{start: host.XYZ{Y: 1}},
		}}},
		{"non-finite start", fakeExtrusion{id: 1, curves: []host.Curve{
			fakeCurve{start: host.XYZ{}},
			fakeCurve{start: host.XYZ{X: math.Inf(1)}},
			fakeCurve{start: host.XYZ{Y: 1}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := squareSource()
			src.exts = []host.Extrusion{tt.ext}
			res, err := Extract(src, Options{})
			assert.Nil(t, res, "no partial result")
			assert.True(t, errors.Is(err, fault.ErrProfileRead), "got %v", err)
		})
	}
}

func TestExtractNoDepthParameter(t *testing.T) {
	src := squareSource()
	src.exts = []host.Extrusion{fakeExtrusion{id: 1, curves: squareCurves()}}
	res, err := Extract(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, "", res.Family.Extrusion.DepthParameter)
}

func TestExtractDimensions(t *testing.T) {
	horizontal := &host.Line{Start: host.XYZ{}, End: host.XYZ{X: 3, Y: 1}}
	vertical := &host.Line{Start: host.XYZ{}, End: host.XYZ{X: 1, Y: 1}}

	src := squareSource()
	src.dims = []host.Dimension{
		// element location wins over the global point
		fakeDim{segments: 1, label: "p", refs: []host.Reference{
			fakeRef{loc: host.XYZ{X: 1}, hasLoc: true, global: host.XYZ{X: 9}, hasGlobal: true},
			fakeRef{global: host.XYZ{Y: 2}, hasGlobal: true},
		}},
		// unresolvable reference defaults to the origin
		fakeDim{segments: 1, label: "p", refs: []host.Reference{fakeRef{}, fakeRef{global: host.XYZ{X: 1}, hasGlobal: true}}},
		// unlabelled and multi-segment dimensions are ignored
		fakeDim{segments: 1, refs: []host.Reference{fakeRef{}, fakeRef{}}},
		fakeDim{segments: 2, label: "p", refs: []host.Reference{fakeRef{}, fakeRef{}, fakeRef{}}, equal: true, line: vertical},
		// failures are skipped with diagnostics
		fakeDim{segments: 1, label: "p", refsErr: errors.New("stale reference")},
		fakeDim{segments: 1, label: "p", refs: []host.Reference{fakeRef{}}},
		fakeDim{segments: 1, label: "p", panics: true},
		// equalised, horizontal by dominant axis
		fakeDim{segments: 3, equal: true, line: horizontal},
		// equalised without a line
		fakeDim{segments: 3, equal: true},
	}

	res, err := Extract(src, Options{})
	require.NoError(t, err)
	f := res.Family

	require.Len(t, f.Dimensions, 2)
	assert.Equal(t, family.Point2D{X: 304.8, Y: 0}, f.Dimensions[0].Start)
	assert.Equal(t, family.Point2D{X: 0, Y: 609.6}, f.Dimensions[0].End)
	assert.Equal(t, "p", f.Dimensions[0].Label)
	assert.Equal(t, family.Point2D{}, f.Dimensions[1].Start)

	require.Len(t, res.Diagnostics, 3)
	for _, d := range res.Diagnostics {
		assert.Equal(t, fault.KindDimensionResolution, d.Kind)
		assert.False(t, d.Kind.Fatal())
	}

	assert.Equal(t, []family.AlignmentData{
		{Direction: family.Vertical, Equalize: true},
		{Direction: family.Horizontal, Equalize: true},
		{Direction: family.Horizontal, Equalize: true},
	}, f.Alignments)
}

func TestExtractSkipDimensions(t *testing.T) {
	src := squareSource()
	src.dims = []host.Dimension{fakeDim{segments: 1, label: "p", refsErr: errors.New("boom")}}
	res, err := Extract(src, Options{SkipDimensions: true})
	require.NoError(t, err)
	assert.Empty(t, res.Family.Dimensions)
	assert.Empty(t, res.Diagnostics)
}

func TestExtractNilSource(t *testing.T) {
	_, err := Extract(nil, Options{})
	assert.Error(t, err)
}

func TestClassifyAndSpecFor(t *testing.T) {
	for _, typ := range []family.ParameterType{
		family.TypeLength, family.TypeAngle, family.TypeText, family.TypeMultilineText,
		family.TypeURL, family.TypeYesNo, family.TypeInteger, family.TypeMaterial,
	} {
		spec, ok := SpecFor(typ)
		require.True(t, ok, typ)
		assert.Equal(t, typ, Classify(spec, nil))
	}
	_, ok := SpecFor("opaque")
	assert.False(t, ok)
	assert.Equal(t, family.TypeLength, Classify("", nil))
}

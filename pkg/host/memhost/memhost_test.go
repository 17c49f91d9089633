package memhost

import (
	"errors"
	"testing"

	"github.com/chazu/famdef/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(side float64) []host.Line {
	pts := []host.XYZ{{}, {X: side}, {X: side, Y: side}, {Y: side}}
	loop := make([]host.Line, len(pts))
	for i := range pts {
		loop[i] = host.Line{Start: pts[i], End: pts[(i+1)%len(pts)]}
	}
	return loop
}

func TestNewSeedsTemplateViews(t *testing.T) {
	d := New()
	views := d.Views()
	require.Len(t, views, 4)
	assert.Equal(t, "Ref. Level", views[0].Name())
	assert.Equal(t, host.ViewFloorPlan, views[0].Kind())
	assert.False(t, views[0].IsTemplate())
	assert.True(t, d.HasCurrentType())
	assert.Zero(t, d.ElementCount())

	d = New(WithViews(ViewSpec{Name: "Plan template", Kind: host.ViewFloorPlan, Template: true}), WithoutCurrentType())
	require.Len(t, d.Views(), 1)
	assert.True(t, d.Views()[0].IsTemplate())
	assert.False(t, d.HasCurrentType())
}

func TestParameters(t *testing.T) {
	d := New()
	p, err := d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, err)

	_, err = d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	assert.Error(t, err, "duplicate name")

	got, ok := d.Parameter("w")
	require.True(t, ok)
	assert.Equal(t, "w", got.Name())

	require.NoError(t, d.SetValue(p, 2.5))
	v, ok, err := d.Value("w")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	src := d.Parameters()
	require.Len(t, src, 1)
	spec, err := src[0].DataType()
	require.NoError(t, err)
	assert.Equal(t, host.SpecLength, spec)
}

func TestSetValueWithoutCurrentType(t *testing.T) {
	d := New(WithoutCurrentType())
	p, err := d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, err)
	assert.Error(t, d.SetValue(p, 1))

	_, ok := d.Parameters()[0].Value()
	assert.False(t, ok)
}

func TestForeignParameterRejected(t *testing.T) {
	a, b := New(), New()
	p, err := a.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, err)
	_, err = b.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, err)
	assert.Error(t, b.SetValue(p, 1))
}

func TestFormulas(t *testing.T) {
	d := New()
	w, _ := d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	_, _ = d.AddParameter("half", host.GroupConstraints, host.SpecLength)
	_, _ = d.AddParameter("alias", host.GroupConstraints, host.SpecLength)
	require.NoError(t, d.SetValue(w, 4))

	require.NoError(t, d.SetFormula("half", "(* w 0.5)"))
	require.NoError(t, d.SetFormula("alias", "half"))

	v, ok, err := d.Value("alias")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-12)

	// Formulas follow their inputs.
	require.NoError(t, d.SetValue(w, 10))
	v, _, err = d.Value("alias")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-12)

	// A cycle is rejected and the previous formula kept.
	assert.Error(t, d.SetFormula("w", "alias"))
	v, _, err = d.Value("w")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	assert.Error(t, d.SetFormula("half", "(* half 2)"), "self reference")
	assert.Error(t, d.SetFormula("missing", "w"))
}

func TestExtrusionAndDepthBinding(t *testing.T) {
	d := New()
	plane, err := d.NewSketchPlane(host.BasisZ, host.Origin)
	require.NoError(t, err)

	ext, err := d.NewExtrusion(true, square(1), plane, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ext.EndDepth())

	p, _ := d.AddParameter("p", host.GroupConstraints, host.SpecLength)
	require.NoError(t, d.SetValue(p, 2))
	require.NoError(t, d.BindDepth(ext, p))
	assert.Equal(t, 2.0, ext.EndDepth())

	require.NoError(t, d.SetValue(p, 3))
	assert.Equal(t, 3.0, ext.EndDepth(), "depth follows the parameter")

	txt, _ := d.AddParameter("label", host.GroupConstraints, host.SpecText)
	assert.Error(t, d.BindDepth(ext, txt))

	solids := d.Solids()
	require.Len(t, solids, 1)
	assert.Equal(t, 3.0, solids[0].Depth)
	assert.Equal(t, "p", solids[0].DepthParameter)
	assert.Len(t, solids[0].Profile, 4)

	exts := d.Extrusions()
	require.Len(t, exts, 1)
	name, ok := exts[0].DepthParameter()
	assert.True(t, ok)
	assert.Equal(t, "p", name)
	curves, err := exts[0].Profile()
	require.NoError(t, err)
	start, err := curves[2].StartPoint()
	require.NoError(t, err)
	assert.Equal(t, host.XYZ{X: 1, Y: 1}, start)
}

func TestDepthFormulaFollowsDrivenParameter(t *testing.T) {
	d := New()
	plane, err := d.NewSketchPlane(host.BasisZ, host.Origin)
	require.NoError(t, err)
	ext, err := d.NewExtrusion(true, square(1), plane, 0.5)
	require.NoError(t, err)

	q, _ := d.AddParameter("q", host.GroupConstraints, host.SpecLength)
	p, _ := d.AddParameter("p", host.GroupConstraints, host.SpecLength)
	require.NoError(t, d.SetValue(q, 1.25))
	require.NoError(t, d.SetFormula("p", "(* q 2)"))
	require.NoError(t, d.BindDepth(ext, p))
	assert.InDelta(t, 2.5, ext.EndDepth(), 1e-12)

	require.NoError(t, d.SetValue(q, 2))
	assert.InDelta(t, 4.0, ext.EndDepth(), 1e-12)

	// A non-positive result leaves the static depth.
	require.NoError(t, d.SetValue(q, -1))
	assert.Equal(t, 0.5, ext.EndDepth())
}

func TestExtrusionRejectsOpenOrShortLoops(t *testing.T) {
	d := New()
	plane, _ := d.NewSketchPlane(host.BasisZ, host.Origin)

	_, err := d.NewExtrusion(true, square(1)[:2], plane, 1)
	assert.Error(t, err)

	open := square(1)
	open[3].End = host.XYZ{X: 0.5}
	_, err = d.NewExtrusion(true, open, plane, 1)
	assert.Error(t, err)

	_, err = d.NewExtrusion(true, square(1), plane, 0)
	assert.Error(t, err)
}

func TestDimensions(t *testing.T) {
	d := New()
	plane, _ := d.NewSketchPlane(host.BasisZ, host.Origin)
	var refs []host.CurveRef
	for _, l := range square(1) {
		c, err := d.NewModelCurve(l, plane)
		require.NoError(t, err)
		refs = append(refs, c)
	}

	views := d.Views()
	line := host.Line{Start: host.XYZ{X: -1}, End: host.XYZ{X: -1, Y: 1}}
	_, err := d.NewDimension(views[0], line, refs[:1])
	assert.Error(t, err, "one reference")

	dim, err := d.NewDimension(views[0], line, []host.CurveRef{refs[0], refs[2]})
	require.NoError(t, err)
	assert.Equal(t, 1, dim.SegmentCount())
	assert.Error(t, dim.SetSegmentsEqual(true), "single segment")

	w, _ := d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, dim.SetLabel(w))

	multi, err := d.NewDimension(views[0], line, refs)
	require.NoError(t, err)
	assert.Equal(t, 3, multi.SegmentCount())
	require.NoError(t, multi.SetSegmentsEqual(true))

	src := d.Dimensions()
	require.Len(t, src, 2)
	label, ok := src[0].Label()
	assert.True(t, ok)
	assert.Equal(t, "w", label)
	assert.True(t, src[1].SegmentsEqual())

	ends, err := src[0].References()
	require.NoError(t, err)
	require.Len(t, ends, 2)
	_, ok = ends[0].ElementLocation()
	assert.False(t, ok)
	gp, ok := ends[0].GlobalPoint()
	assert.True(t, ok)
	assert.Equal(t, host.XYZ{X: 0.5}, gp, "curve midpoint")

	infos := d.DimensionInfos()
	require.Len(t, infos, 2)
	assert.Equal(t, "Ref. Level", infos[0].View)
}

func TestNewDimensionRejectsTemplateView(t *testing.T) {
	d := New(WithViews(ViewSpec{Name: "T", Kind: host.ViewFloorPlan, Template: true}))
	plane, _ := d.NewSketchPlane(host.BasisZ, host.Origin)
	a, _ := d.NewModelCurve(square(1)[0], plane)
	b, _ := d.NewModelCurve(square(1)[2], plane)
	_, err := d.NewDimension(d.Views()[0], host.Line{End: host.XYZ{Y: 1}}, []host.CurveRef{a, b})
	assert.Error(t, err)
}

func TestAddDimension(t *testing.T) {
	d := New()
	loc := host.XYZ{X: 1}
	d.AddDimension(DimensionSpec{
		Refs:  []RefSpec{{Location: &loc}, {}},
		Label: "w",
	})
	src := d.Dimensions()
	require.Len(t, src, 1)
	assert.Equal(t, 1, src[0].SegmentCount())
	_, ok := src[0].Curve()
	assert.False(t, ok)

	ends, err := src[0].References()
	require.NoError(t, err)
	p, ok := ends[0].ElementLocation()
	assert.True(t, ok)
	assert.Equal(t, loc, p)
	_, ok = ends[1].GlobalPoint()
	assert.False(t, ok)
}

func TestTransactionRollBack(t *testing.T) {
	d := New()
	p, _ := d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, d.SetValue(p, 1))

	tx, err := d.Begin("rebuild")
	require.NoError(t, err)
	assert.True(t, d.InTransaction())

	_, err = d.Begin("nested")
	assert.True(t, errors.Is(err, ErrNestedTransaction))

	require.NoError(t, d.SetValue(p, 5))
	plane, _ := d.NewSketchPlane(host.BasisZ, host.Origin)
	_, err = d.NewExtrusion(true, square(1), plane, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, d.ElementCount())

	require.NoError(t, tx.RollBack())
	assert.False(t, d.InTransaction())
	assert.Equal(t, 1, d.ElementCount())
	v, _, err := d.Value("w")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	assert.Empty(t, d.Extrusions())

	assert.Error(t, tx.Commit(), "finished transaction")
}

func TestTransactionCommit(t *testing.T) {
	d := New()
	tx, err := d.Begin("add")
	require.NoError(t, err)
	_, err = d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, 1, d.ElementCount())

	_, err = d.Begin("again")
	assert.NoError(t, err)
}

func TestFailOn(t *testing.T) {
	d := New()
	boom := errors.New("boom")
	d.FailOn(OpAddParameter, boom)
	_, err := d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	assert.True(t, errors.Is(err, boom))

	d.FailOn(OpAddParameter, nil)
	_, err = d.AddParameter("w", host.GroupGeometry, host.SpecLength)
	assert.NoError(t, err)
}

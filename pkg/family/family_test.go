package family_test

import (
	"testing"

	"github.com/chazu/famdef/pkg/family"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() *family.FamilyData {
	f := family.New()
	f.Parameters = []family.ParameterData{
		{Name: "p", Value: 250, Type: family.TypeLength},
		{Name: "w", Value: 1000, Type: family.TypeLength},
	}
	f.Extrusion = family.ExtrusionData{
		ProfilePoints: []family.Point2D{
			{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000},
		},
		DepthParameter: "p",
	}
	return f
}

func TestParameterLookup(t *testing.T) {
	f := unitSquare()

	p, ok := f.Parameter("p")
	require.True(t, ok)
	assert.Equal(t, 250.0, p.Value)

	_, ok = f.Parameter("missing")
	assert.False(t, ok)

	idx := f.ParameterIndex()
	assert.Len(t, idx, 2)
	assert.Equal(t, family.TypeLength, idx["w"].Type)
}

func TestEqualTreatsNilAsEmpty(t *testing.T) {
	a := unitSquare()
	b := unitSquare()
	b.Dimensions = nil
	b.Alignments = nil

	assert.True(t, family.Equal(a, b))
	assert.True(t, family.Equal(nil, nil))
	assert.False(t, family.Equal(a, nil))
}

func TestEqualIsOrderSensitive(t *testing.T) {
	a := unitSquare()
	b := unitSquare()
	b.Extrusion.ProfilePoints[0], b.Extrusion.ProfilePoints[1] =
		b.Extrusion.ProfilePoints[1], b.Extrusion.ProfilePoints[0]
	assert.False(t, family.Equal(a, b))

	c := unitSquare()
	c.Extrusion.DepthParameter = ""
	assert.False(t, family.Equal(a, c))
}

func TestCloneIsDeep(t *testing.T) {
	a := unitSquare()
	c := a.Clone()
	require.True(t, family.Equal(a, c))

	c.Extrusion.ProfilePoints[0].X = 42
	c.Parameters[0].Value = 1
	assert.Equal(t, 0.0, a.Extrusion.ProfilePoints[0].X)
	assert.Equal(t, 250.0, a.Parameters[0].Value)
}

func TestNormalize(t *testing.T) {
	f := &family.FamilyData{}
	f.Normalize()
	assert.NotNil(t, f.Parameters)
	assert.NotNil(t, f.Extrusion.ProfilePoints)
	assert.NotNil(t, f.Dimensions)
	assert.NotNil(t, f.Alignments)
}

func TestParameterTypeKnown(t *testing.T) {
	tests := []struct {
		typ   family.ParameterType
		known bool
	}{
		{family.TypeLength, true},
		{family.TypeAngle, true},
		{family.TypeText, true},
		{family.TypeMultilineText, true},
		{family.TypeURL, true},
		{family.TypeYesNo, true},
		{family.TypeInteger, true},
		{family.TypeMaterial, true},
		{"autodesk.spec.aec:area-2.0.0", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.typ.Known())
		})
	}
	assert.True(t, family.TypeLength.IsLength())
	assert.False(t, family.TypeAngle.IsLength())
}

func TestEdgeWraps(t *testing.T) {
	f := unitSquare()
	a, b := f.Extrusion.Edge(3)
	assert.Equal(t, family.Point2D{X: 0, Y: 1000}, a)
	assert.Equal(t, family.Point2D{X: 0, Y: 0}, b)
}

package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("extract: %w", New("extract.profile", KindProfileRead, "curve 2", errors.New("no start point")))

	assert.True(t, errors.Is(err, ErrProfileRead))
	assert.False(t, errors.Is(err, ErrNoExtrusionFound))
	assert.True(t, IsKind(err, KindProfileRead))
	assert.Contains(t, err.Error(), "extract.profile: profile_read_error (curve 2): no start point")
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
	assert.False(t, IsKind(nil, KindHost))
}

func TestFatal(t *testing.T) {
	tests := []struct {
		kind  Kind
		fatal bool
	}{
		{KindInvalidValue, true},
		{KindMalformedDocument, true},
		{KindNoExtrusionFound, true},
		{KindProfileRead, true},
		{KindNoHostView, true},
		{KindHost, true},
		{KindParameterBinding, false},
		{KindDimensionResolution, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.fatal, tt.kind.Fatal())
			assert.NotNil(t, tt.kind.Sentinel())
		})
	}
}

func TestDiagnoseKeepsKind(t *testing.T) {
	inner := New("rebuild.label", KindParameterBinding, "w", errors.New("read-only"))
	d := Diagnose(KindHost, "dim", inner)
	assert.Equal(t, KindParameterBinding, d.Kind)
	assert.Equal(t, "dim", d.Subject)

	d = Diagnose(KindDimensionResolution, "", errors.New("no refs"))
	assert.Equal(t, KindDimensionResolution, d.Kind)
	assert.Equal(t, "dimension_resolution_failure: no refs", d.String())
}

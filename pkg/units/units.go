// Package units converts between the host's internal length unit (feet)
// and millimetres, the unit of the portable family model.
package units

import (
	"fmt"
	"math"

	"github.com/chazu/famdef/pkg/fault"
)

// MillimetersPerInternalUnit is the fixed host conversion factor.
const MillimetersPerInternalUnit = 304.8

// ToMillimeters converts a host length to millimetres. No rounding is applied.
func ToMillimeters(internal float64) (float64, error) {
	if err := checkFinite("units.ToMillimeters", internal); err != nil {
		return 0, err
	}
	return internal * MillimetersPerInternalUnit, nil
}

// ToInternalUnits converts millimetres to the host length unit.
func ToInternalUnits(mm float64) (float64, error) {
	if err := checkFinite("units.ToInternalUnits", mm); err != nil {
		return 0, err
	}
	return mm / MillimetersPerInternalUnit, nil
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NearlyEqual compares a and b with an absolute tolerance.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func checkFinite(op string, v float64) error {
	if IsFinite(v) {
		return nil
	}
	return fault.New(op, fault.KindInvalidValue, "", fmt.Errorf("non-finite value %v", v))
}

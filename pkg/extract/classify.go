package extract

import (
	"math"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/host"
)

var specTypes = map[host.SpecTypeID]family.ParameterType{
	host.SpecLength:        family.TypeLength,
	host.SpecAngle:         family.TypeAngle,
	host.SpecText:          family.TypeText,
	host.SpecMultilineText: family.TypeMultilineText,
	host.SpecURL:           family.TypeURL,
	host.SpecYesNo:         family.TypeYesNo,
	host.SpecInteger:       family.TypeInteger,
	host.SpecMaterial:      family.TypeMaterial,
}

// Classify maps a host data kind onto a ParameterType. Unrecognised kinds
// keep the raw host identifier. When the kind cannot be determined at all
// the result is Length, which is a lossy fallback.
func Classify(spec host.SpecTypeID, err error) family.ParameterType {
	if err != nil || spec == "" {
		return family.TypeLength
	}
	if t, ok := specTypes[spec]; ok {
		return t
	}
	return family.ParameterType(spec)
}

// SpecFor is the inverse of Classify for the known types.
func SpecFor(t family.ParameterType) (host.SpecTypeID, bool) {
	for spec, pt := range specTypes {
		if pt == t {
			return spec, true
		}
	}
	return "", false
}

// DirectionOf classifies a dimension line by its dominant axis. A missing
// line counts as horizontal.
func DirectionOf(d host.Dimension) family.Direction {
	line, ok := d.Curve()
	if !ok {
		return family.Horizontal
	}
	dir := line.Direction()
	if math.Abs(dir.X) > math.Abs(dir.Y) {
		return family.Horizontal
	}
	return family.Vertical
}

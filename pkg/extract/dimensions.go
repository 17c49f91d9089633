package extract

import (
	"errors"
	"fmt"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
)

// dimensions records every single-segment, labelled dimension. Extraction
// is best effort: a dimension whose ends cannot be resolved is skipped with
// a diagnostic.
func (x *extractor) dimensions(dims []host.Dimension) {
	for i, d := range dims {
		if d.SegmentCount() != 1 {
			continue
		}
		label, ok := d.Label()
		if !ok || label == "" {
			continue
		}
		subject := fmt.Sprintf("dimension %d (%s)", i, label)

		dd, err := resolveDimension(d, label)
		if err != nil {
			x.skip(fault.KindDimensionResolution, subject, err)
			continue
		}
		x.f.Dimensions = append(x.f.Dimensions, dd)
	}
}

func resolveDimension(d host.Dimension, label string) (dd family.DimensionData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic resolving references: %v", r)
		}
	}()

	refs, err := d.References()
	if err != nil {
		return dd, err
	}
	if len(refs) < 2 {
		return dd, fmt.Errorf("need 2 references, have %d", len(refs))
	}
	if refs[0] == nil || refs[1] == nil {
		return dd, errors.New("reference is nil")
	}

	start, err := toPoint2D(ReferencePoint(refs[0]))
	if err != nil {
		return dd, err
	}
	end, err := toPoint2D(ReferencePoint(refs[1]))
	if err != nil {
		return dd, err
	}
	return family.DimensionData{Start: start, End: end, Label: label}, nil
}

// ReferencePoint resolves a dimension end: the referenced element's location
// first, then the picked global point, then the origin.
func ReferencePoint(r host.Reference) host.XYZ {
	if p, ok := r.ElementLocation(); ok {
		return p
	}
	if p, ok := r.GlobalPoint(); ok {
		return p
	}
	return host.Origin
}

// alignments records an EQ constraint for every dimension whose segments
// are flagged equal.
func (x *extractor) alignments(dims []host.Dimension) {
	for _, d := range dims {
		if !d.SegmentsEqual() {
			continue
		}
		x.f.Alignments = append(x.f.Alignments, family.AlignmentData{
			Direction: DirectionOf(d),
			Equalize:  true,
		})
	}
}

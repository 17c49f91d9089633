// Package extract reads a host family through host.Source and normalises it
// into the portable family model: parameters, the extrusion profile, the
// depth binding and the recorded dimension and equalisation constraints.
package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
	"github.com/chazu/famdef/pkg/units"
)

// Options tunes an extraction.
type Options struct {
	// SkipDimensions leaves Dimensions and Alignments empty.
	SkipDimensions bool
	Logger         *slog.Logger
}

// Result is the extracted family plus the per-item skips.
type Result struct {
	Family      *family.FamilyData
	Diagnostics []fault.Diagnostic
}

// Extract builds a FamilyData from src. It fails with NoExtrusionFound or
// ProfileReadError; dimension problems are reported as diagnostics.
func Extract(src host.Source, opts Options) (*Result, error) {
	if src == nil {
		return nil, errors.New("extract: source is nil")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	x := &extractor{src: src, log: log, f: family.New()}

	if err := x.parameters(); err != nil {
		return nil, err
	}
	if err := x.extrusion(); err != nil {
		return nil, err
	}
	if !opts.SkipDimensions {
		dims := src.Dimensions()
		x.dimensions(dims)
		x.alignments(dims)
	}

	log.Debug("extract.done",
		"parameters", len(x.f.Parameters),
		"profile_points", len(x.f.Extrusion.ProfilePoints),
		"dimensions", len(x.f.Dimensions),
		"alignments", len(x.f.Alignments),
		"skipped", len(x.diags))

	return &Result{Family: x.f, Diagnostics: x.diags}, nil
}

type extractor struct {
	src   host.Source
	log   *slog.Logger
	f     *family.FamilyData
	diags []fault.Diagnostic
}

func (x *extractor) skip(kind fault.Kind, subject string, err error) {
	d := fault.Diagnose(kind, subject, err)
	x.log.Warn("extract.skip", "kind", d.Kind, "subject", subject, "err", err)
	x.diags = append(x.diags, d)
}

// parameters records every host parameter. Length values are converted to
// mm; everything else passes through unconverted.
func (x *extractor) parameters() error {
	for _, hp := range x.src.Parameters() {
		typ := Classify(hp.DataType())
		value, ok := hp.Value()
		if !ok {
			value = 0
		}
		if typ.IsLength() {
			mm, err := units.ToMillimeters(value)
			if err != nil {
				return fmt.Errorf("extract: parameter %q: %w", hp.Name(), err)
			}
			value = mm
		} else if !units.IsFinite(value) {
			return fault.New("extract.parameters", fault.KindInvalidValue, hp.Name(),
				fmt.Errorf("non-finite value %v", value))
		}
		x.f.Parameters = append(x.f.Parameters, family.ParameterData{
			Name:  hp.Name(),
			Value: value,
			Type:  typ,
		})
	}
	return nil
}

// extrusion records the first extrusion's profile and depth binding.
func (x *extractor) extrusion() error {
	exts := x.src.Extrusions()
	if len(exts) == 0 {
		return fault.Errorf("extract.extrusion", fault.KindNoExtrusionFound, "document has no extrusion")
	}
	ext := exts[0]
	if len(exts) > 1 {
		x.log.Warn("extract.multiple_extrusions", "count", len(exts), "chosen", ext.ID())
	}

	points, err := ReadProfile(ext)
	if err != nil {
		return err
	}
	x.f.Extrusion.ProfilePoints = points

	if name, ok := ext.DepthParameter(); ok {
		x.f.Extrusion.DepthParameter = name
	}
	return nil
}

// ReadProfile emits one point per curve, using each curve's start point.
// The end point of a curve is the next curve's start point, so only
// polyline profiles are represented faithfully. Any unreadable curve fails
// the whole profile.
func ReadProfile(ext host.Extrusion) ([]family.Point2D, error) {
	curves, err := ext.Profile()
	if err != nil {
		return nil, fault.New("extract.profile", fault.KindProfileRead, fmt.Sprintf("extrusion %d", ext.ID()), err)
	}
	if len(curves) == 0 {
		return nil, fault.New("extract.profile", fault.KindProfileRead, fmt.Sprintf("extrusion %d", ext.ID()),
			errors.New("sketch profile is empty"))
	}

	points := make([]family.Point2D, 0, len(curves))
	for i, c := range curves {
		pt, err := c.StartPoint()
		if err != nil {
			return nil, fault.New("extract.profile", fault.KindProfileRead, fmt.Sprintf("curve %d", i), err)
		}
		p, err := toPoint2D(pt)
		if err != nil {
			return nil, fault.New("extract.profile", fault.KindProfileRead, fmt.Sprintf("curve %d", i), err)
		}
		points = append(points, p)
	}
	return points, nil
}

func toPoint2D(p host.XYZ) (family.Point2D, error) {
	x, err := units.ToMillimeters(p.X)
	if err != nil {
		return family.Point2D{}, err
	}
	y, err := units.ToMillimeters(p.Y)
	if err != nil {
		return family.Point2D{}, err
	}
	return family.Point2D{X: x, Y: y}, nil
}

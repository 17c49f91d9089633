// Package rebuild reconstructs a host family from the portable model:
// parameters, one extrusion driven by its depth parameter, and the "w"/EQ
// dimension convention on the first floor plan.
//
// Rebuild never opens or commits transactions. Callers wrap it in one and
// discard the document state on error.
package rebuild

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

// Defaults for Options.
const (
	DefaultToleranceMM       = 1e-6
	DefaultDepthMM           = 500.0
	DefaultFallbackDepth     = 0.5
	DefaultDimensionOffsetMM = 500.0
	DefaultWidthParameter    = family.WidthParameter
)

// dimensionHalfLength is half the length of a created dimension line, in
// internal units.
const dimensionHalfLength = 1000.0

// Options tunes a reconstruction.
type Options struct {
	// ToleranceMM is the largest coordinate difference, in mm, at which an
	// edge still counts as horizontal or vertical. Zero means
	// DefaultToleranceMM; a negative value compares exactly.
	ToleranceMM float64
	// DefaultDepthMM is used when the model names no depth parameter.
	DefaultDepthMM float64
	// FallbackDepth, in internal units, is used when the named depth
	// parameter cannot be resolved.
	FallbackDepth float64
	// DimensionOffsetMM is how far the dimension lines sit from the
	// profile.
	DimensionOffsetMM float64
	// WidthParameter labels the created dimensions.
	WidthParameter string
	Logger         *slog.Logger
}

// DefaultOptions returns the standard options.
func DefaultOptions() Options {
	return Options{
		ToleranceMM:       DefaultToleranceMM,
		DefaultDepthMM:    DefaultDepthMM,
		FallbackDepth:     DefaultFallbackDepth,
		DimensionOffsetMM: DefaultDimensionOffsetMM,
		WidthParameter:    DefaultWidthParameter,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	switch {
	case o.ToleranceMM < 0:
		o.ToleranceMM = 0
	case o.ToleranceMM == 0:
		o.ToleranceMM = d.ToleranceMM
	}
	if o.DefaultDepthMM <= 0 {
		o.DefaultDepthMM = d.DefaultDepthMM
	}
	if o.FallbackDepth <= 0 {
		o.FallbackDepth = d.FallbackDepth
	}
	if o.DimensionOffsetMM == 0 {
		o.DimensionOffsetMM = d.DimensionOffsetMM
	}
	if o.WidthParameter == "" {
		o.WidthParameter = d.WidthParameter
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Result describes what was created.
type Result struct {
	// Parameters maps every model parameter name, plus the width
	// parameter when dimensions were created, to its document parameter.
	Parameters map[string]host.FamilyParameter
	Extrusion  host.ExtrusionHandle
	// Depth is the extrusion depth at creation, in internal units.
	Depth       float64
	Edges       []Edge
	Dimensions  []Dimension
	Diagnostics []fault.Diagnostic
}

// Rebuild creates data's family in doc. It fails on the first fatal error
// and leaves any partial state for the caller's transaction to discard.
// Non-fatal binding problems are returned in Result.Diagnostics.
func Rebuild(doc host.Document, data *family.FamilyData, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New("rebuild: document is nil")
	}
	if data == nil {
		return nil, errors.New("rebuild: family data is nil")
	}
	opts = opts.withDefaults()

	pre, err := preflight(data, opts)
	if err != nil {
		return nil, err
	}

	b := &builder{
		doc:  doc,
		data: data,
		opts: opts,
		log:  opts.Logger,
		pre:  pre,
		res:  &Result{Parameters: make(map[string]host.FamilyParameter)},
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"parameters", b.parameters},
		{"extrusion", b.extrusion},
		{"bind_depth", b.bindDepth},
		{"dimensions", b.dimensions},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			b.log.Error("rebuild.failed", "step", s.name, "err", err)
			return nil, err
		}
		b.log.Debug("rebuild.step", "step", s.name)
	}

	b.log.Info("rebuild.done",
		"parameters", len(b.res.Parameters),
		"edges", len(b.res.Edges),
		"dimensions", len(b.res.Dimensions),
		"diagnostics", len(b.res.Diagnostics))
	return b.res, nil
}

type builder struct {
	doc  host.Document
	data *family.FamilyData
	opts Options
	log  *slog.Logger
	pre  *checked
	res  *Result
}

func (b *builder) diagnose(kind fault.Kind, subject string, err error) {
	d := fault.Diagnose(kind, subject, err)
	b.log.Warn("rebuild.diagnostic", "kind", d.Kind, "subject", subject, "err", err)
	b.res.Diagnostics = append(b.res.Diagnostics, d)
}

func hostErr(op, subject string, err error) error {
	return fault.New("rebuild."+op, fault.KindHost, subject, err)
}

// checked is the model converted to internal units.
type checked struct {
	values  map[string]float64
	profile []host.XYZ
}

// preflight converts and validates everything Rebuild needs before the
// document is touched.
func preflight(data *family.FamilyData, opts Options) (*checked, error) {
	c := &checked{values: make(map[string]float64, len(data.Parameters))}

	for _, p := range data.Parameters {
		v, err := units.ToInternalUnits(p.Value)
		if err != nil {
			return nil, fault.New("rebuild.preflight", fault.KindInvalidValue, "parameter "+p.Name, err)
		}
		if _, dup := c.values[p.Name]; !dup {
			c.values[p.Name] = v
		}
	}

	pts := data.Extrusion.ProfilePoints
	if len(pts) < family.MinProfilePoints {
		return nil, fault.New("rebuild.preflight", fault.KindProfileRead, "profile",
			fmt.Errorf("need %d points, have %d", family.MinProfilePoints, len(pts)))
	}
	for i, p := range pts {
		x, err := units.ToInternalUnits(p.X)
		if err != nil {
			return nil, fault.New("rebuild.preflight", fault.KindInvalidValue, fmt.Sprintf("profile point %d", i), err)
		}
		y, err := units.ToInternalUnits(p.Y)
		if err != nil {
			return nil, fault.New("rebuild.preflight", fault.KindInvalidValue, fmt.Sprintf("profile point %d", i), err)
		}
		c.profile = append(c.profile, host.XYZ{X: x, Y: y})
	}
	for i := range c.profile {
		next := c.profile[(i+1)%len(c.profile)]
		if c.profile[i] == next {
			return nil, fault.New("rebuild.preflight", fault.KindProfileRead, fmt.Sprintf("edge %d", i),
				errors.New("edge has zero length"))
		}
	}
	return c, nil
}

package document

import (
	"github.com/chazu/famdef/pkg/family"
)

// The decode-side shapes use pointers so that an absent or null key can be
// told apart from an empty one.

type documentDTO struct {
	Parameters *[]*parameterDTO `json:"Parameters" yaml:"Parameters"`
	Extrusion  *extrusionDTO    `json:"Extrusion" yaml:"Extrusion"`
	Dimensions []dimensionDTO   `json:"Dimensions" yaml:"Dimensions"`
	Alignments []alignmentDTO   `json:"Alignments" yaml:"Alignments"`
}

type parameterDTO struct {
	Name  string   `json:"Name" yaml:"Name"`
	Value *float64 `json:"Value" yaml:"Value"`
	Type  *string  `json:"Type" yaml:"Type"`
}

type extrusionDTO struct {
	ProfilePoints  *[]*family.Point2D `json:"ProfilePoints" yaml:"ProfilePoints"`
	DepthParameter *string            `json:"DepthParameter" yaml:"DepthParameter"`
}

type dimensionDTO struct {
	Start *family.Point2D `json:"Start" yaml:"Start"`
	End   *family.Point2D `json:"End" yaml:"End"`
	Label string          `json:"Label" yaml:"Label"`
}

type alignmentDTO struct {
	Direction string `json:"Direction" yaml:"Direction"`
	Equalize  *bool  `json:"Equalize" yaml:"Equalize"`
}

func (d *documentDTO) toFamily() (*family.FamilyData, error) {
	if d.Parameters == nil {
		return nil, malformed("missing Parameters")
	}
	if d.Extrusion == nil {
		return nil, malformed("missing Extrusion")
	}
	if d.Extrusion.ProfilePoints == nil {
		return nil, malformed("missing Extrusion.ProfilePoints")
	}

	f := family.New()

	for i, p := range *d.Parameters {
		if p == nil {
			return nil, malformed("parameter #%d is null", i)
		}
		pd := family.ParameterData{Name: p.Name, Type: family.TypeLength}
		if p.Value != nil {
			pd.Value = *p.Value
		}
		if p.Type != nil && *p.Type != "" {
			pd.Type = family.ParameterType(*p.Type)
		}
		f.Parameters = append(f.Parameters, pd)
	}

	for i, pt := range *d.Extrusion.ProfilePoints {
		if pt == nil {
			return nil, malformed("profile point #%d is null", i)
		}
		f.Extrusion.ProfilePoints = append(f.Extrusion.ProfilePoints, *pt)
	}
	if d.Extrusion.DepthParameter != nil {
		f.Extrusion.DepthParameter = *d.Extrusion.DepthParameter
	}

	for _, dim := range d.Dimensions {
		dd := family.DimensionData{Label: dim.Label}
		if dim.Start != nil {
			dd.Start = *dim.Start
		}
		if dim.End != nil {
			dd.End = *dim.End
		}
		f.Dimensions = append(f.Dimensions, dd)
	}

	for _, a := range d.Alignments {
		ad := family.AlignmentData{Direction: family.Direction(a.Direction), Equalize: true}
		if a.Equalize != nil {
			ad.Equalize = *a.Equalize
		}
		f.Alignments = append(f.Alignments, ad)
	}

	return f, nil
}

package family

// FamilyData is the root of the model. It is a self-contained value graph
// with no ties to host objects. Consumers treat it as read-only.
type FamilyData struct {
	Parameters []ParameterData `json:"Parameters" yaml:"Parameters"`
	Extrusion  ExtrusionData   `json:"Extrusion" yaml:"Extrusion"`
	Dimensions []DimensionData `json:"Dimensions" yaml:"Dimensions"`
	Alignments []AlignmentData `json:"Alignments" yaml:"Alignments"`
}

// New returns an empty FamilyData with non-nil sequences.
func New() *FamilyData {
	return &FamilyData{
		Parameters: []ParameterData{},
		Extrusion:  ExtrusionData{ProfilePoints: []Point2D{}},
		Dimensions: []DimensionData{},
		Alignments: []AlignmentData{},
	}
}

// Parameter returns the parameter with the given name.
func (f *FamilyData) Parameter(name string) (ParameterData, bool) {
	for _, p := range f.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterData{}, false
}

// ParameterIndex returns a name -> parameter map. Later duplicates win.
func (f *FamilyData) ParameterIndex() map[string]ParameterData {
	idx := make(map[string]ParameterData, len(f.Parameters))
	for _, p := range f.Parameters {
		idx[p.Name] = p
	}
	return idx
}

// Normalize replaces nil sequences with empty ones in place.
func (f *FamilyData) Normalize() *FamilyData {
	if f.Parameters == nil {
		f.Parameters = []ParameterData{}
	}
	if f.Extrusion.ProfilePoints == nil {
		f.Extrusion.ProfilePoints = []Point2D{}
	}
	if f.Dimensions == nil {
		f.Dimensions = []DimensionData{}
	}
	if f.Alignments == nil {
		f.Alignments = []AlignmentData{}
	}
	return f
}

// Clone returns a deep copy with normalised sequences.
func (f *FamilyData) Clone() *FamilyData {
	if f == nil {
		return nil
	}
	c := &FamilyData{
		Parameters: append([]ParameterData{}, f.Parameters...),
		Extrusion: ExtrusionData{
			ProfilePoints:  append([]Point2D{}, f.Extrusion.ProfilePoints...),
			DepthParameter: f.Extrusion.DepthParameter,
		},
		Dimensions: append([]DimensionData{}, f.Dimensions...),
		Alignments: append([]AlignmentData{}, f.Alignments...),
	}
	return c
}

// Equal reports field-for-field structural equality, preserving sequence
// order. A nil sequence equals an empty one.
func Equal(a, b *FamilyData) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Extrusion.DepthParameter != b.Extrusion.DepthParameter {
		return false
	}
	return sliceEqual(a.Parameters, b.Parameters) &&
		sliceEqual(a.Extrusion.ProfilePoints, b.Extrusion.ProfilePoints) &&
		sliceEqual(a.Dimensions, b.Dimensions) &&
		sliceEqual(a.Alignments, b.Alignments)
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

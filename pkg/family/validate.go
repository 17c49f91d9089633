package family

import (
	"fmt"

	"github.com/chazu/famdef/pkg/units"
)

// ValidationSeverity indicates whether a validation finding makes the family
// invalid or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // violates a model invariant
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // e.g. "parameter p", "profile edge 2"; empty if family-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// ValidationResult bundles errors and warnings from all tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no error findings.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs every validation tier and returns all findings. An empty
// slice means the family is valid. Validate never mutates f.
func Validate(f *FamilyData) []ValidationError {
	if f == nil {
		return []ValidationError{{Message: "family is nil", Severity: SeverityError}}
	}
	var out []ValidationError
	// Tier 1: names and references.
	out = append(out, validateParameterNames(f)...)
	out = append(out, validateParameterValues(f)...)
	out = append(out, validateDepthParameter(f)...)
	out = append(out, validateDimensionLabels(f)...)
	out = append(out, validateAlignments(f)...)
	// Tier 2: profile geometry.
	out = append(out, validateProfile(f)...)
	// Tier 3: advisory.
	out = append(out, validateReplay(f)...)
	return out
}

// ValidateAll runs Validate and separates errors from warnings.
func ValidateAll(f *FamilyData) ValidationResult {
	var r ValidationResult
	for _, e := range Validate(f) {
		if e.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, e)
		} else {
			r.Errors = append(r.Errors, e)
		}
	}
	return r
}

// validateParameterNames checks names are non-empty and unique.
func validateParameterNames(f *FamilyData) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int, len(f.Parameters))
	for i, p := range f.Parameters {
		if p.Name == "" {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("parameter #%d", i),
				Message:  "name is empty",
				Severity: SeverityError,
			})
			continue
		}
		if first, dup := seen[p.Name]; dup {
			errs = append(errs, ValidationError{
				Subject:  "parameter " + p.Name,
				Message:  fmt.Sprintf("duplicate name (first defined at #%d)", first),
				Severity: SeverityError,
			})
			continue
		}
		seen[p.Name] = i
	}
	return errs
}

// validateParameterValues checks values are finite and flags opaque types.
func validateParameterValues(f *FamilyData) []ValidationError {
	var errs []ValidationError
	for _, p := range f.Parameters {
		if !units.IsFinite(p.Value) {
			errs = append(errs, ValidationError{
				Subject:  "parameter " + p.Name,
				Message:  fmt.Sprintf("value %v is not finite", p.Value),
				Severity: SeverityError,
			})
		}
		if p.Type == "" {
			errs = append(errs, ValidationError{
				Subject:  "parameter " + p.Name,
				Message:  "type is empty",
				Severity: SeverityError,
			})
		} else if !p.Type.Known() {
			errs = append(errs, ValidationError{
				Subject:  "parameter " + p.Name,
				Message:  fmt.Sprintf("opaque host type %q will be rebuilt as Length", p.Type),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateDepthParameter checks the depth binding names a Length parameter.
func validateDepthParameter(f *FamilyData) []ValidationError {
	name := f.Extrusion.DepthParameter
	if name == "" {
		return nil
	}
	p, ok := f.Parameter(name)
	if !ok {
		return []ValidationError{{
			Subject:  "extrusion",
			Message:  fmt.Sprintf("depth parameter %q does not exist", name),
			Severity: SeverityError,
		}}
	}
	if !p.Type.IsLength() {
		return []ValidationError{{
			Subject:  "extrusion",
			Message:  fmt.Sprintf("depth parameter %q has type %s, expected Length", name, p.Type),
			Severity: SeverityError,
		}}
	}
	if p.Value <= 0 {
		return []ValidationError{{
			Subject:  "extrusion",
			Message:  fmt.Sprintf("depth parameter %q has non-positive value %v", name, p.Value),
			Severity: SeverityWarning,
		}}
	}
	return nil
}

// validateDimensionLabels checks every dimension label resolves and every
// point is finite.
func validateDimensionLabels(f *FamilyData) []ValidationError {
	var errs []ValidationError
	idx := f.ParameterIndex()
	for i, d := range f.Dimensions {
		subject := fmt.Sprintf("dimension #%d", i)
		if _, ok := idx[d.Label]; !ok {
			errs = append(errs, ValidationError{
				Subject:  subject,
				Message:  fmt.Sprintf("label %q does not name a parameter", d.Label),
				Severity: SeverityError,
			})
		}
		if !pointFinite(d.Start) || !pointFinite(d.End) {
			errs = append(errs, ValidationError{
				Subject:  subject,
				Message:  "end point is not finite",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateAlignments checks directions are Horizontal or Vertical.
func validateAlignments(f *FamilyData) []ValidationError {
	var errs []ValidationError
	for i, a := range f.Alignments {
		if !a.Direction.Valid() {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("alignment #%d", i),
				Message:  fmt.Sprintf("unknown direction %q", a.Direction),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// WidthParameter is the parameter the reconstruction convention labels its
// dimensions with.
const WidthParameter = "w"

// validateReplay warns about recorded constraints that reconstruction does
// not replay: only the width dimension and vertical EQ are rebuilt.
func validateReplay(f *FamilyData) []ValidationError {
	var warnings []ValidationError
	for i, d := range f.Dimensions {
		if d.Label != WidthParameter {
			warnings = append(warnings, ValidationError{
				Subject:  fmt.Sprintf("dimension #%d", i),
				Message:  fmt.Sprintf("dimension labelled %q is recorded but not rebuilt", d.Label),
				Severity: SeverityWarning,
			})
		}
	}
	for i, a := range f.Alignments {
		if a.Direction == Horizontal && a.Equalize {
			warnings = append(warnings, ValidationError{
				Subject:  fmt.Sprintf("alignment #%d", i),
				Message:  "horizontal EQ is recorded but not rebuilt",
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

func pointFinite(p Point2D) bool {
	return units.IsFinite(p.X) && units.IsFinite(p.Y)
}

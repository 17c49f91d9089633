// Package document serialises a family model to and from its portable text
// form. The field names of the document are the compatibility surface:
// Parameters, Extrusion.ProfilePoints, Extrusion.DepthParameter, Dimensions
// and Alignments, with nested Name/Value/Type, X/Y, Start/End/Label and
// Direction/Equalize. Renaming any of them is a breaking change.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/units"
	"gopkg.in/yaml.v3"
)

// Format selects the textual flavour of a document.
type Format int

const (
	JSON Format = iota // canonical
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return JSON, fmt.Errorf("document: unknown format %q", s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Encode writes f as canonical JSON.
func Encode(f *family.FamilyData) ([]byte, error) {
	return EncodeFormat(f, JSON)
}

// Decode reads a canonical JSON document.
func Decode(b []byte) (*family.FamilyData, error) {
	return DecodeFormat(b, JSON)
}

// EncodeFormat writes f in the given format. Nil sequences are written as
// empty sequences; an absent depth parameter is omitted.
func EncodeFormat(f *family.FamilyData, format Format) ([]byte, error) {
	if f == nil {
		return nil, fault.Errorf("document.Encode", fault.KindInvalidValue, "family is nil")
	}
	if err := checkFinite(f); err != nil {
		return nil, err
	}
	out := f.Clone()

	switch format {
	case JSON:
		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("document: encode json: %w", err)
		}
		return append(b, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("document: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("document: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("document: unsupported format %s", format)
	}
}

// DecodeFormat reads a document in the given format. It fails with
// fault.KindMalformedDocument if the input is not an object, if Parameters
// or Extrusion.ProfilePoints are absent, or if a field has the wrong shape.
// Absent Dimensions and Alignments decode as empty sequences.
func DecodeFormat(b []byte, format Format) (*family.FamilyData, error) {
	var doc documentDTO
	switch format {
	case JSON:
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, malformed("invalid json: %v", err)
		}
	case YAML:
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, malformed("invalid yaml: %v", err)
		}
	default:
		return nil, fmt.Errorf("document: unsupported format %s", format)
	}
	return doc.toFamily()
}

// ReadFile decodes the document at path, choosing the format by extension.
func ReadFile(path string) (*family.FamilyData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	f, err := DecodeFormat(b, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("document: %s: %w", path, err)
	}
	return f, nil
}

// WriteFile encodes f to path, choosing the format by extension.
func WriteFile(path string, f *family.FamilyData) error {
	b, err := EncodeFormat(f, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	return nil
}

func malformed(format string, args ...any) error {
	return fault.Errorf("document.Decode", fault.KindMalformedDocument, format, args...)
}

func checkFinite(f *family.FamilyData) error {
	bad := func(subject string) error {
		return fault.New("document.Encode", fault.KindInvalidValue, subject, fmt.Errorf("value is not finite"))
	}
	for _, p := range f.Parameters {
		if !units.IsFinite(p.Value) {
			return bad("parameter " + p.Name)
		}
	}
	for i, p := range f.Extrusion.ProfilePoints {
		if !units.IsFinite(p.X) || !units.IsFinite(p.Y) {
			return bad(fmt.Sprintf("profile point #%d", i))
		}
	}
	for i, d := range f.Dimensions {
		if !units.IsFinite(d.Start.X) || !units.IsFinite(d.Start.Y) ||
			!units.IsFinite(d.End.X) || !units.IsFinite(d.End.Y) {
			return bad(fmt.Sprintf("dimension #%d", i))
		}
	}
	return nil
}

package rebuild

import (
	"errors"

	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
)

// parameters creates each missing model parameter as a Length in the
// Constraints group and assigns its value. Parameters that already exist
// are reused untouched. Every name ends up in Result.Parameters.
func (b *builder) parameters() error {
	canSet := b.doc.HasCurrentType()
	if !canSet {
		b.log.Warn("rebuild.no_current_type")
	}

	for _, p := range b.data.Parameters {
		if _, seen := b.res.Parameters[p.Name]; seen {
			continue
		}
		if existing, ok := b.doc.Parameter(p.Name); ok {
			b.res.Parameters[p.Name] = existing
			continue
		}

		fp, err := b.doc.AddParameter(p.Name, host.GroupConstraints, host.SpecLength)
		if err != nil {
			return hostErr("parameters", "parameter "+p.Name, err)
		}
		b.res.Parameters[p.Name] = fp

		if !canSet {
			b.diagnose(fault.KindParameterBinding, "parameter "+p.Name,
				errors.New("document has no current type, value not assigned"))
			continue
		}
		if err := b.doc.SetValue(fp, b.pre.values[p.Name]); err != nil {
			b.diagnose(fault.KindParameterBinding, "parameter "+p.Name, err)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"io"

	"github.com/chazu/famdef/pkg/document"
	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/host/memhost"
	"github.com/chazu/famdef/pkg/units"
	"github.com/spf13/cobra"
)

// roundTripTolerance is the mm difference accepted after the unit
// conversions of a rebuild and re-export.
const roundTripTolerance = 1e-6

func newRoundTripCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <document>",
		Short: "Rebuild a document and export it again",
		Long: `roundtrip rebuilds a document in the in-memory reference host, extracts
it again and writes the re-exported document to stdout. Differences in the
parameters or the extrusion are reported and fail the command; dimensions
and alignments are only compared by count, since rebuilding replays the
"w"/EQ convention instead of every recorded entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			format, err := a.outputFormat()
			if err != nil {
				return err
			}

			svc := a.service(format)
			doc := memhost.New()
			if _, err := svc.Apply(in, doc); err != nil {
				return err
			}
			exp, err := svc.Export(doc, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			diffs := compareFamilies(in, exp.Family, roundTripTolerance)
			reportDiffs(cmd.ErrOrStderr(), in, exp.Family, diffs)
			if len(diffs) > 0 {
				return fmt.Errorf("round trip changed %d items", len(diffs))
			}
			return nil
		},
	}
}

// compareFamilies lists the differences in the parameters and extrusion
// that the rebuild should have preserved. Parameters present only in got
// are not differences.
func compareFamilies(want, got *family.FamilyData, tol float64) []string {
	var diffs []string
	idx := got.ParameterIndex()
	for _, p := range want.Parameters {
		g, ok := idx[p.Name]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("parameter %q missing", p.Name))
		case !units.NearlyEqual(p.Value, g.Value, tol):
			diffs = append(diffs, fmt.Sprintf("parameter %q: value %v became %v", p.Name, p.Value, g.Value))
		}
	}

	wp, gp := want.Extrusion.ProfilePoints, got.Extrusion.ProfilePoints
	if len(wp) != len(gp) {
		diffs = append(diffs, fmt.Sprintf("profile: %d points became %d", len(wp), len(gp)))
	} else {
		for i := range wp {
			if !units.NearlyEqual(wp[i].X, gp[i].X, tol) || !units.NearlyEqual(wp[i].Y, gp[i].Y, tol) {
				diffs = append(diffs, fmt.Sprintf("profile point %d: (%v, %v) became (%v, %v)",
					i, wp[i].X, wp[i].Y, gp[i].X, gp[i].Y))
			}
		}
	}

	if want.Extrusion.DepthParameter != got.Extrusion.DepthParameter {
		diffs = append(diffs, fmt.Sprintf("depth parameter %q became %q",
			want.Extrusion.DepthParameter, got.Extrusion.DepthParameter))
	}
	return diffs
}

func reportDiffs(w io.Writer, want, got *family.FamilyData, diffs []string) {
	for _, d := range diffs {
		fmt.Fprintln(w, "diff:", d)
	}
	fmt.Fprintf(w, "dimensions: %d -> %d, alignments: %d -> %d\n",
		len(want.Dimensions), len(got.Dimensions), len(want.Alignments), len(got.Alignments))
}

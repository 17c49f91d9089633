package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/famdef/pkg/document"
	"github.com/chazu/famdef/pkg/host/memhost"
	"github.com/chazu/famdef/pkg/interchange"
	"github.com/chazu/famdef/pkg/kernel"
	"github.com/chazu/famdef/pkg/kernel/sdfx"
	"github.com/chazu/famdef/pkg/tessellate"
	"github.com/chazu/famdef/pkg/units"
	"github.com/spf13/cobra"
)

func newRebuildCmd(a *app) *cobra.Command {
	var meshPath string

	cmd := &cobra.Command{
		Use:   "rebuild <document>",
		Short: "Rebuild a document in the in-memory reference host",
		Long: `rebuild imports a document into an empty in-memory family and reports
the created edges, extrusion depth, dimensions and any binding problems.
With --mesh the rebuilt solid is meshed and written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc := memhost.New()
			rep, err := a.service(document.FormatFromPath(args[0])).Apply(f, doc)
			if err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), rep)

			if meshPath == "" {
				return nil
			}
			meshes, err := tessellate.Document(doc, sdfx.NewWithCells(a.cfg.Preview.MeshCells))
			if err != nil {
				return err
			}
			if err := writeMeshes(meshPath, meshes); err != nil {
				return err
			}
			a.log.Info("rebuild.mesh_written", "path", meshPath, "meshes", len(meshes))
			return nil
		},
	}
	cmd.Flags().StringVar(&meshPath, "mesh", "", "write the rebuilt solid as a JSON triangle mesh to this file")
	return cmd
}

func printImport(w io.Writer, rep *interchange.ImportReport) {
	res := rep.Result
	depth, _ := units.ToMillimeters(res.Depth)
	fmt.Fprintf(w, "parameters: %d\n", len(res.Parameters))
	fmt.Fprintf(w, "edges: %d\n", len(res.Edges))
	fmt.Fprintf(w, "depth: %.6g mm\n", depth)
	for _, d := range res.Dimensions {
		label := d.Label
		if label == "" {
			label = "(unlabelled)"
		}
		eq := ""
		if d.Equalized {
			eq = " EQ"
		}
		fmt.Fprintf(w, "dimension: %s edges %d-%d %s%s\n", d.Direction, d.From.Index, d.To.Index, label, eq)
	}
	for _, f := range rep.Findings {
		fmt.Fprintf(w, "finding: %s\n", f.Error())
	}
	for _, d := range rep.Diagnostics {
		fmt.Fprintf(w, "diagnostic: %s\n", d.String())
	}
}

func writeMeshes(path string, meshes []*kernel.Mesh) error {
	b, err := json.Marshal(meshes)
	if err != nil {
		return fmt.Errorf("encode meshes: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write meshes: %w", err)
	}
	return nil
}

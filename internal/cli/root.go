// Package cli implements the famdef command line tool: a developer tool
// over the in-memory reference host for checking, converting and
// rebuilding family documents.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/famdef/internal/config"
	"github.com/chazu/famdef/internal/logging"
	"github.com/chazu/famdef/pkg/document"
	"github.com/chazu/famdef/pkg/interchange"
	"github.com/chazu/famdef/pkg/rebuild"
	"github.com/spf13/cobra"
)

// app is the state shared by all commands of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	format   string

	cfg *config.Config
	log *slog.Logger
}

// NewRootCmd builds the famdef command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "famdef",
		Short: "famdef - family geometry interchange tool",
		Long: `famdef reads and writes portable family definition documents.
It validates and converts documents and rebuilds them in an in-memory
reference host to check what an import would create.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./famdef.yaml or ~/.config/famdef/famdef.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output document format override: json or yaml")

	root.AddCommand(
		newCheckCmd(a),
		newConvertCmd(a),
		newRebuildCmd(a),
		newRoundTripCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "famdef:", err)
		os.Exit(1)
	}
}

func (a *app) init(stderr io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if a.cfgFile != "" {
		cfg, err = config.NewFileLoader(a.cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.format != "" {
		cfg.Document.Format = a.format
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(level, cfg.Log.Format, stderr)
	return nil
}

func (a *app) outputFormat() (document.Format, error) {
	return document.ParseFormat(a.cfg.Document.Format)
}

func (a *app) rebuildOptions() rebuild.Options {
	r := a.cfg.Rebuild
	return rebuild.Options{
		ToleranceMM:       r.ToleranceMM,
		DefaultDepthMM:    r.DefaultDepthMM,
		FallbackDepth:     r.FallbackDepth,
		DimensionOffsetMM: r.DimensionOffsetMM,
		WidthParameter:    r.WidthParameter,
		Logger:            a.log,
	}
}

func (a *app) service(format document.Format) *interchange.Service {
	return interchange.New(interchange.Options{
		Format:  format,
		Rebuild: a.rebuildOptions(),
		Strict:  a.cfg.Rebuild.Strict,
		Logger:  a.log,
	})
}

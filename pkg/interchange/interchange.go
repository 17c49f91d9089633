// Package interchange is the host-facing entry point of the engine. Export
// extracts a family from a host and writes its document; Import reads a
// document and rebuilds the family inside one host transaction.
package interchange

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/famdef/pkg/document"
	"github.com/chazu/famdef/pkg/extract"
	"github.com/chazu/famdef/pkg/family"
	"github.com/chazu/famdef/pkg/fault"
	"github.com/chazu/famdef/pkg/host"
	"github.com/chazu/famdef/pkg/rebuild"
)

// TransactionName labels the import transaction in the host's undo
// history.
const TransactionName = "Import family"

// Options configures a Service.
type Options struct {
	Format  document.Format
	Extract extract.Options
	Rebuild rebuild.Options
	// Strict refuses to import a family with error-severity validation
	// findings. By default they are logged and the import goes ahead.
	Strict bool
	Logger *slog.Logger
}

// Service runs exports and imports.
type Service struct {
	opts Options
	log  *slog.Logger
}

// New creates a Service. Engine options without a logger inherit
// opts.Logger.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Extract.Logger == nil {
		opts.Extract.Logger = log
	}
	if opts.Rebuild.Logger == nil {
		opts.Rebuild.Logger = log
	}
	return &Service{opts: opts, log: log}
}

// ExportReport is the outcome of an export.
type ExportReport struct {
	Family      *family.FamilyData
	Diagnostics []fault.Diagnostic
}

// Extract reads the family from src without encoding it.
func (s *Service) Extract(src host.Source) (*ExportReport, error) {
	res, err := extract.Extract(src, s.opts.Extract)
	if err != nil {
		s.log.Error("export.failed", "err", err)
		return nil, err
	}
	return &ExportReport{Family: res.Family, Diagnostics: res.Diagnostics}, nil
}

// Export extracts the family from src and writes its document to w.
// Nothing is written when extraction fails.
func (s *Service) Export(src host.Source, w io.Writer) (*ExportReport, error) {
	rep, err := s.Extract(src)
	if err != nil {
		return nil, err
	}
	b, err := document.EncodeFormat(rep.Family, s.opts.Format)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		return nil, fmt.Errorf("interchange: write document: %w", err)
	}
	s.log.Info("export.done",
		"format", s.opts.Format,
		"parameters", len(rep.Family.Parameters),
		"profile_points", len(rep.Family.Extrusion.ProfilePoints),
		"diagnostics", len(rep.Diagnostics))
	return rep, nil
}

// ImportReport is the outcome of an import.
type ImportReport struct {
	Family      *family.FamilyData
	Findings    []family.ValidationError
	Result      *rebuild.Result
	Diagnostics []fault.Diagnostic
}

// Import decodes a document from r and rebuilds it in doc.
func (s *Service) Import(r io.Reader, doc host.TransactionalDocument) (*ImportReport, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("interchange: read document: %w", err)
	}
	f, err := document.DecodeFormat(b, s.opts.Format)
	if err != nil {
		s.log.Error("import.decode_failed", "err", err)
		return nil, err
	}
	return s.Apply(f, doc)
}

// Apply validates f and rebuilds it in doc inside one transaction. Any
// fatal error rolls the transaction back, so doc is left as it was.
func (s *Service) Apply(f *family.FamilyData, doc host.TransactionalDocument) (*ImportReport, error) {
	if doc == nil {
		return nil, errors.New("interchange: document is nil")
	}
	rep := &ImportReport{Family: f, Findings: family.Validate(f)}

	blocking := 0
	for _, finding := range rep.Findings {
		if finding.Severity == family.SeverityError {
			blocking++
			s.log.Warn("import.validation", "severity", finding.Severity, "subject", finding.Subject, "msg", finding.Message)
		} else {
			s.log.Info("import.validation", "severity", finding.Severity, "subject", finding.Subject, "msg", finding.Message)
		}
	}
	if s.opts.Strict && blocking > 0 {
		return rep, fault.Errorf("interchange.Import", fault.KindInvalidValue,
			"family has %d validation errors", blocking)
	}

	tx, err := doc.Begin(TransactionName)
	if err != nil {
		return rep, fault.New("interchange.Import", fault.KindHost, "begin transaction", err)
	}

	res, err := rebuild.Rebuild(doc, f, s.opts.Rebuild)
	if err != nil {
		s.rollBack(tx)
		return rep, err
	}
	rep.Result = res
	rep.Diagnostics = res.Diagnostics

	if err := tx.Commit(); err != nil {
		s.rollBack(tx)
		return rep, fault.New("interchange.Import", fault.KindHost, "commit transaction", err)
	}
	s.log.Info("import.done",
		"edges", len(res.Edges),
		"dimensions", len(res.Dimensions),
		"diagnostics", len(res.Diagnostics))
	return rep, nil
}

func (s *Service) rollBack(tx host.Transaction) {
	if err := tx.RollBack(); err != nil {
		s.log.Error("import.rollback_failed", "err", err)
		return
	}
	s.log.Info("import.rolled_back")
}

package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrInvalidDocumentFormat indicates an unknown document format.
	ErrInvalidDocumentFormat = errors.New("invalid document format")

	// ErrInvalidRebuild indicates unusable reconstruction settings.
	ErrInvalidRebuild = errors.New("invalid rebuild settings")

	// ErrInvalidPreview indicates unusable meshing settings.
	ErrInvalidPreview = errors.New("invalid preview settings")
)

// Validate checks every section and reports all problems at once.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	var errs []error

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.Log.Format))
	}

	switch strings.ToLower(cfg.Document.Format) {
	case "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidDocumentFormat, cfg.Document.Format))
	}

	if err := validateRebuild(&cfg.Rebuild); err != nil {
		errs = append(errs, err)
	}

	if cfg.Preview.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("%w: mesh_cells must be positive, got %d", ErrInvalidPreview, cfg.Preview.MeshCells))
	}

	return errors.Join(errs...)
}

func validateRebuild(r *RebuildConfig) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	switch {
	case !finite(r.ToleranceMM):
		return fmt.Errorf("%w: tolerance_mm must be finite, got %v", ErrInvalidRebuild, r.ToleranceMM)
	case !finite(r.DefaultDepthMM) || r.DefaultDepthMM <= 0:
		return fmt.Errorf("%w: default_depth_mm must be positive, got %v", ErrInvalidRebuild, r.DefaultDepthMM)
	case !finite(r.FallbackDepth) || r.FallbackDepth <= 0:
		return fmt.Errorf("%w: fallback_depth must be positive, got %v", ErrInvalidRebuild, r.FallbackDepth)
	case !finite(r.DimensionOffsetMM):
		return fmt.Errorf("%w: dimension_offset_mm must be finite", ErrInvalidRebuild)
	case strings.TrimSpace(r.WidthParameter) == "":
		return fmt.Errorf("%w: width_parameter is empty", ErrInvalidRebuild)
	}
	return nil
}

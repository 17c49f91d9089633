// Package config loads famdef settings from famdef.yaml with FAMDEF_*
// environment overrides.
package config

// Config is the complete famdef configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Document DocumentConfig `yaml:"document" mapstructure:"document"`
	Rebuild  RebuildConfig  `yaml:"rebuild" mapstructure:"rebuild"`
	Preview  PreviewConfig  `yaml:"preview" mapstructure:"preview"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DocumentConfig configures document output.
type DocumentConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // json or yaml; input format follows the file extension
}

// RebuildConfig mirrors rebuild.Options.
type RebuildConfig struct {
	ToleranceMM       float64 `yaml:"tolerance_mm" mapstructure:"tolerance_mm"` // 0 = default, negative = exact
	DefaultDepthMM    float64 `yaml:"default_depth_mm" mapstructure:"default_depth_mm"`
	FallbackDepth     float64 `yaml:"fallback_depth" mapstructure:"fallback_depth"` // internal units
	DimensionOffsetMM float64 `yaml:"dimension_offset_mm" mapstructure:"dimension_offset_mm"`
	WidthParameter    string  `yaml:"width_parameter" mapstructure:"width_parameter"`
	Strict            bool    `yaml:"strict" mapstructure:"strict"` // refuse families with validation errors
}

// PreviewConfig configures meshing.
type PreviewConfig struct {
	MeshCells int `yaml:"mesh_cells" mapstructure:"mesh_cells"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Document: DocumentConfig{
			Format: "json",
		},
		Rebuild: RebuildConfig{
			ToleranceMM:       1e-6,
			DefaultDepthMM:    500,
			FallbackDepth:     0.5,
			DimensionOffsetMM: 500,
			WidthParameter:    "w",
		},
		Preview: PreviewConfig{
			MeshCells: 200,
		},
	}
}

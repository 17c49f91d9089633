package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file name without extension.
const FileName = "famdef"

// EnvPrefix prefixes environment overrides, e.g. FAMDEF_LOG_LEVEL.
const EnvPrefix = "FAMDEF"

// Loader provides configuration loading.
type Loader interface {
	// Load loads configuration.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	dirs []string
	file string
}

// NewLoader searches famdef.yaml in dir, then in $HOME/.config/famdef.
func NewLoader(dir string) Loader {
	dirs := []string{dir}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "famdef"))
	}
	return &loader{dirs: dirs}
}

// NewFileLoader reads exactly the given file, which must exist.
func NewFileLoader(path string) Loader {
	return &loader{file: path}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, d := range l.dirs {
			v.AddConfigPath(d)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"log.level",
		"log.format",
		"document.format",
		"rebuild.tolerance_mm",
		"rebuild.default_depth_mm",
		"rebuild.fallback_depth",
		"rebuild.dimension_offset_mm",
		"rebuild.width_parameter",
		"rebuild.strict",
		"preview.mesh_cells",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("document.format", d.Document.Format)

	v.SetDefault("rebuild.tolerance_mm", d.Rebuild.ToleranceMM)
	v.SetDefault("rebuild.default_depth_mm", d.Rebuild.DefaultDepthMM)
	v.SetDefault("rebuild.fallback_depth", d.Rebuild.FallbackDepth)
	v.SetDefault("rebuild.dimension_offset_mm", d.Rebuild.DimensionOffsetMM)
	v.SetDefault("rebuild.width_parameter", d.Rebuild.WidthParameter)
	v.SetDefault("rebuild.strict", d.Rebuild.Strict)

	v.SetDefault("preview.mesh_cells", d.Preview.MeshCells)
}

// LoadConfig loads configuration using the current working directory.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

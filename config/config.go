// Package config loads meshio settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`

	// Write holds the default flags used when writing meshes
	Write WriteConfig `mapstructure:"write"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`
	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// WriteConfig mirrors the mesh writer flags
type WriteConfig struct {
	ASCII         bool `mapstructure:"ascii"`
	Compressed    bool `mapstructure:"compressed"`
	VertexNormals bool `mapstructure:"vertex_normals"`
	VertexColors  bool `mapstructure:"vertex_colors"`
	TriangleUVs   bool `mapstructure:"triangle_uvs"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/meshio.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Write: WriteConfig{
			VertexNormals: true,
			VertexColors:  true,
			TriangleUVs:   true,
		},
	}
}

// Load reads configuration from path when non-empty, otherwise from
// meshio.yaml in the working directory or $HOME/.meshio. A missing file is not
// an error. Environment variables use the prefix MESHIO with '.' replaced by
// '_', for example MESHIO_LOG_LEVEL=debug.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MESHIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults so env-only configs work
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("write.ascii", cfg.Write.ASCII)
	v.SetDefault("write.compressed", cfg.Write.Compressed)
	v.SetDefault("write.vertex_normals", cfg.Write.VertexNormals)
	v.SetDefault("write.vertex_colors", cfg.Write.VertexColors)
	v.SetDefault("write.triangle_uvs", cfg.Write.TriangleUVs)

	if path == "" {
		path = os.Getenv("MESHIO_CONFIG")
	}
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName("meshio")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".meshio"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "":
		c.Log.Format = "console"
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	return nil
}

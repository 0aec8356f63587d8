// Package config loads the process configuration from YAML with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the CLI and any serving layer
// built on top of the engine.
type Config struct {
	DataDir     string  `yaml:"data_dir"`     // converted book folders
	UploadDir   string  `yaml:"upload_dir"`   // retained raw uploads
	CacheSize   int     `yaml:"cache_size"`   // bounded book cache capacity
	RasterScale float64 `yaml:"raster_scale"` // PDF page upscale factor
	TOCStride   int     `yaml:"toc_stride"`   // fallback PDF TOC page stride
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:     "data",
		UploadDir:   "uploads",
		CacheSize:   10,
		RasterScale: 2,
		TOCStride:   10,
	}
}

// Load reads the configuration file, layers FOLIO_-prefixed
// environment overrides on top, and validates the result. Fields left
// unset in the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func Validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}
	if cfg.CacheSize <= 0 {
		return fmt.Errorf("invalid cache_size: %d", cfg.CacheSize)
	}
	if cfg.RasterScale <= 0 {
		return fmt.Errorf("invalid raster_scale: %g", cfg.RasterScale)
	}
	if cfg.TOCStride <= 0 {
		return fmt.Errorf("invalid toc_stride: %d", cfg.TOCStride)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides,
// prefixed with FOLIO_.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("FOLIO_DATA_DIR"); val != "" {
		cfg.DataDir = val
	}
	if val := os.Getenv("FOLIO_UPLOAD_DIR"); val != "" {
		cfg.UploadDir = val
	}
	if val := os.Getenv("FOLIO_CACHE_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.CacheSize = n
		}
	}
	if val := os.Getenv("FOLIO_RASTER_SCALE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.RasterScale = f
		}
	}
	if val := os.Getenv("FOLIO_TOC_STRIDE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.TOCStride = n
		}
	}
}

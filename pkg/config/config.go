package config

import (
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// ScanConfig holds duplicate-detection settings
type ScanConfig struct {
	Algorithm models.DigestAlgorithm `yaml:"algorithm"`
	Mode      models.HashMode        `yaml:"mode"`
	Recursive bool                   `yaml:"recursive"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int   `yaml:"max_workers"`
	ChunkSize  int   `yaml:"chunk_size"`
	ReadLimit  int64 `yaml:"read_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar while hashing
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "text" or "json"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Algorithm: models.DigestMD5,
			Mode:      models.ModeQuick,
			Recursive: true,
		},
		Performance: PerformanceConfig{
			MaxWorkers: 5,
			ChunkSize:  models.DefaultChunkSize,
			ReadLimit:  0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
		Exclude: nil,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Scan.Mode.Valid() {
		return &models.ValidationError{
			Field:   "scan.mode",
			Message: "must be 'quick' or 'full'",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.ChunkSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.chunk_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.ReadLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.read_limit",
			Message: "cannot be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'text' or 'json'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}

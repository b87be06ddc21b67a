package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PeterSK-bit/dups-scanner/internal/platform"
	"github.com/PeterSK-bit/dups-scanner/pkg/config"
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// validateScanFlags validates the scan command flags. Existence of the
// roots is deliberately not checked here: a missing root must surface
// through the engine with its dedicated exit code, not as a flag error.
func validateScanFlags() error {
	if err := platform.ValidatePath(scanFlags.Source); err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	if err := platform.ValidatePath(scanFlags.Target); err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	sourceAbs, err := filepath.Abs(platform.NormalizePath(scanFlags.Source))
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}

	targetAbs, err := filepath.Abs(platform.NormalizePath(scanFlags.Target))
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	if sourceAbs == targetAbs {
		return fmt.Errorf("source and target cannot be the same: %s", sourceAbs)
	}

	// A nested target would be scanned as part of the source tree and
	// every candidate pair would collapse on path uniqueness
	if strings.HasPrefix(targetAbs, sourceAbs+string(filepath.Separator)) {
		return fmt.Errorf("target cannot be inside source directory")
	}
	if strings.HasPrefix(sourceAbs, targetAbs+string(filepath.Separator)) {
		return fmt.Errorf("source cannot be inside target directory")
	}

	// Validate hashing mode
	if !models.HashMode(scanFlags.Mode).Valid() {
		return fmt.Errorf("invalid hashing mode: %s (valid: quick, full)", scanFlags.Mode)
	}

	// The hashing algorithm is not validated here: an unknown value
	// falls back to md5 with a warning

	if scanFlags.ReadLimit != "" {
		if _, err := parseByteRate(scanFlags.ReadLimit); err != nil {
			return fmt.Errorf("invalid read limit: %w", err)
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[scanFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", scanFlags.Output)
	}
	if !validFormats[scanFlags.ReportFormat] {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", scanFlags.ReportFormat)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) error {
	if scanFlags.Algorithm != "" {
		cfg.Scan.Algorithm = models.DigestAlgorithm(scanFlags.Algorithm)
	}
	if scanFlags.Mode != "" {
		cfg.Scan.Mode = models.HashMode(scanFlags.Mode)
	}
	cfg.Scan.Recursive = scanFlags.Recursive

	// Parallel workers (default: 5)
	if scanFlags.Workers > 0 {
		cfg.Performance.MaxWorkers = scanFlags.Workers
	} else if cfg.Performance.MaxWorkers == 0 {
		cfg.Performance.MaxWorkers = 5
	}

	if scanFlags.ReadLimit != "" {
		limit, err := parseByteRate(scanFlags.ReadLimit)
		if err != nil {
			return err
		}
		cfg.Performance.ReadLimit = limit
	}

	// Exclude patterns
	if len(scanFlags.Exclude) > 0 {
		cfg.Exclude = scanFlags.Exclude
	}

	// Output format
	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}

	// Logging
	if scanFlags.LogFile != "" {
		cfg.Logging.File = scanFlags.LogFile
	}
	if scanFlags.LogFormat != "" {
		cfg.Logging.Format = scanFlags.LogFormat
	}
	if scanFlags.LogLevel != "" {
		cfg.Logging.Level = scanFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	return nil
}

// createScanOperation creates a scan operation from configuration
func createScanOperation(cfg *config.Config) (*models.ScanOperation, error) {
	operation := &models.ScanOperation{
		ID:              uuid.New().String(),
		SourcePath:      platform.NormalizePath(scanFlags.Source),
		TargetPath:      platform.NormalizePath(scanFlags.Target),
		Algorithm:       cfg.Scan.Algorithm,
		Mode:            cfg.Scan.Mode,
		ChunkSize:       cfg.Performance.ChunkSize,
		Recursive:       cfg.Scan.Recursive,
		ExcludePatterns: cfg.Exclude,
		AutoDelete:      scanFlags.Delete,
		DryRun:          scanFlags.DryRun,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		ReadLimit:       cfg.Performance.ReadLimit,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// parseByteRate parses a human byte rate like "500K", "10M" or "1G"
// into bytes per second. A bare number is taken as bytes.
func parseByteRate(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "G")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse rate %q", s)
	}
	if value < 0 {
		return 0, fmt.Errorf("rate cannot be negative")
	}

	return value * multiplier, nil
}

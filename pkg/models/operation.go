package models

import (
	"time"
)

// DigestAlgorithm selects the hash function used for fingerprints
type DigestAlgorithm string

const (
	// DigestMD5 is the fastest option and the default
	DigestMD5 DigestAlgorithm = "md5"
	// DigestSHA1 trades some speed for a larger digest
	DigestSHA1 DigestAlgorithm = "sha1"
	// DigestSHA256 is the slowest but collision-hardest option
	DigestSHA256 DigestAlgorithm = "sha256"
)

// Valid reports whether the algorithm is one of the supported set
func (a DigestAlgorithm) Valid() bool {
	switch a {
	case DigestMD5, DigestSHA1, DigestSHA256:
		return true
	}
	return false
}

// HashMode selects how much of each file is fingerprinted
type HashMode string

const (
	// ModeQuick digests only a bounded leading chunk of each file.
	// Files that differ only beyond the chunk boundary are
	// indistinguishable; that risk is traded for speed.
	ModeQuick HashMode = "quick"
	// ModeFull digests entire files, eliminating prefix-based false positives
	ModeFull HashMode = "full"
)

// Valid reports whether the mode is one of the supported set
func (m HashMode) Valid() bool {
	return m == ModeQuick || m == ModeFull
}

// DefaultChunkSize is the read granularity for fingerprinting and the
// quick-mode prefix length (1 MiB)
const DefaultChunkSize = 1 << 20

// ScanOperation represents a duplicate-scan run configuration
type ScanOperation struct {
	ID              string
	SourcePath      string
	TargetPath      string
	Algorithm       DigestAlgorithm
	Mode            HashMode
	ChunkSize       int
	Recursive       bool
	ExcludePatterns []string
	AutoDelete      bool
	DryRun          bool
	MaxWorkers      int
	ReadLimit       int64 // bytes per second, 0 = unlimited
	CreatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Validate checks if the operation configuration is valid
func (op *ScanOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if op.TargetPath == "" {
		return &ValidationError{Field: "TargetPath", Message: "target path is required"}
	}
	if !op.Mode.Valid() {
		return &ValidationError{Field: "Mode", Message: "hashing mode must be 'quick' or 'full'"}
	}
	if op.ChunkSize < 1024 {
		return &ValidationError{Field: "ChunkSize", Message: "chunk size must be at least 1024 bytes"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.ReadLimit < 0 {
		return &ValidationError{Field: "ReadLimit", Message: "read limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

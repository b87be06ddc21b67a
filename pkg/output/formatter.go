package output

import (
	"io"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// Event types reported through ProgressUpdate
const (
	EventFileHashed  = "file_hashed"
	EventFileSkipped = "file_skipped"
	EventPairFound   = "pair_found"
	EventFileDeleted = "file_deleted"
	EventFileKept    = "file_kept"
	EventDeleteError = "delete_error"
)

// ProgressUpdate represents a progress notification during a scan run
type ProgressUpdate struct {
	Type        string // One of the Event* constants
	FilePath    string
	SourcePath  string // Set for pair events
	Bytes       int64
	CurrentFile int
	TotalFiles  int
	Error       error
}

// Formatter defines the interface for run output formatting.
// Implementations include human-readable, JSON and progress-bar
// formatters.
type Formatter interface {
	// Start initializes the formatter for a new run.
	// totalFiles is the number of files entering the fingerprint stage.
	Start(writer io.Writer, totalFiles int) error

	// Progress reports progress during the run
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the summary
	Complete(report *models.RunReport) error

	// Error reports a fatal error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

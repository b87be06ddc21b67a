package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer     io.Writer
	totalFiles int
	startTime  time.Time

	pairColor  *color.Color
	errorColor *color.Color
	noteColor  *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{
		pairColor:  color.New(color.FgYellow),
		errorColor: color.New(color.FgRed),
		noteColor:  color.New(color.FgCyan),
	}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int) error {
	f.writer = writer
	f.totalFiles = totalFiles
	f.startTime = time.Now()

	if writer != nil && totalFiles > 0 {
		fmt.Fprintf(writer, "Fingerprinting %d files...\n", totalFiles)
	}

	return nil
}

// Progress reports progress during the run
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case EventFileSkipped:
		f.noteColor.Fprintf(f.writer, "skipped %s: %v\n", update.FilePath, update.Error)

	case EventPairFound:
		f.pairColor.Fprintf(f.writer, "Duplicate: %s <-> %s\n", update.SourcePath, update.FilePath)

	case EventFileDeleted:
		fmt.Fprintf(f.writer, "deleted %s (%s)\n", update.FilePath, formatBytes(update.Bytes))

	case EventDeleteError:
		f.errorColor.Fprintf(f.writer, "failed to delete %s: %v\n", update.FilePath, update.Error)
	}

	return nil
}

// Complete finalizes output and displays the summary
func (f *HumanFormatter) Complete(report *models.RunReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Scan completed in %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Scanned:\n")
	fmt.Fprintf(f.writer, "    Source files:    %d\n", report.Stats.SourceFilesScanned)
	fmt.Fprintf(f.writer, "    Target files:    %d\n", report.Stats.TargetFilesScanned)
	fmt.Fprintf(f.writer, "    Excluded:        %d\n", report.Stats.FilesExcluded)
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "  Fingerprinting (%s, %s mode):\n", report.Algorithm, report.Mode)
	fmt.Fprintf(f.writer, "    Fingerprinted:   %d\n", report.Stats.FilesFingerprinted)
	fmt.Fprintf(f.writer, "    Skipped:         %d\n", report.Stats.FilesSkipped)
	fmt.Fprintf(f.writer, "    Data hashed:     %s\n", formatBytes(report.Stats.BytesHashed))
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "  Duplicates:\n")
	fmt.Fprintf(f.writer, "    Pairs found:     %d\n", report.Stats.PairsFound)
	fmt.Fprintf(f.writer, "    Files deleted:   %d\n", report.Stats.FilesDeleted)
	fmt.Fprintf(f.writer, "    Files kept:      %d\n", report.Stats.FilesKept)
	fmt.Fprintf(f.writer, "    Delete errors:   %d\n", report.Stats.DeleteErrors)
	fmt.Fprintf(f.writer, "    Reclaimed:       %s\n", formatBytes(report.Stats.BytesReclaimed))

	if report.DryRun {
		fmt.Fprintf(f.writer, "\n")
		f.noteColor.Fprintln(f.writer, "Dry run: no files were deleted.")
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Status: %s\n", report.Status)

	if len(report.Errors) > 0 {
		fmt.Fprintf(f.writer, "\nWarnings:\n")
		for _, err := range report.Errors {
			fmt.Fprintf(f.writer, "  [%s] %s: %s\n", err.Stage, err.Path, err.Error)
		}
	}

	return nil
}

// Error reports a fatal error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		f.errorColor.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// JSONFormatter emits the final report as a single JSON document.
// Per-file progress is suppressed so stdout stays machine-parseable.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	return nil
}

// Progress is a no-op for JSON output
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as indented JSON
func (f *JSONFormatter) Complete(report *models.RunReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport(report)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}

// Error reports a fatal error as a JSON object on stderr
func (f *JSONFormatter) Error(err error) error {
	enc := json.NewEncoder(os.Stderr)
	return enc.Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// jsonReport reshapes the report with duration in whole milliseconds
// so consumers don't have to parse Go duration strings
func jsonReport(report *models.RunReport) map[string]interface{} {
	return map[string]interface{}{
		"operation_id": report.OperationID,
		"source_path":  report.SourcePath,
		"target_path":  report.TargetPath,
		"algorithm":    report.Algorithm,
		"mode":         report.Mode,
		"dry_run":      report.DryRun,
		"start_time":   report.StartTime,
		"end_time":     report.EndTime,
		"duration_ms":  report.Duration.Milliseconds(),
		"stats":        report.Stats,
		"pairs":        report.Pairs,
		"errors":       report.Errors,
		"status":       report.Status,
	}
}

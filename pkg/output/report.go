package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// WriteReport writes the run report to a file, as JSON or in the human
// summary format. An empty path writes to stdout.
func WriteReport(report *models.RunReport, path string, format string) error {
	var writer *os.File
	if path == "" {
		writer = os.Stdout
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	switch format {
	case "json":
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonReport(report)); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	default:
		f := NewHumanFormatter()
		if err := f.Start(writer, 0); err != nil {
			return err
		}
		for _, pair := range report.Pairs {
			f.Progress(ProgressUpdate{
				Type:       EventPairFound,
				SourcePath: pair.SourcePath,
				FilePath:   pair.TargetPath,
			})
		}
		if err := f.Complete(report); err != nil {
			return err
		}
	}

	return nil
}

package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// ProgressFormatter renders a progress bar over the fingerprinting
// stage and falls back to the human formatter for pair reporting and
// the final summary.
type ProgressFormatter struct {
	writer io.Writer
	bar    *pb.ProgressBar
	human  *HumanFormatter
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{
		human: NewHumanFormatter(),
	}
}

// Start initializes the formatter and starts the bar
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	if totalFiles > 0 {
		f.bar = pb.New(totalFiles)
		f.bar.SetWriter(writer)
		f.bar.SetMaxWidth(100)
		f.bar.Start()
	}

	return nil
}

// Progress advances the bar on per-file events
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case EventFileHashed, EventFileSkipped:
		f.bar.Increment()
	}

	return nil
}

// Complete stops the bar and prints the human summary
func (f *ProgressFormatter) Complete(report *models.RunReport) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}

	f.human.writer = f.writer
	// Replay pair events from the report so duplicates are listed
	// after the bar instead of interleaving with it
	for _, pair := range report.Pairs {
		f.human.Progress(ProgressUpdate{
			Type:       EventPairFound,
			SourcePath: pair.SourcePath,
			FilePath:   pair.TargetPath,
		})
	}

	return f.human.Complete(report)
}

// Error stops the bar and reports the error
func (f *ProgressFormatter) Error(err error) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	f.human.writer = f.writer
	return f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

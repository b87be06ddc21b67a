package engine

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/PeterSK-bit/dups-scanner/pkg/fingerprint"
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
	"github.com/PeterSK-bit/dups-scanner/pkg/output"
)

// fingerprintWorker fans file fingerprinting out over a bounded pool
// of goroutines
type fingerprintWorker struct {
	fingerprinter *fingerprint.Fingerprinter
	mode          models.HashMode
	maxWorkers    int
	semaphore     chan struct{}

	mu        sync.Mutex
	processed int
}

func newFingerprintWorker(fp *fingerprint.Fingerprinter, mode models.HashMode, maxWorkers int) *fingerprintWorker {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &fingerprintWorker{
		fingerprinter: fp,
		mode:          mode,
		maxWorkers:    maxWorkers,
		semaphore:     make(chan struct{}, maxWorkers),
	}
}

// Execute fingerprints paths in parallel and returns one record per
// readable file. A file that cannot be read is recorded on the report
// as a recoverable error and skipped; it never aborts the run.
func (w *fingerprintWorker) Execute(ctx context.Context, paths []string, origin models.Origin, report *models.RunReport, formatter output.Formatter) []models.FileRecord {
	var wg sync.WaitGroup
	records := make([]models.FileRecord, 0, len(paths))

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		// Acquire semaphore slot
		w.semaphore <- struct{}{}
		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			defer func() { <-w.semaphore }()

			digest, err := w.fingerprinter.Compute(ctx, path, w.mode)

			var size int64
			if err == nil {
				var info os.FileInfo
				info, err = os.Stat(path)
				if err == nil {
					size = info.Size()
				}
			}

			w.mu.Lock()
			defer w.mu.Unlock()
			w.processed++

			if err != nil {
				report.Stats.FilesSkipped++
				report.Errors = append(report.Errors, models.RunError{
					Path:      path,
					Stage:     models.StageFingerprinting,
					Error:     err.Error(),
					Timestamp: time.Now(),
				})

				if formatter != nil {
					formatter.Progress(output.ProgressUpdate{
						Type:        output.EventFileSkipped,
						FilePath:    path,
						CurrentFile: w.processed,
						Error:       err,
					})
				}
				return
			}

			records = append(records, models.FileRecord{
				Path:        path,
				Fingerprint: digest,
				Size:        size,
				Origin:      origin,
			})
			report.Stats.FilesFingerprinted++
			report.Stats.BytesHashed += hashedBytes(size, w.mode, w.fingerprinter.ChunkSize())

			if formatter != nil {
				formatter.Progress(output.ProgressUpdate{
					Type:        output.EventFileHashed,
					FilePath:    path,
					Bytes:       size,
					CurrentFile: w.processed,
				})
			}
		}(path)
	}

	wg.Wait()
	return records
}

// hashedBytes returns how many bytes of a file the given mode reads
func hashedBytes(size int64, mode models.HashMode, chunkSize int) int64 {
	if mode == models.ModeQuick && size > int64(chunkSize) {
		return int64(chunkSize)
	}
	return size
}

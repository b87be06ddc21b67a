package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/PeterSK-bit/dups-scanner/pkg/catalog"
	"github.com/PeterSK-bit/dups-scanner/pkg/fingerprint"
	"github.com/PeterSK-bit/dups-scanner/pkg/logging"
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
	"github.com/PeterSK-bit/dups-scanner/pkg/output"
	"github.com/PeterSK-bit/dups-scanner/pkg/resolve"
	"github.com/PeterSK-bit/dups-scanner/pkg/scanner"
)

// Engine orchestrates a duplicate scan run through its stages:
// scanning both roots, fingerprinting, cataloging, matching and
// resolving. A run is strictly linear; a fatal error in any stage
// ends it and later stages never see partial state.
type Engine struct {
	scanner       *scanner.Scanner
	fingerprinter *fingerprint.Fingerprinter
	decider       resolve.Decider
	remover       resolve.Remover
	formatter     output.Formatter
	logger        logging.Logger
	operation     *models.ScanOperation
	out           io.Writer
}

// New creates a scan engine
func New(
	scn *scanner.Scanner,
	fp *fingerprint.Fingerprinter,
	decider resolve.Decider,
	remover resolve.Remover,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.ScanOperation,
) *Engine {
	return &Engine{
		scanner:       scn,
		fingerprinter: fp,
		decider:       decider,
		remover:       remover,
		formatter:     formatter,
		logger:        logger,
		operation:     operation,
		out:           os.Stdout,
	}
}

// SetOutput redirects formatter output, e.g. to io.Discard for quiet runs
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// Run executes the scan operation and returns a report. The report is
// returned even on failure so the caller can map its status to an exit
// code; the error describes the fatal condition when the status is not
// success. Per-file read failures are not fatal: they are collected in
// the report's Errors and the run still succeeds.
func (e *Engine) Run(ctx context.Context) (*models.RunReport, error) {
	startTime := time.Now()
	report := &models.RunReport{
		OperationID: e.operation.ID,
		SourcePath:  e.operation.SourcePath,
		TargetPath:  e.operation.TargetPath,
		Algorithm:   e.fingerprinter.Algorithm(),
		Mode:        e.operation.Mode,
		DryRun:      e.operation.DryRun,
		StartTime:   startTime,
		Status:      models.StatusSuccess,
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Starting scan operation", logging.Fields{
			"operation_id": e.operation.ID,
			"source":       e.operation.SourcePath,
			"target":       e.operation.TargetPath,
			"algorithm":    string(report.Algorithm),
			"mode":         string(e.operation.Mode),
			"max_workers":  e.operation.MaxWorkers,
		})
	}

	started := time.Now()
	e.operation.StartedAt = &started

	// Scanning runs single-threaded, so counting excluded paths from
	// the callback needs no locking
	e.scanner.SetExcludeCallback(func(path string) {
		report.Stats.FilesExcluded++
	})

	// Phase 1: Scan both roots
	if e.logger != nil {
		e.logger.Info(ctx, "Scanning source directory", logging.Fields{"path": e.operation.SourcePath})
	}
	sourceFiles, err := e.scanner.Scan(ctx, e.operation.SourcePath, e.operation.Recursive)
	if err != nil {
		return e.fail(ctx, report, models.StageScanning, scanStatus(err), err)
	}
	report.Stats.SourceFilesScanned = len(sourceFiles)

	if e.logger != nil {
		e.logger.Info(ctx, "Scanning target directory", logging.Fields{"path": e.operation.TargetPath})
	}
	targetFiles, err := e.scanner.Scan(ctx, e.operation.TargetPath, e.operation.Recursive)
	if err != nil {
		return e.fail(ctx, report, models.StageScanning, scanStatus(err), err)
	}
	report.Stats.TargetFilesScanned = len(targetFiles)

	// Phase 2: Fingerprint everything in parallel
	totalFiles := len(sourceFiles) + len(targetFiles)
	if e.formatter != nil {
		e.formatter.Start(e.out, totalFiles)
	}

	worker := newFingerprintWorker(e.fingerprinter, e.operation.Mode, e.operation.MaxWorkers)
	records := worker.Execute(ctx, sourceFiles, models.OriginSource, report, e.formatter)
	records = append(records, worker.Execute(ctx, targetFiles, models.OriginTarget, report, e.formatter)...)

	if err := ctx.Err(); err != nil {
		return e.fail(ctx, report, models.StageFingerprinting, models.StatusScanFailed, err)
	}

	// Phase 3: Populate the catalog
	cat := catalog.New()
	if err := cat.Insert(records); err != nil {
		return e.fail(ctx, report, models.StageCataloging, models.StatusCatalogFailed, err)
	}
	report.Stats.RecordsCataloged = cat.Count()

	// Phase 4: Query for duplicate pairs
	pairs, err := cat.FindDuplicates()
	if err != nil {
		return e.fail(ctx, report, models.StageMatching, models.StatusCatalogFailed, err)
	}
	report.Pairs = pairs
	report.Stats.PairsFound = len(pairs)

	if e.formatter != nil {
		for _, pair := range pairs {
			e.formatter.Progress(output.ProgressUpdate{
				Type:       output.EventPairFound,
				SourcePath: pair.SourcePath,
				FilePath:   pair.TargetPath,
			})
		}
	}

	// Phase 5: Resolve each pair
	e.resolvePairs(ctx, report)

	// Finalize
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	completed := time.Now()
	e.operation.CompletedAt = &completed

	if e.formatter != nil {
		e.formatter.Complete(report)
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Scan completed", logging.Fields{
			"duration":      report.Duration.String(),
			"status":        string(report.Status),
			"pairs_found":   report.Stats.PairsFound,
			"files_deleted": report.Stats.FilesDeleted,
			"files_skipped": report.Stats.FilesSkipped,
		})
	}

	return report, nil
}

// resolvePairs runs the removal decision over every duplicate pair.
// Decision and removal failures are recoverable: they are recorded and
// the loop moves on to the next pair.
func (e *Engine) resolvePairs(ctx context.Context, report *models.RunReport) {
	// A target matched by several source files appears in several
	// pairs but must only be deleted (and counted) once
	deleted := make(map[string]bool)

	for _, pair := range report.Pairs {
		if ctx.Err() != nil {
			return
		}
		if deleted[pair.TargetPath] {
			continue
		}

		decision, err := e.decider.Decide(pair)
		if err != nil {
			report.Stats.FilesKept++
			report.Errors = append(report.Errors, models.RunError{
				Path:      pair.TargetPath,
				Stage:     models.StageResolving,
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		if decision != resolve.DecisionDelete {
			report.Stats.FilesKept++
			if e.formatter != nil {
				e.formatter.Progress(output.ProgressUpdate{
					Type:       output.EventFileKept,
					FilePath:   pair.TargetPath,
					SourcePath: pair.SourcePath,
				})
			}
			continue
		}

		// Stat before removal so reclaimed bytes can be reported
		var size int64
		if info, err := os.Stat(pair.TargetPath); err == nil {
			size = info.Size()
		}

		if err := e.remover.Remove(pair.TargetPath); err != nil {
			report.Stats.DeleteErrors++
			report.Errors = append(report.Errors, models.RunError{
				Path:      pair.TargetPath,
				Stage:     models.StageResolving,
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			if e.logger != nil {
				e.logger.Warn(ctx, "Failed to delete duplicate file", logging.Fields{
					"path":  pair.TargetPath,
					"error": err.Error(),
				})
			}
			if e.formatter != nil {
				e.formatter.Progress(output.ProgressUpdate{
					Type:       output.EventDeleteError,
					FilePath:   pair.TargetPath,
					SourcePath: pair.SourcePath,
					Error:      err,
				})
			}
			continue
		}

		deleted[pair.TargetPath] = true
		report.Stats.FilesDeleted++
		report.Stats.BytesReclaimed += size

		if e.logger != nil {
			e.logger.Debug(ctx, "Removed duplicate file", logging.Fields{
				"path":   pair.TargetPath,
				"source": pair.SourcePath,
			})
		}
		if e.formatter != nil {
			e.formatter.Progress(output.ProgressUpdate{
				Type:       output.EventFileDeleted,
				FilePath:   pair.TargetPath,
				SourcePath: pair.SourcePath,
				Bytes:      size,
			})
		}
	}
}

// fail finalizes the report for a fatal error in the given stage
func (e *Engine) fail(ctx context.Context, report *models.RunReport, stage models.Stage, status models.RunStatus, err error) (*models.RunReport, error) {
	report.Status = status
	report.FailedStage = stage
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	if e.logger != nil {
		e.logger.Error(ctx, "Scan failed", err, logging.Fields{
			"stage": string(stage),
		})
	}
	if e.formatter != nil {
		e.formatter.Error(err)
	}

	return report, err
}

// scanStatus maps a traversal error to a run status. A missing root is
// distinguished from every other failure because callers branch on its
// exit code.
func scanStatus(err error) models.RunStatus {
	var notFound *scanner.PathNotFoundError
	if errors.As(err, &notFound) {
		return models.StatusPathNotFound
	}
	return models.StatusScanFailed
}

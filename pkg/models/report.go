package models

import (
	"time"
)

// Stage identifies a step of the scan pipeline
type Stage string

const (
	StageInit           Stage = "init"
	StageScanning       Stage = "scanning"
	StageFingerprinting Stage = "fingerprinting"
	StageCataloging     Stage = "cataloging"
	StageMatching       Stage = "matching"
	StageResolving      Stage = "resolving"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

// RunStatus represents the overall result of a scan run
type RunStatus string

const (
	// StatusSuccess indicates the run completed, possibly with
	// recoverable per-file skips
	StatusSuccess RunStatus = "success"
	// StatusPathNotFound indicates a configured root does not exist
	StatusPathNotFound RunStatus = "path_not_found"
	// StatusScanFailed indicates an unexpected failure during traversal
	StatusScanFailed RunStatus = "scan_failed"
	// StatusCatalogFailed indicates catalog population or query failed
	StatusCatalogFailed RunStatus = "catalog_failed"
)

// ExitCode returns the process exit code for the run status.
// The non-zero values are stable so calling scripts can branch on them.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPathNotFound:
		return 2
	case StatusScanFailed:
		return 3
	case StatusCatalogFailed:
		return 4
	default:
		return 3
	}
}

// RunError records a recoverable per-file error encountered during a run
type RunError struct {
	Path      string    `json:"path"`
	Stage     Stage     `json:"stage"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Statistics holds scan run metrics
type Statistics struct {
	SourceFilesScanned int   `json:"source_files_scanned"`
	TargetFilesScanned int   `json:"target_files_scanned"`
	FilesFingerprinted int   `json:"files_fingerprinted"`
	FilesSkipped       int   `json:"files_skipped"`
	FilesExcluded      int   `json:"files_excluded"`
	RecordsCataloged   int   `json:"records_cataloged"`
	PairsFound         int   `json:"pairs_found"`
	FilesDeleted       int   `json:"files_deleted"`
	FilesKept          int   `json:"files_kept"`
	DeleteErrors       int   `json:"delete_errors"`
	BytesHashed        int64 `json:"bytes_hashed"`
	BytesReclaimed     int64 `json:"bytes_reclaimed"`
}

// RunReport represents the results of a scan run
type RunReport struct {
	OperationID string          `json:"operation_id"`
	SourcePath  string          `json:"source_path"`
	TargetPath  string          `json:"target_path"`
	Algorithm   DigestAlgorithm `json:"algorithm"`
	Mode        HashMode        `json:"mode"`
	DryRun      bool            `json:"dry_run"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	Stats Statistics `json:"stats"`

	// Pairs are all duplicates found during matching
	Pairs []DuplicatePair `json:"pairs"`

	// Errors are recoverable errors; fatal errors are reported through
	// Status and the returned error instead
	Errors []RunError `json:"errors,omitempty"`

	// FailedStage is set when Status is not success
	FailedStage Stage `json:"failed_stage,omitempty"`

	Status RunStatus `json:"status"`
}

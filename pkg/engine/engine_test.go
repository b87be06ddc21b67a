package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PeterSK-bit/dups-scanner/pkg/fingerprint"
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
	"github.com/PeterSK-bit/dups-scanner/pkg/resolve"
	"github.com/PeterSK-bit/dups-scanner/pkg/scanner"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

func testOperation(source, target string) *models.ScanOperation {
	return &models.ScanOperation{
		ID:         "test-operation",
		SourcePath: source,
		TargetPath: target,
		Algorithm:  models.DigestMD5,
		Mode:       models.ModeQuick,
		ChunkSize:  models.DefaultChunkSize,
		Recursive:  true,
		MaxWorkers: 2,
	}
}

func newTestEngine(op *models.ScanOperation, decider resolve.Decider, remover resolve.Remover) *Engine {
	fp := fingerprint.New(op.Algorithm, op.ChunkSize, nil)
	e := New(scanner.New(op.ExcludePatterns), fp, decider, remover, nil, nil, op)
	return e
}

func TestRunFindsDuplicatePair(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	hello := writeFile(t, source, "hello.txt", "hello world")
	copied := writeFile(t, target, "copy.txt", "hello world")
	writeFile(t, target, "other.txt", "something else")

	op := testOperation(source, target)
	e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want %s", report.Status, models.StatusSuccess)
	}
	if report.Status.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", report.Status.ExitCode())
	}
	if report.Stats.SourceFilesScanned != 1 {
		t.Errorf("SourceFilesScanned = %d, want 1", report.Stats.SourceFilesScanned)
	}
	if report.Stats.TargetFilesScanned != 2 {
		t.Errorf("TargetFilesScanned = %d, want 2", report.Stats.TargetFilesScanned)
	}
	if report.Stats.FilesFingerprinted != 3 {
		t.Errorf("FilesFingerprinted = %d, want 3", report.Stats.FilesFingerprinted)
	}
	if len(report.Pairs) != 1 {
		t.Fatalf("Pairs = %d, want 1", len(report.Pairs))
	}
	if report.Pairs[0].SourcePath != hello || report.Pairs[0].TargetPath != copied {
		t.Errorf("pair = %+v, want %s <-> %s", report.Pairs[0], hello, copied)
	}
	if report.Stats.FilesKept != 1 {
		t.Errorf("FilesKept = %d, want 1", report.Stats.FilesKept)
	}
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("target file should still exist without delete: %v", err)
	}
}

func TestRunUnreadableFileSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "a.txt", "readable content")
	unreadable := writeFile(t, target, "b.txt", "readable content")
	if err := os.Chmod(unreadable, 0000); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(unreadable, 0644) })

	op := testOperation(source, target)
	e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want %s", report.Status, models.StatusSuccess)
	}
	if report.Stats.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", report.Stats.FilesSkipped)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("Errors = %d, want 1", len(report.Errors))
	}
	if report.Errors[0].Stage != models.StageFingerprinting {
		t.Errorf("error stage = %s, want %s", report.Errors[0].Stage, models.StageFingerprinting)
	}
	if report.Errors[0].Path != unreadable {
		t.Errorf("error path = %s, want %s", report.Errors[0].Path, unreadable)
	}
	if len(report.Pairs) != 0 {
		t.Errorf("Pairs = %d, want 0", len(report.Pairs))
	}
}

func TestRunAutoDelete(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	content := "duplicate payload"
	writeFile(t, source, "original.txt", content)
	dup := writeFile(t, target, "dup.txt", content)
	kept := writeFile(t, target, "unique.txt", "nothing like it")

	op := testOperation(source, target)
	op.AutoDelete = true
	e := newTestEngine(op, resolve.NewAutoDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.FilesDeleted != 1 {
		t.Errorf("FilesDeleted = %d, want 1", report.Stats.FilesDeleted)
	}
	if report.Stats.BytesReclaimed != int64(len(content)) {
		t.Errorf("BytesReclaimed = %d, want %d", report.Stats.BytesReclaimed, len(content))
	}
	if _, err := os.Stat(dup); !os.IsNotExist(err) {
		t.Errorf("duplicate should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("unique file should survive: %v", err)
	}
}

func TestRunDryRun(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "a.txt", "same bytes")
	dup := writeFile(t, target, "b.txt", "same bytes")

	op := testOperation(source, target)
	op.AutoDelete = true
	op.DryRun = true
	remover := resolve.NewNopRemover()
	e := newTestEngine(op, resolve.NewAutoDecider(), remover)

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !report.DryRun {
		t.Error("report should be flagged as dry run")
	}
	if report.Stats.FilesDeleted != 1 {
		t.Errorf("FilesDeleted = %d, want 1", report.Stats.FilesDeleted)
	}
	if _, err := os.Stat(dup); err != nil {
		t.Errorf("dry run must not touch the filesystem: %v", err)
	}
	if len(remover.Removed) != 1 || remover.Removed[0] != dup {
		t.Errorf("Removed = %v, want [%s]", remover.Removed, dup)
	}
}

func TestRunMissingRoot(t *testing.T) {
	target := t.TempDir()

	tests := []struct {
		name   string
		source string
		target string
	}{
		{name: "MissingSource", source: filepath.Join(target, "nope"), target: target},
		{name: "MissingTarget", source: target, target: filepath.Join(target, "nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := testOperation(tt.source, tt.target)
			e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

			report, err := e.Run(context.Background())
			if err == nil {
				t.Fatal("Run() should fail for a missing root")
			}
			if report.Status != models.StatusPathNotFound {
				t.Errorf("Status = %s, want %s", report.Status, models.StatusPathNotFound)
			}
			if report.Status.ExitCode() != 2 {
				t.Errorf("ExitCode() = %d, want 2", report.Status.ExitCode())
			}
			if report.FailedStage != models.StageScanning {
				t.Errorf("FailedStage = %s, want %s", report.FailedStage, models.StageScanning)
			}
		})
	}
}

func TestRunDirectionalMatching(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	// Identical content confined to one side must never pair
	writeFile(t, source, "a.txt", "source only twins")
	writeFile(t, source, "b.txt", "source only twins")
	writeFile(t, target, "c.txt", "target only twins")
	writeFile(t, target, "d.txt", "target only twins")

	op := testOperation(source, target)
	e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Pairs) != 0 {
		t.Errorf("Pairs = %d, want 0 (matching is source to target only)", len(report.Pairs))
	}
}

func TestRunSharedTargetDeletedOnce(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	content := "shared content"
	writeFile(t, source, "a.txt", content)
	writeFile(t, source, "b.txt", content)
	writeFile(t, target, "c.txt", content)

	op := testOperation(source, target)
	op.AutoDelete = true
	e := newTestEngine(op, resolve.NewAutoDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.PairsFound != 2 {
		t.Errorf("PairsFound = %d, want 2 (cross product)", report.Stats.PairsFound)
	}
	if report.Stats.FilesDeleted != 1 {
		t.Errorf("FilesDeleted = %d, want 1 (shared target deleted once)", report.Stats.FilesDeleted)
	}
	if report.Stats.DeleteErrors != 0 {
		t.Errorf("DeleteErrors = %d, want 0", report.Stats.DeleteErrors)
	}
}

func TestRunSizeMismatchNotPaired(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "a.txt", "abc")
	writeFile(t, target, "b.txt", "abcd")

	op := testOperation(source, target)
	e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.Pairs) != 0 {
		t.Errorf("Pairs = %d, want 0", len(report.Pairs))
	}
}

func TestRunExcludePatterns(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "keep.txt", "identical")
	writeFile(t, target, "keep.txt", "identical")
	writeFile(t, target, "skip.tmp", "identical")

	op := testOperation(source, target)
	op.ExcludePatterns = []string{"*.tmp"}
	e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Stats.FilesExcluded != 1 {
		t.Errorf("FilesExcluded = %d, want 1", report.Stats.FilesExcluded)
	}
	if len(report.Pairs) != 1 {
		t.Errorf("Pairs = %d, want 1 (excluded file must not match)", len(report.Pairs))
	}
}

func TestRunCancelledContext(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, source, "a.txt", "content")
	writeFile(t, target, "b.txt", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := testOperation(source, target)
	e := newTestEngine(op, resolve.NewKeepDecider(), resolve.NewOSRemover())

	report, err := e.Run(ctx)
	if err == nil {
		t.Fatal("Run() should fail with a cancelled context")
	}
	if report.Status == models.StatusSuccess {
		t.Errorf("Status = %s, want a failure status", report.Status)
	}
}

func TestHashedBytes(t *testing.T) {
	tests := []struct {
		name      string
		size      int64
		mode      models.HashMode
		chunkSize int
		expected  int64
	}{
		{name: "QuickSmallFile", size: 100, mode: models.ModeQuick, chunkSize: 1024, expected: 100},
		{name: "QuickLargeFile", size: 10_000, mode: models.ModeQuick, chunkSize: 1024, expected: 1024},
		{name: "FullLargeFile", size: 10_000, mode: models.ModeFull, chunkSize: 1024, expected: 10_000},
		{name: "QuickExactChunk", size: 1024, mode: models.ModeQuick, chunkSize: 1024, expected: 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hashedBytes(tt.size, tt.mode, tt.chunkSize); got != tt.expected {
				t.Errorf("hashedBytes(%d, %s, %d) = %d, want %d", tt.size, tt.mode, tt.chunkSize, got, tt.expected)
			}
		})
	}
}

package fingerprint

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"

	"github.com/PeterSK-bit/dups-scanner/pkg/logging"
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// ReaderWrapper wraps a file reader, e.g. for rate limiting
type ReaderWrapper func(io.Reader) io.Reader

// Fingerprinter computes hex-encoded content digests for files.
// The digest algorithm is fixed at construction and applied uniformly
// to every file in a run.
type Fingerprinter struct {
	algorithm     models.DigestAlgorithm
	chunkSize     int
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper
}

// New creates a fingerprinter for the given algorithm and chunk size.
// An unrecognized algorithm logs a warning and falls back to md5;
// construction never fails.
func New(algorithm models.DigestAlgorithm, chunkSize int, logger logging.Logger) *Fingerprinter {
	if !algorithm.Valid() {
		if logger != nil {
			logger.Warn(context.Background(), "Invalid hashing algorithm, defaulting to md5", logging.Fields{
				"algorithm": string(algorithm),
			})
		}
		algorithm = models.DigestMD5
	}
	if chunkSize < 1024 {
		chunkSize = models.DefaultChunkSize
	}

	return &Fingerprinter{
		algorithm: algorithm,
		chunkSize: chunkSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// SetReaderWrapper sets a function to wrap file readers (e.g., for rate limiting)
func (f *Fingerprinter) SetReaderWrapper(wrapper ReaderWrapper) {
	f.readerWrapper = wrapper
}

// Algorithm returns the effective digest algorithm
func (f *Fingerprinter) Algorithm() models.DigestAlgorithm {
	return f.algorithm
}

// ChunkSize returns the read granularity and quick-mode prefix length
func (f *Fingerprinter) ChunkSize() int {
	return f.chunkSize
}

// newHasher returns a fresh hash state for the configured algorithm
func (f *Fingerprinter) newHasher() hash.Hash {
	switch f.algorithm {
	case models.DigestSHA1:
		return sha1.New()
	case models.DigestSHA256:
		return sha256.New()
	default:
		return md5.New()
	}
}

// Quick digests at most one chunk of leading bytes of the file.
// Files longer than the chunk size that differ only beyond it produce
// the same digest; that false-positive risk is traded for speed.
// Read failures are returned to the caller so one unreadable file
// never aborts a whole run.
func (f *Fingerprinter) Quick(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if f.readerWrapper != nil {
		reader = f.readerWrapper(reader)
	}

	hasher := f.newHasher()

	bufPtr := f.bufferPool.Get().(*[]byte)
	defer f.bufferPool.Put(bufPtr)
	buf := *bufPtr

	var totalRead int
	for totalRead < f.chunkSize {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buf[:f.chunkSize-totalRead])
		if n > 0 {
			hasher.Write(buf[:n])
			totalRead += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Full digests the entire file in bounded chunks
func (f *Fingerprinter) Full(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if f.readerWrapper != nil {
		reader = f.readerWrapper(reader)
	}

	hasher := f.newHasher()

	bufPtr := f.bufferPool.Get().(*[]byte)
	defer f.bufferPool.Put(bufPtr)
	buf := *bufPtr

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Compute dispatches to Quick or Full based on the given mode
func (f *Fingerprinter) Compute(ctx context.Context, path string, mode models.HashMode) (string, error) {
	if mode == models.ModeFull {
		return f.Full(ctx, path)
	}
	return f.Quick(ctx, path)
}

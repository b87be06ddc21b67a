package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PathNotFoundError indicates a scan root that does not exist.
// It is checked before traversal begins and maps to its own exit code.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return "path does not exist: " + e.Path
}

// Scanner enumerates regular files under a root path
type Scanner struct {
	excludePatterns []string
	onExclude       func(path string) // Optional callback for excluded paths
}

// New creates a scanner with optional exclude glob patterns
func New(excludePatterns []string) *Scanner {
	return &Scanner{excludePatterns: excludePatterns}
}

// SetExcludeCallback sets a callback invoked for every excluded path
func (s *Scanner) SetExcludeCallback(callback func(path string)) {
	s.onExclude = callback
}

// Scan returns the absolute paths of all regular files under rootPath,
// depth-first. When recursive is false only files directly under the
// root are returned. Symlinks are resolved through stat: a link to a
// directory is traversed, a link to a file is yielded, and a dangling
// link is skipped. The root not existing is reported as
// *PathNotFoundError before any traversal; other filesystem errors
// propagate to the caller.
func (s *Scanner) Scan(ctx context.Context, rootPath string, recursive bool) ([]string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, err := os.Stat(absRoot); os.IsNotExist(err) {
		return nil, &PathNotFoundError{Path: rootPath}
	} else if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	var files []string
	if err := s.walk(ctx, absRoot, absRoot, recursive, &files); err != nil {
		return nil, err
	}

	return files, nil
}

// walk visits one directory level, descending when recursive is set
func (s *Scanner) walk(ctx context.Context, root, dir string, recursive bool, files *[]string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				// Dangling symlink or a file removed mid-scan
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", fullPath, err)
		}

		relPath, err := filepath.Rel(root, fullPath)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive {
				continue
			}
			if shouldExclude(relPath, s.excludePatterns) {
				if s.onExclude != nil {
					s.onExclude(fullPath)
				}
				continue
			}
			if err := s.walk(ctx, root, fullPath, recursive, files); err != nil {
				return err
			}
			continue
		}

		if shouldExclude(relPath, s.excludePatterns) {
			if s.onExclude != nil {
				s.onExclude(fullPath)
			}
			continue
		}

		*files = append(*files, fullPath)
	}

	return nil
}

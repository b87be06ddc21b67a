package resolve

import (
	"os"
)

// Remover abstracts file removal so dry runs and tests can substitute
// the filesystem
type Remover interface {
	Remove(path string) error
}

// OSRemover deletes files through the operating system
type OSRemover struct{}

// NewOSRemover creates a remover backed by os.Remove
func NewOSRemover() *OSRemover {
	return &OSRemover{}
}

// Remove deletes the file at path
func (r *OSRemover) Remove(path string) error {
	return os.Remove(path)
}

// NopRemover records would-be deletions without touching the
// filesystem. It backs the --dry-run flag.
type NopRemover struct {
	// Removed collects the paths that would have been deleted
	Removed []string
}

// NewNopRemover creates a remover that never deletes
func NewNopRemover() *NopRemover {
	return &NopRemover{}
}

// Remove records the path and succeeds
func (r *NopRemover) Remove(path string) error {
	r.Removed = append(r.Removed, path)
	return nil
}

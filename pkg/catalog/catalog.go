package catalog

import (
	"sort"

	"github.com/PeterSK-bit/dups-scanner/pkg/models"
)

// contentKey is the compound join key for duplicate matching.
// Fingerprint alone is insufficient given quick-mode truncation, size
// alone is insufficient given collision risk; requiring both narrows
// false positives.
type contentKey struct {
	fingerprint string
	size        int64
}

// bucket partitions the records sharing one content key by origin
type bucket struct {
	sourcePaths []string
	targetPaths []string
}

// Catalog is an in-memory index of fingerprinted files, created fresh
// per run, populated once and queried once. Insert is first-writer-wins
// on path; there are no update or delete operations.
type Catalog struct {
	paths   map[string]struct{}
	buckets map[contentKey]*bucket
	count   int
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		paths:   make(map[string]struct{}),
		buckets: make(map[contentKey]*bucket),
	}
}

// Insert bulk-loads records. A record whose path is already cataloged
// is silently ignored.
func (c *Catalog) Insert(records []models.FileRecord) error {
	for _, record := range records {
		if _, exists := c.paths[record.Path]; exists {
			continue
		}
		c.paths[record.Path] = struct{}{}

		key := contentKey{fingerprint: record.Fingerprint, size: record.Size}
		b, ok := c.buckets[key]
		if !ok {
			b = &bucket{}
			c.buckets[key] = b
		}

		if record.Origin == models.OriginSource {
			b.sourcePaths = append(b.sourcePaths, record.Path)
		} else {
			b.targetPaths = append(b.targetPaths, record.Path)
		}
		c.count++
	}

	return nil
}

// FindDuplicates returns every (source, target) pair sharing identical
// fingerprint and size. Matching is directional: only source→target
// pairs are reported, never source→source or target→target. A source
// file matching several target files yields one pair per target and
// vice versa (cross product within a bucket). Pairs are sorted by
// source path then target path so the result is deterministic.
func (c *Catalog) FindDuplicates() ([]models.DuplicatePair, error) {
	var pairs []models.DuplicatePair

	for _, b := range c.buckets {
		if len(b.sourcePaths) == 0 || len(b.targetPaths) == 0 {
			continue
		}
		for _, sourcePath := range b.sourcePaths {
			for _, targetPath := range b.targetPaths {
				pairs = append(pairs, models.DuplicatePair{
					SourcePath: sourcePath,
					TargetPath: targetPath,
				})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].SourcePath != pairs[j].SourcePath {
			return pairs[i].SourcePath < pairs[j].SourcePath
		}
		return pairs[i].TargetPath < pairs[j].TargetPath
	})

	return pairs, nil
}

// Count returns the total number of records held
func (c *Catalog) Count() int {
	return c.count
}

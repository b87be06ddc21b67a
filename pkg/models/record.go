package models

// Origin indicates which tree a file record belongs to
type Origin string

const (
	// OriginSource marks records from the source tree (trusted copies)
	OriginSource Origin = "source"
	// OriginTarget marks records from the target tree (checked for redundancy)
	OriginTarget Origin = "target"
)

// FileRecord represents one successfully fingerprinted file
type FileRecord struct {
	// Path is the absolute filesystem path; unique key within a catalog
	Path string

	// Fingerprint is the hex-encoded content digest
	Fingerprint string

	// Size in bytes at scan time
	Size int64

	// Origin tags the record as source-tree or target-tree
	Origin Origin
}

// DuplicatePair links a source file to a target file with identical
// fingerprint and size
type DuplicatePair struct {
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
}

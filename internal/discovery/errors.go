package discovery

import "errors"

var (
	// ErrSourceNotFound indicates a configured source root does not exist.
	ErrSourceNotFound = errors.New("source root not found")

	// ErrWalkFailed indicates traversal of a source root failed.
	ErrWalkFailed = errors.New("source walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("document read failed")

	// ErrInvalidFrontmatter indicates a document's frontmatter could not be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrNoDocsFound indicates a guide set produced no documents.
	ErrNoDocsFound = errors.New("no documentation files found")
)

package docset

import "fmt"

// DocumentNotFoundError reports a file identity missing from a document collection.
type DocumentNotFoundError struct {
	File string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document not found: %q", e.File)
}

package toc

import (
	"fmt"
	"strings"
)

// CyclicTocError reports a TOC declaration that revisits a document already on
// the current recursion path. Path ends with the revisited document.
type CyclicTocError struct {
	Path []string
}

func (e *CyclicTocError) Error() string {
	return fmt.Sprintf("cyclic table of contents: %s", strings.Join(e.Path, " -> "))
}

// Package frontmatter splits YAML frontmatter from document bodies and decodes
// the fields docrender understands.
package frontmatter

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter indicates a document that opens a frontmatter block
// but never closes it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Parts is a document split at its frontmatter delimiters.
type Parts struct {
	// Frontmatter is the raw YAML without delimiters; nil when HasFrontmatter is false.
	Frontmatter    []byte
	Body           []byte
	HasFrontmatter bool
	// Newline is "\r\n" when the document uses CRLF line endings, "\n" otherwise.
	Newline string
}

// Split separates `---` delimited YAML frontmatter from the body. A document that
// does not start with a delimiter is returned whole as the body.
func Split(content []byte) (Parts, error) {
	nl := newline(content)
	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return Parts{Body: content, Newline: nl}, nil
	}

	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		return Parts{Frontmatter: []byte{}, Body: rest[len(delim):], HasFrontmatter: true, Newline: nl}, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		if trimmed, ok := bytes.CutSuffix(rest, []byte(nl+"---")); ok {
			return Parts{Frontmatter: append(trimmed, nl...), Body: []byte{}, HasFrontmatter: true, Newline: nl}, nil
		}
		return Parts{}, ErrMissingClosingDelimiter
	}
	return Parts{
		Frontmatter:    rest[:idx+len(nl)],
		Body:           rest[idx+len(closing):],
		HasFrontmatter: true,
		Newline:        nl,
	}, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// Package router maps routable entities (documents, namespaces, packages) to their
// canonical path relative to a documentation set's output root.
package router

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

// ErrUnroutable is returned for entities the router has no route for.
var ErrUnroutable = errors.New("entity is not routable")

// Router maps an entity to a relative, forward-slash path. Implementations must be
// deterministic and must not depend on render order.
type Router interface {
	Generate(entity any) (string, error)
}

// Default is the built-in router.
//
//	*docset.Document  guide/intro.md        -> guide/intro.html
//	*docset.Namespace \Acme\Http (ns)      -> namespaces/acme-http.html
//	*docset.Namespace \Acme\Http (package) -> packages/Acme-Http.html
//
// Document routes drop the source extension, so "a.md", "a.markdown" and "a.html"
// share the route "a.html". Such documents in one set are rejected by the render
// pass with a path collision before anything is written.
type Default struct {
	// Extension of generated pages, without the dot. Defaults to "html".
	Extension string
}

// New returns the default router.
func New() *Default { return &Default{Extension: "html"} }

func (r *Default) Generate(entity any) (string, error) {
	switch e := entity.(type) {
	case *docset.Document:
		if e == nil {
			break
		}
		return r.document(e.File)
	case *docset.Namespace:
		if e == nil {
			break
		}
		return r.namespace(e), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnroutable, entity)
}

func (r *Default) ext() string {
	if r.Extension == "" {
		return "html"
	}
	return strings.TrimPrefix(r.Extension, ".")
}

func (r *Default) document(file string) (string, error) {
	file = docset.NormalizeFile(file)
	if file == "" || file == "." {
		return "", fmt.Errorf("%w: empty document identity", ErrUnroutable)
	}
	return docset.StripExt(file) + "." + r.ext(), nil
}

func (r *Default) namespace(n *docset.Namespace) string {
	name := strings.Trim(n.FullyQualifiedName(), `\`)
	if name == "" {
		name = "default"
	}
	slug := strings.ReplaceAll(name, `\`, "-")
	if n.Kind == docset.KindPackage {
		return path.Join("packages", slug+"."+r.ext())
	}
	// PHP namespaces are case-insensitive, so differently cased spellings share a page.
	// Casers carry state; a fresh one keeps Generate safe for concurrent use.
	return path.Join("namespaces", cases.Fold().String(slug)+"."+r.ext())
}

// Join builds root + "/" + rel and collapses runs of separators into one.
func Join(root, rel string) string {
	return Normalize(root + "/" + rel)
}

// Normalize collapses every run of consecutive "/" into a single one.
func Normalize(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Trim removes leading separators, as TOC entries use root-relative URLs.
func Trim(p string) string {
	return strings.TrimLeft(p, "/")
}

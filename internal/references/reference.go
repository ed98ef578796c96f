// Package references turns author-written symbolic tokens ("doc:guide/intro",
// "phpfunction:str_contains", ...) into resolved links.
//
// Resolvers are stateless and never fail: an unknown target still produces a
// best-effort ResolvedReference so that broken cross-references show up as broken
// links in the output rather than as a failed render pass.
package references

import (
	"path"
	"strings"
)

// Context is the read-only view of the current render position a resolver may consult.
type Context interface {
	CurrentFileName() string
	CurrentDirectory() string
	Link(name string) (string, bool)
	Metas() Metas
}

// Reference is a named resolver.
type Reference interface {
	Name() string
	Resolve(ctx Context, token string) ResolvedReference
}

// ResolvedReference is the outcome of resolving one token.
type ResolvedReference struct {
	// File is the logical file of the referencing document.
	File  string
	Token string
	// URL is root-relative for internal targets, absolute for external ones, and empty
	// for an anchor within the current document.
	URL        string
	Anchors    []string
	Attributes map[string]string
}

// Title returns the "title" attribute.
func (r ResolvedReference) Title() string {
	return r.Attributes["title"]
}

// Href joins the URL and the first anchor.
func (r ResolvedReference) Href() string {
	if len(r.Anchors) == 0 {
		return r.URL
	}
	return r.URL + "#" + r.Anchors[0]
}

func newResolved(ctx Context, token, url, title string, anchors ...string) ResolvedReference {
	file := ""
	if ctx != nil {
		file = ctx.CurrentFileName()
	}
	return ResolvedReference{
		File:       file,
		Token:      token,
		URL:        url,
		Anchors:    anchors,
		Attributes: map[string]string{"title": title},
	}
}

// JoinURL joins URL segments with single slashes, keeping a scheme's "//" intact.
func JoinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(s)
	}
	out := b.String()
	if base != "" && strings.HasPrefix(base, "/") && !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	return collapseSlashes(out)
}

func collapseSlashes(u string) string {
	prefix := ""
	if i := strings.Index(u, "://"); i >= 0 {
		prefix, u = u[:i+3], u[i+3:]
	}
	for strings.Contains(u, "//") {
		u = strings.ReplaceAll(u, "//", "/")
	}
	return prefix + u
}

// resolvePath resolves a document path token against the current file's directory.
func resolvePath(ctx Context, p string) string {
	if strings.HasPrefix(p, "/") || ctx == nil {
		return strings.TrimLeft(path.Clean(p), "/")
	}
	dir := path.Dir(ctx.CurrentFileName())
	return strings.TrimLeft(path.Clean(path.Join(dir, p)), "/")
}

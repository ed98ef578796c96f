package environment

import (
	"maps"
	"net/url"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docrender/internal/references"
)

// RenderContext is the immutable per-document view of the Environment. It is safe to
// pass to concurrent renderers since nothing can mutate it after Snapshot.
type RenderContext struct {
	outputRoot          string
	currentFileName     string
	currentAbsolutePath string
	currentDirectory    string
	links               map[string]string
	variables           map[string]string
	references          map[string]references.Reference
	metas               references.Metas
}

func (c *RenderContext) CurrentFileName() string     { return c.currentFileName }
func (c *RenderContext) CurrentAbsolutePath() string { return c.currentAbsolutePath }
func (c *RenderContext) CurrentDirectory() string    { return c.currentDirectory }
func (c *RenderContext) Metas() references.Metas     { return c.metas }

func (c *RenderContext) Link(name string) (string, bool) {
	u, ok := c.links[name]
	return u, ok
}

func (c *RenderContext) Variable(name string) (string, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// Variables returns a copy of all variables in scope.
func (c *RenderContext) Variables() map[string]string {
	return maps.Clone(c.variables)
}

// HasReference reports whether a resolver is registered under name.
func (c *RenderContext) HasReference(name string) bool {
	_, ok := c.references[name]
	return ok
}

// Resolve resolves token with the resolver registered under name.
func (c *RenderContext) Resolve(name, token string) (references.ResolvedReference, bool) {
	r, ok := c.references[name]
	if !ok {
		return references.ResolvedReference{}, false
	}
	return r.Resolve(c, token), true
}

// RootPath is the relative path from the current output directory to the output root
// ("." when they are the same).
func (c *RenderContext) RootPath() string {
	if c.currentDirectory == "" || c.outputRoot == "" {
		return "."
	}
	rel, err := filepath.Rel(c.currentDirectory, c.outputRoot)
	if err != nil {
		return "."
	}
	return filepath.ToSlash(rel)
}

// RelativeURL rewrites a root-relative URL so it works from the current output
// directory. Absolute URLs, scheme URLs and bare fragments are returned unchanged.
func (c *RenderContext) RelativeURL(u string) string {
	if u == "" || strings.HasPrefix(u, "/") || strings.HasPrefix(u, "#") {
		return u
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Scheme != "" {
		return u
	}
	rel := c.RootPath()
	if rel == "." {
		return u
	}
	return rel + "/" + u
}

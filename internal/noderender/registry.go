// Package noderender provides the node renderer capability: a registry of renderers
// keyed by node type tag, a goldmark-based Markdown renderer that resolves reference
// links, and the HTML page layout.
package noderender

import (
	"sort"

	"git.home.luguber.info/inful/docrender/internal/environment"
)

// Registry maps node type tags to renderers. Lookups are by the node's declared tag,
// never by its Go type.
type Registry struct {
	renderers map[string]environment.NodeRenderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]environment.NodeRenderer)}
}

// Register installs r for nodeType, replacing any previous renderer.
func (r *Registry) Register(nodeType string, nr environment.NodeRenderer) *Registry {
	r.renderers[nodeType] = nr
	return r
}

// Get returns the renderer for nodeType or a *environment.RendererNotFoundError.
func (r *Registry) Get(nodeType string) (environment.NodeRenderer, error) {
	if nr, ok := r.renderers[nodeType]; ok {
		return nr, nil
	}
	return nil, &environment.RendererNotFoundError{NodeType: nodeType}
}

// Types lists registered tags, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.renderers))
	for t := range r.renderers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

package environment

import (
	"fmt"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

// NodeRenderer turns a document tree into output bytes.
type NodeRenderer interface {
	RenderDocument(node docset.Node, rc *RenderContext) ([]byte, error)
}

// NodeRendererFactory looks renderers up by node type tag.
type NodeRendererFactory interface {
	Get(nodeType string) (NodeRenderer, error)
}

// RendererNotFoundError reports a node type without a registered renderer.
type RendererNotFoundError struct {
	NodeType string
}

func (e *RendererNotFoundError) Error() string {
	return fmt.Sprintf("no renderer registered for node type %q", e.NodeType)
}

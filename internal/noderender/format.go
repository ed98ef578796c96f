package noderender

import (
	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/environment"
)

// HTMLFormat is the template/configuration bundle for HTML output.
type HTMLFormat struct {
	// LayoutPath points at an html/template layout; empty uses the built-in one.
	LayoutPath string
	// Unsafe passes raw HTML in Markdown through to the output.
	Unsafe bool
}

func (f *HTMLFormat) Name() string { return "html" }

// NodeRendererFactory builds the renderer registry for one render pass.
func (f *HTMLFormat) NodeRendererFactory() (environment.NodeRendererFactory, error) {
	layout, err := ParseLayout(f.LayoutPath)
	if err != nil {
		return nil, err
	}
	return NewRegistry().
		Register(docset.NodeTypeMarkdown, &DocumentRenderer{Body: &MarkdownRenderer{Unsafe: f.Unsafe}, Layout: layout}).
		Register(docset.NodeTypeRaw, RawRenderer{}), nil
}

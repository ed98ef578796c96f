package references

import (
	"strings"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

// Doc resolves references to other documents ("doc") or, when Global is set, to
// labels/anchors declared anywhere in the set ("ref").
type Doc struct {
	name   string
	Global bool
}

// NewDoc returns the "doc" resolver.
func NewDoc() *Doc { return &Doc{name: "doc"} }

// NewRef returns the "ref" resolver (global label lookup).
func NewRef() *Doc { return &Doc{name: "ref", Global: true} }

func (d *Doc) Name() string {
	if d.name == "" {
		return "doc"
	}
	return d.name
}

func (d *Doc) Resolve(ctx Context, token string) ResolvedReference {
	token = strings.TrimSpace(token)
	if d.Global {
		return d.resolveLabel(ctx, token)
	}
	return d.resolveDocument(ctx, token)
}

func (d *Doc) resolveDocument(ctx Context, token string) ResolvedReference {
	if ctx != nil {
		if url, ok := ctx.Link(token); ok {
			return newResolved(ctx, token, url, token)
		}
	}

	target, anchor, _ := strings.Cut(token, "#")
	var anchors []string
	if anchor != "" {
		anchors = []string{anchor}
	}
	if target == "" {
		return newResolved(ctx, token, "", token, anchors...)
	}

	file := resolvePath(ctx, target)
	if metas := metasOf(ctx); metas != nil {
		if meta, ok := metas.Get(file); ok {
			title := meta.Title
			if title == "" {
				title = token
			}
			return newResolved(ctx, token, meta.URL, title, anchors...)
		}
	}
	return newResolved(ctx, token, docset.StripExt(file)+".html", token, anchors...)
}

func (d *Doc) resolveLabel(ctx Context, token string) ResolvedReference {
	label := strings.TrimPrefix(token, "#")
	if metas := metasOf(ctx); metas != nil {
		if meta, ok := metas.FindAnchor(label); ok {
			if meta.File == ctx.CurrentFileName() {
				return newResolved(ctx, token, "", label, label)
			}
			return newResolved(ctx, token, meta.URL, label, label)
		}
	}
	return newResolved(ctx, token, "", token, label)
}

// metasOf returns the index of ctx, or nil when there is none to consult.
func metasOf(ctx Context) Metas {
	if ctx == nil {
		return nil
	}
	return ctx.Metas()
}

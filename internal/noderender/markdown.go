package noderender

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/environment"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/markdown"
)

// MarkdownRenderer renders a MarkdownNode body to an HTML fragment. Link destinations
// of the form "name:token" are resolved through the reference registered under name.
// |variable| occurrences in prose are substituted; code spans, code blocks and raw
// HTML are left alone, and table cell separators are never taken as variable bounds.
type MarkdownRenderer struct {
	Unsafe bool
}

func (m *MarkdownRenderer) RenderDocument(node docset.Node, rc *environment.RenderContext) ([]byte, error) {
	md, ok := node.(*docset.MarkdownNode)
	if !ok {
		return nil, fmt.Errorf("markdown renderer cannot render node type %q", node.NodeType())
	}

	gm := markdown.New(markdown.Options{
		Unsafe: m.Unsafe,
		Transformers: []parser.ASTTransformer{
			newVariableSubstitution(rc.Variables()),
			&referenceLinks{rc: rc},
		},
	})
	var buf bytes.Buffer
	if err := gm.Convert(md.Source, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// variableSubstitution replaces |name| in text nodes.
type variableSubstitution struct {
	replacer *strings.Replacer
}

func newVariableSubstitution(vars map[string]string) *variableSubstitution {
	if len(vars) == 0 {
		return &variableSubstitution{}
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "|"+name+"|", vars[name])
	}
	return &variableSubstitution{replacer: strings.NewReplacer(pairs...)}
}

func (v *variableSubstitution) Transform(doc *gmast.Document, reader text.Reader, _ parser.Context) {
	if v.replacer == nil {
		return
	}
	source := reader.Source()
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch n.(type) {
		case *gmast.CodeSpan, *gmast.CodeBlock, *gmast.FencedCodeBlock, *gmast.HTMLBlock, *gmast.RawHTML, *gmast.AutoLink:
			return gmast.WalkSkipChildren, nil
		}
		v.substituteChildren(n, source)
		return gmast.WalkContinue, nil
	})
}

// substituteChildren handles runs of adjacent text children together: the inline
// parser may split "|my_name|" into several text nodes.
func (v *variableSubstitution) substituteChildren(parent gmast.Node, source []byte) {
	c := parent.FirstChild()
	for c != nil {
		first, ok := c.(*gmast.Text)
		if !ok {
			c = c.NextSibling()
			continue
		}
		run := []*gmast.Text{first}
		for !endsLine(run[len(run)-1]) {
			next, ok := run[len(run)-1].NextSibling().(*gmast.Text)
			if !ok {
				break
			}
			run = append(run, next)
		}
		c = run[len(run)-1].NextSibling()

		var joined []byte
		for _, t := range run {
			joined = append(joined, t.Segment.Value(source)...)
		}
		replaced := v.replacer.Replace(string(joined))
		if replaced == string(joined) {
			continue
		}

		parent.InsertBefore(parent, first, gmast.NewString([]byte(replaced)))
		last := run[len(run)-1]
		for _, t := range run[:len(run)-1] {
			parent.RemoveChild(parent, t)
		}
		if endsLine(last) {
			// Keep the node for its line break, without its text.
			last.Segment = text.NewSegment(last.Segment.Stop, last.Segment.Stop)
		} else {
			parent.RemoveChild(parent, last)
		}
	}
}

func endsLine(t *gmast.Text) bool {
	return t.SoftLineBreak() || t.HardLineBreak()
}

// referenceLinks rewrites reference link destinations after parsing.
type referenceLinks struct {
	rc *environment.RenderContext
}

func (t *referenceLinks) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		link, ok := n.(*gmast.Link)
		if !ok {
			return gmast.WalkContinue, nil
		}
		name, token, ok := markdown.ParseReferenceDestination(string(link.Destination))
		if !ok || !t.rc.HasReference(name) {
			return gmast.WalkContinue, nil
		}
		resolved, _ := t.rc.Resolve(name, token)
		link.Destination = []byte(t.rc.RelativeURL(resolved.Href()))
		if link.ChildCount() == 0 {
			link.AppendChild(link, gmast.NewString([]byte(resolved.Title())))
		}
		slog.Debug("Resolved reference",
			logfields.File(t.rc.CurrentFileName()),
			logfields.Reference(name),
			logfields.Token(token),
			slog.String("href", string(link.Destination)))
		return gmast.WalkSkipChildren, nil
	})
}

// RawRenderer passes RawNode content through unchanged.
type RawRenderer struct{}

func (RawRenderer) RenderDocument(node docset.Node, _ *environment.RenderContext) ([]byte, error) {
	raw, ok := node.(*docset.RawNode)
	if !ok {
		return nil, fmt.Errorf("raw renderer cannot render node type %q", node.NodeType())
	}
	return raw.Content, nil
}

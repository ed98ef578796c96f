// Package markdown wraps goldmark for the two places that need to understand Markdown:
// discovery (titles, heading anchors) and the HTML node renderer.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options controls the goldmark instance.
type Options struct {
	// Unsafe lets raw HTML through to the output.
	Unsafe bool
	// Transformers run after parsing, before rendering.
	Transformers []parser.ASTTransformer
}

// New builds a goldmark instance with GFM and automatic heading ids. Heading ids must be
// produced the same way by discovery and rendering, so both go through here.
func New(opts Options) goldmark.Markdown {
	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	for i, t := range opts.Transformers {
		parserOpts = append(parserOpts, parser.WithASTTransformers(util.Prioritized(t, 100+i)))
	}
	var rendererOpts []renderer.Option
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// Summary is what discovery needs to know about a Markdown body.
type Summary struct {
	Title   string
	Anchors []string
}

// Analyze parses body and returns the first level-1 heading and all heading ids.
func Analyze(body []byte) Summary {
	root := New(Options{}).Parser().Parse(text.NewReader(body))

	var s Summary
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if s.Title == "" && heading.Level == 1 {
			s.Title = strings.TrimSpace(NodeText(heading, body))
		}
		if id, ok := heading.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				s.Anchors = append(s.Anchors, string(b))
			}
		}
		return gmast.WalkSkipChildren, nil
	})
	return s
}

// NodeText concatenates the text content below n.
func NodeText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	var walk func(gmast.Node)
	walk = func(n gmast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *gmast.Text:
				buf.Write(t.Segment.Value(source))
				if t.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			case *gmast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return buf.String()
}

var referenceName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ParseReferenceDestination splits a link destination of the form "name:token".
// Scheme URLs ("https://...") are rejected since their token starts with "//".
func ParseReferenceDestination(dest string) (name, token string, ok bool) {
	name, token, found := strings.Cut(dest, ":")
	if !found || token == "" || strings.HasPrefix(token, "//") {
		return "", "", false
	}
	if !referenceName.MatchString(name) {
		return "", "", false
	}
	return name, token, true
}

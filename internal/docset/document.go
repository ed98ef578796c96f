package docset

import (
	"path"
	"strings"
)

// Node is the root of a parsed document tree. Renderers are selected by its type tag,
// the rest of the tree is opaque to the render pass.
type Node interface {
	NodeType() string
}

// NodeTypeMarkdown tags a MarkdownNode.
const NodeTypeMarkdown = "markdown"

// MarkdownNode is a document tree still in Markdown source form.
type MarkdownNode struct {
	Source []byte
}

func (*MarkdownNode) NodeType() string { return NodeTypeMarkdown }

// TocDeclaration is one table-of-contents directive inside a document, listing child
// documents in display order.
type TocDeclaration struct {
	Caption string   `yaml:"caption,omitempty" json:"caption,omitempty"`
	Files   []string `yaml:"files" json:"files"`
}

// Document is one unit of documentation content.
type Document struct {
	// File is the logical identity, unique within the set (e.g. "index", "guide/intro.md").
	File  string
	Title string
	Node  Node

	// Links maps link names to override URLs.
	Links map[string]string
	// Variables maps substitution names to values.
	Variables map[string]string
	Tocs      []TocDeclaration

	// Anchors lists heading ids present in the document.
	Anchors []string
	// Fingerprint is the content fingerprint computed at load time.
	Fingerprint string
}

// Dir returns the directory part of the document's logical path ("." at the root).
func (d *Document) Dir() string {
	return path.Dir(d.File)
}

// NormalizeFile canonicalizes a logical file identity: forward slashes, no leading slash,
// no "./" or doubled separators.
func NormalizeFile(file string) string {
	file = strings.ReplaceAll(file, "\\", "/")
	file = strings.TrimLeft(file, "/")
	if file == "" {
		return ""
	}
	return path.Clean(file)
}

// StripExt removes the extension of the final path element.
func StripExt(file string) string {
	ext := path.Ext(file)
	if ext == "" || strings.Contains(ext, "/") {
		return file
	}
	return strings.TrimSuffix(file, ext)
}

// NodeTypeRaw tags a RawNode.
const NodeTypeRaw = "raw"

// RawNode carries content that is already in output form (e.g. hand-written HTML pages).
type RawNode struct {
	Content []byte
}

func (*RawNode) NodeType() string { return NodeTypeRaw }

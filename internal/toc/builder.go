// Package toc builds navigation trees for documentation sets: one per namespace and
// package hierarchy of an API set, and one for the declared guide structure.
package toc

import (
	"fmt"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/router"
)

const (
	// GuidePrefix is prepended to every guide entry URL.
	GuidePrefix = "guide/"
	// IndexFile is the document a guide TOC is rooted at.
	IndexFile = "index"

	NamespacesToc = "Namespaces"
	PackagesToc   = "Packages"
)

// Builder creates TOCs using a router for entry URLs. It holds no per-build state.
type Builder struct {
	router router.Router
	logger *slog.Logger
}

// NewBuilder creates a builder; a nil logger uses slog.Default().
func NewBuilder(r router.Router, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{router: r, logger: logger}
}

// Description names the pass in build logs.
func (b *Builder) Description() string {
	return "Builds table of contents for documentation sets"
}

// NamespaceToc builds a TOC over the descendants of root. The root itself has no entry.
func (b *Builder) NamespaceToc(name string, root *docset.Namespace) (*docset.Toc, error) {
	t := docset.NewToc(name)
	if root == nil {
		return t, nil
	}
	for _, child := range root.Children {
		if err := b.namespaceEntries(t, child, nil); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (b *Builder) namespaceEntries(t *docset.Toc, ns *docset.Namespace, parent *docset.TocEntry) error {
	route, err := b.router.Generate(ns)
	if err != nil {
		return fmt.Errorf("route namespace %s: %w", ns.FullyQualifiedName(), err)
	}
	entry := docset.NewTocEntry(router.Trim(route), ns.FullyQualifiedName(), parent)
	if parent != nil {
		parent.AddChild(entry)
	}
	t.AddEntry(entry)

	for _, child := range ns.Children {
		if err := b.namespaceEntries(t, child, entry); err != nil {
			return err
		}
	}
	return nil
}

// GuideToc builds the TOC declared by root and, recursively, by the documents it lists.
// The TOC is named after the root document's title.
func (b *Builder) GuideToc(root *docset.Document, docs *docset.Collection) (*docset.Toc, error) {
	t := docset.NewToc(root.Title)
	if err := b.guideEntries(t, root, docs, nil, []string{root.File}); err != nil {
		return nil, err
	}
	return t, nil
}

// path holds the files on the active recursion path, root first. Siblings may list
// the same document; only a revisit along one branch is a cycle.
func (b *Builder) guideEntries(t *docset.Toc, doc *docset.Document, docs *docset.Collection, parent *docset.TocEntry, path []string) error {
	for _, decl := range doc.Tocs {
		for _, file := range decl.Files {
			child, err := docs.Get(file)
			if err != nil {
				return fmt.Errorf("toc of %s: %w", doc.File, err)
			}
			if slices.Contains(path, child.File) {
				return &CyclicTocError{Path: append(slices.Clone(path), child.File)}
			}

			route, err := b.router.Generate(child)
			if err != nil {
				return fmt.Errorf("route %s: %w", child.File, err)
			}
			entry := docset.NewTocEntry(GuidePrefix+router.Trim(route), child.Title, parent)
			if parent != nil {
				parent.AddChild(entry)
			}
			t.AddEntry(entry)

			if err := b.guideEntries(t, child, docs, entry, append(path, child.File)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Execute attaches TOCs to every set of every version: namespace and package TOCs
// to API sets (when the respective tree is non-empty) and the guide TOC to guide sets.
func (b *Builder) Execute(project *docset.Project) error {
	for _, version := range project.Versions {
		for _, set := range version.Sets {
			var err error
			switch set.Kind {
			case docset.SetKindAPI:
				err = b.apiTocs(project, set)
			case docset.SetKindGuide:
				err = b.guideSetToc(set)
			}
			if err != nil {
				return fmt.Errorf("set %s: %w", set.Name, err)
			}
		}
	}
	return nil
}

func (b *Builder) apiTocs(project *docset.Project, set *docset.DocumentationSet) error {
	for _, tree := range []struct {
		name string
		root *docset.Namespace
	}{{NamespacesToc, project.Namespace}, {PackagesToc, project.Package}} {
		if tree.root == nil || len(tree.root.Children) == 0 {
			continue
		}
		t, err := b.NamespaceToc(tree.name, tree.root)
		if err != nil {
			return err
		}
		set.AddTableOfContents(t)
		b.logger.Debug("Built namespace TOC", logfields.Set(set.Name), logfields.Toc(t.Name), slog.Int("entries", len(t.Entries)))
	}
	return nil
}

func (b *Builder) guideSetToc(set *docset.DocumentationSet) error {
	if set.Documents == nil {
		return &docset.DocumentNotFoundError{File: IndexFile}
	}
	index, err := set.Documents.Get(IndexFile)
	if err != nil {
		return err
	}
	t, err := b.GuideToc(index, set.Documents)
	if err != nil {
		return err
	}
	set.AddTableOfContents(t)
	b.logger.Debug("Built guide TOC", logfields.Set(set.Name), logfields.Toc(t.Name), slog.Int("entries", len(t.Entries)))
	return nil
}

// Package discovery builds documentation sets and the API model from files on disk.
package discovery

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/frontmatter"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/markdown"
)

// SetSpec describes a set to load.
type SetSpec struct {
	Name   string
	Kind   docset.SetKind
	Output string
	// Sources are walked in order; the first root providing a logical file wins.
	Sources []string
}

// Loader reads documentation sets from the filesystem.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader; a nil logger uses slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadSet walks the sources of spec and parses every Markdown and HTML document.
func (l *Loader) LoadSet(spec SetSpec) (*docset.DocumentationSet, error) {
	set := &docset.DocumentationSet{
		Name:      spec.Name,
		Kind:      spec.Kind,
		Output:    spec.Output,
		Sources:   spec.Sources,
		Documents: docset.NewCollection(),
	}

	for _, root := range spec.Sources {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, root)
		}
		if err := l.walk(set, root); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWalkFailed, root, err)
		}
	}

	if set.Kind == docset.SetKindGuide && set.Documents.Len() == 0 {
		return nil, fmt.Errorf("%w in set %s", ErrNoDocsFound, spec.Name)
	}
	l.logger.Info("Documentation discovered", logfields.Set(spec.Name), slog.Int("documents", set.Documents.Len()))
	return set, nil
}

func (l *Loader) walk(set *docset.DocumentationSet, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		kind := documentKind(p)
		if kind == "" {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		file := docset.NormalizeFile(filepath.ToSlash(rel))
		if set.Documents.Has(file) {
			l.logger.Debug("Shadowed by an earlier source root", logfields.File(file), logfields.Path(p))
			return nil
		}

		doc, err := loadDocument(p, file, kind)
		if err != nil {
			return err
		}
		set.Documents.Add(doc)
		l.logger.Debug("Discovered document", logfields.File(file), logfields.NodeType(kind))
		return nil
	})
}

func documentKind(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return docset.NodeTypeMarkdown
	case ".html", ".htm":
		return docset.NodeTypeRaw
	}
	return ""
}

// LoadDocument parses a single file as the document with logical identity file.
func LoadDocument(p, file string) (*docset.Document, error) {
	kind := documentKind(p)
	if kind == "" {
		return nil, fmt.Errorf("unsupported document type: %s", p)
	}
	return loadDocument(p, docset.NormalizeFile(file), kind)
}

func loadDocument(p, file, kind string) (*docset.Document, error) {
	content, err := os.ReadFile(p) // #nosec G304 -- path comes from walking a configured source root
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, p, err)
	}
	if kind == docset.NodeTypeRaw {
		return rawDocument(file, content)
	}

	parts, err := frontmatter.Split(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFrontmatter, file, err)
	}
	fields, err := frontmatter.Decode(parts.Frontmatter)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFrontmatter, file, err)
	}
	fingerprint, err := frontmatter.Fingerprint(fields.Raw, parts.Body)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", file, err)
	}

	summary := markdown.Analyze(parts.Body)
	title := fields.Title
	if title == "" {
		title = summary.Title
	}
	if title == "" {
		title = path.Base(docset.StripExt(file))
	}
	return &docset.Document{
		File:        file,
		Title:       title,
		Node:        &docset.MarkdownNode{Source: parts.Body},
		Links:       fields.Links,
		Variables:   fields.Variables,
		Tocs:        fields.Toc,
		Anchors:     summary.Anchors,
		Fingerprint: fingerprint,
	}, nil
}

func rawDocument(file string, content []byte) (*docset.Document, error) {
	fingerprint, err := frontmatter.Fingerprint(nil, content)
	if err != nil {
		return nil, err
	}
	title, anchors := scanHTML(content)
	if title == "" {
		title = path.Base(docset.StripExt(file))
	}
	return &docset.Document{
		File:        file,
		Title:       title,
		Node:        &docset.RawNode{Content: content},
		Anchors:     anchors,
		Fingerprint: fingerprint,
	}, nil
}

// scanHTML returns the <title> text and the element ids of an HTML document.
func scanHTML(content []byte) (string, []string) {
	z := html.NewTokenizer(bytes.NewReader(content))
	var (
		title   string
		anchors []string
		inTitle bool
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(title), anchors
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Title {
				inTitle = true
			}
			for _, a := range tok.Attr {
				if a.Key == "id" && a.Val != "" {
					anchors = append(anchors, a.Val)
				}
			}
		case html.EndTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Title {
				inTitle = false
			}
		case html.TextToken:
			if inTitle && title == "" {
				title = string(z.Text())
			}
		}
	}
}

package linkverify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docrender/internal/logfields"
)

// Page is a rendered document to check.
type Page struct {
	// Path is the target path the page was written to, with forward slashes.
	Path    string
	Content []byte
}

// Broken is an internal link whose target is missing.
type Broken struct {
	Page   string
	Link   Link
	Reason string
}

func (b Broken) String() string {
	return fmt.Sprintf("%s: %s %q (%s)", b.Page, b.Link.Tag, b.Link.URL, b.Reason)
}

// Verifier checks links between pages of one output root.
type Verifier struct {
	root   string
	logger *slog.Logger
	// exists reports files outside the checked pages, such as assets. Defaults to os.Stat.
	exists func(p string) bool
}

// NewVerifier creates a verifier for pages below root. Root-relative links ("/x")
// resolve against root.
func NewVerifier(root string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		root:   path.Clean(root),
		logger: logger,
		exists: func(p string) bool {
			_, err := os.Stat(p)
			return err == nil
		},
	}
}

// ReadPages loads written pages from disk.
func ReadPages(paths []string) ([]Page, error) {
	pages := make([]Page, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p) // #nosec G304 -- paths were written by this process
		if err != nil {
			return nil, fmt.Errorf("read rendered page: %w", err)
		}
		pages = append(pages, Page{Path: p, Content: content})
	}
	return pages, nil
}

// Verify checks every internal link and fragment of pages. Links to files that are
// not among pages are accepted when they exist on disk; fragments are only checked
// for links into pages.
func (v *Verifier) Verify(ctx context.Context, pages []Page) ([]Broken, error) {
	parsed := make(map[string]Parsed, len(pages))
	for _, p := range pages {
		doc, err := Extract(bytes.NewReader(p.Content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Path, err)
		}
		parsed[path.Clean(p.Path)] = doc
	}

	var broken []Broken
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		page := path.Clean(p.Path)
		for _, link := range parsed[page].Links {
			if reason := v.check(page, link, parsed); reason != "" {
				b := Broken{Page: p.Path, Link: link, Reason: reason}
				v.logger.Warn("Broken link", logfields.Path(p.Path), slog.String("url", link.URL), slog.String("reason", reason))
				broken = append(broken, b)
			}
		}
	}
	slices.SortStableFunc(broken, func(a, b Broken) int { return strings.Compare(a.Page, b.Page) })
	return broken, nil
}

func (v *Verifier) check(page string, link Link, parsed map[string]Parsed) string {
	if isExternal(link.URL) {
		return ""
	}
	u, err := url.Parse(link.URL)
	if err != nil {
		return "malformed url"
	}

	target := page
	if u.Path != "" {
		if strings.HasPrefix(u.Path, "/") {
			target = path.Join(v.root, u.Path)
		} else {
			target = path.Join(path.Dir(page), u.Path)
		}
		if strings.HasSuffix(u.Path, "/") {
			target = path.Join(target, "index.html")
		}
	}

	doc, known := parsed[target]
	if !known {
		if u.Path == "" || !v.exists(target) {
			return "target not found"
		}
		return ""
	}
	if u.Fragment != "" && !doc.IDs[u.Fragment] {
		return "anchor not found"
	}
	return ""
}

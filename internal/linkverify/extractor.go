// Package linkverify checks rendered HTML for internal links that point nowhere.
package linkverify

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Link is one link-bearing attribute found in a page.
type Link struct {
	URL       string
	Text      string
	Tag       string
	Attribute string
}

// linkAttrs maps elements to the attribute holding their link.
var linkAttrs = map[atom.Atom]string{
	atom.A:      "href",
	atom.Link:   "href",
	atom.Img:    "src",
	atom.Script: "src",
	atom.Source: "src",
	atom.Video:  "src",
	atom.Audio:  "src",
}

// Parsed is the link-relevant content of one page.
type Parsed struct {
	Links []Link
	// IDs holds every element id, usable as a fragment target.
	IDs map[string]bool
}

// Extract parses an HTML document.
func Extract(r io.Reader) (Parsed, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Parsed{}, fmt.Errorf("parse html: %w", err)
	}
	out := Parsed{IDs: make(map[string]bool)}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				out.IDs[id] = true
			}
			if key, ok := linkAttrs[n.DataAtom]; ok {
				if v := attr(n, key); v != "" {
					text := textOf(n)
					if n.DataAtom == atom.Img {
						text = attr(n, "alt")
					}
					out.Links = append(out.Links, Link{URL: v, Text: text, Tag: n.Data, Attribute: key})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return strings.TrimSpace(b.String())
}

// isExternal reports links that leave the site or are not navigations at all.
func isExternal(raw string) bool {
	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:", "//"} {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	u, err := url.Parse(raw)
	return err != nil || u.Scheme != "" || u.Host != ""
}

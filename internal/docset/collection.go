package docset

import "iter"

// Collection is an insertion-ordered set of documents keyed by logical file.
type Collection struct {
	order  []string
	byFile map[string]*Document
	byStem map[string]string
}

// NewCollection builds a collection; later documents with the same file replace earlier ones
// while keeping the original position.
func NewCollection(docs ...*Document) *Collection {
	c := &Collection{byFile: make(map[string]*Document), byStem: make(map[string]string)}
	for _, d := range docs {
		c.Add(d)
	}
	return c
}

// Add inserts or replaces a document.
func (c *Collection) Add(doc *Document) {
	doc.File = NormalizeFile(doc.File)
	if _, ok := c.byFile[doc.File]; !ok {
		c.order = append(c.order, doc.File)
	}
	c.byFile[doc.File] = doc
	stem := StripExt(doc.File)
	if _, taken := c.byStem[stem]; !taken {
		c.byStem[stem] = doc.File
	}
}

// Get finds a document by logical file. A leading slash is ignored and, when there is
// no exact match, the extension is ignored too ("guide/intro" finds "guide/intro.md").
func (c *Collection) Get(file string) (*Document, error) {
	if doc, ok := c.Lookup(file); ok {
		return doc, nil
	}
	return nil, &DocumentNotFoundError{File: NormalizeFile(file)}
}

// Has reports whether a document with exactly this identity exists. Unlike Get it
// does not fall back to an extension-less match.
func (c *Collection) Has(file string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byFile[NormalizeFile(file)]
	return ok
}

// Lookup is Get without the error.
func (c *Collection) Lookup(file string) (*Document, bool) {
	if c == nil {
		return nil, false
	}
	key := NormalizeFile(file)
	if doc, ok := c.byFile[key]; ok {
		return doc, true
	}
	if full, ok := c.byStem[StripExt(key)]; ok {
		return c.byFile[full], true
	}
	return nil, false
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// All iterates documents in insertion order.
func (c *Collection) All() iter.Seq[*Document] {
	return func(yield func(*Document) bool) {
		if c == nil {
			return
		}
		for _, file := range c.order {
			if !yield(c.byFile[file]) {
				return
			}
		}
	}
}

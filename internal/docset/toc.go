package docset

// Toc is a named table of contents. Entries is the flat list of every entry in
// creation order; the tree is reachable through root entries' Children.
type Toc struct {
	Name    string      `json:"name" yaml:"name"`
	Entries []*TocEntry `json:"-" yaml:"-"`
}

// NewToc creates an empty table of contents.
func NewToc(name string) *Toc {
	return &Toc{Name: name}
}

// AddEntry appends to the flat list.
func (t *Toc) AddEntry(e *TocEntry) {
	t.Entries = append(t.Entries, e)
}

// Roots returns the entries without a parent.
func (t *Toc) Roots() []*TocEntry {
	var roots []*TocEntry
	for _, e := range t.Entries {
		if e.ParentURL == nil {
			roots = append(roots, e)
		}
	}
	return roots
}

// TocEntry is one navigation node.
type TocEntry struct {
	URL       string      `json:"url" yaml:"url"`
	Title     string      `json:"title" yaml:"title"`
	ParentURL *string     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Children  []*TocEntry `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewTocEntry creates an entry; parent may be nil for a root entry.
func NewTocEntry(url, title string, parent *TocEntry) *TocEntry {
	e := &TocEntry{URL: url, Title: title}
	if parent != nil {
		parentURL := parent.URL
		e.ParentURL = &parentURL
	}
	return e
}

// AddChild appends a child entry.
func (e *TocEntry) AddChild(child *TocEntry) {
	e.Children = append(e.Children, child)
}

package docset

// SetKind distinguishes API reference sets from hand-written guide sets.
type SetKind string

const (
	SetKindGuide SetKind = "guide"
	SetKindAPI   SetKind = "api"
)

// DocumentationSet is a collection of documents sharing one output root.
type DocumentationSet struct {
	Name   string
	Kind   SetKind
	Output string
	// Sources are the source location roots, in priority order.
	Sources   []string
	Documents *Collection
	Tocs      []*Toc
}

// AddTableOfContents attaches a TOC; a TOC with the same name replaces the previous one.
func (s *DocumentationSet) AddTableOfContents(toc *Toc) {
	for i, existing := range s.Tocs {
		if existing.Name == toc.Name {
			s.Tocs[i] = toc
			return
		}
	}
	s.Tocs = append(s.Tocs, toc)
}

// TableOfContents returns the TOC with the given name.
func (s *DocumentationSet) TableOfContents(name string) (*Toc, bool) {
	for _, t := range s.Tocs {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

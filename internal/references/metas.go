package references

import (
	"slices"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

// Meta describes one document as seen by resolvers.
type Meta struct {
	File    string
	URL     string
	Title   string
	Anchors []string
}

// Metas is a read-only index over the documents of a set.
type Metas interface {
	Get(file string) (Meta, bool)
	FindAnchor(anchor string) (Meta, bool)
}

// MetaIndex is the map-backed Metas implementation. Like docset.Collection it accepts
// identities with or without extension.
type MetaIndex struct {
	order  []string
	byFile map[string]Meta
	byStem map[string]string
}

// NewMetaIndex builds an index; the first entry wins on duplicate files.
func NewMetaIndex(metas []Meta) *MetaIndex {
	idx := &MetaIndex{byFile: make(map[string]Meta, len(metas)), byStem: make(map[string]string, len(metas))}
	for _, m := range metas {
		m.File = docset.NormalizeFile(m.File)
		if _, ok := idx.byFile[m.File]; ok {
			continue
		}
		idx.order = append(idx.order, m.File)
		idx.byFile[m.File] = m
		if _, ok := idx.byStem[docset.StripExt(m.File)]; !ok {
			idx.byStem[docset.StripExt(m.File)] = m.File
		}
	}
	return idx
}

func (i *MetaIndex) Get(file string) (Meta, bool) {
	if i == nil {
		return Meta{}, false
	}
	file = docset.NormalizeFile(file)
	if m, ok := i.byFile[file]; ok {
		return m, true
	}
	if full, ok := i.byStem[docset.StripExt(file)]; ok {
		return i.byFile[full], true
	}
	return Meta{}, false
}

// FindAnchor returns the first document, in set order, declaring the anchor.
func (i *MetaIndex) FindAnchor(anchor string) (Meta, bool) {
	if i == nil {
		return Meta{}, false
	}
	for _, file := range i.order {
		m := i.byFile[file]
		if slices.Contains(m.Anchors, anchor) {
			return m, true
		}
	}
	return Meta{}, false
}

// Package environment holds the render-pass context: the mutable Environment that the
// render loop updates before each document, and the immutable RenderContext snapshot
// handed to node renderers and reference resolvers.
package environment

import (
	"maps"

	"git.home.luguber.info/inful/docrender/internal/references"
)

// Environment is the render-pass scoped, single-owner mutable context. It is reused
// serially for every document of a pass and must not be shared between goroutines.
//
// Links and variables registered before the first SetCurrentFileName are pass-wide.
// Those registered afterwards belong to the current document and are discarded when
// the next document starts.
type Environment struct {
	outputRoot          string
	currentFileName     string
	currentAbsolutePath string
	currentDirectory    string

	inDocument    bool
	baseLinks     map[string]string
	baseVariables map[string]string
	links         map[string]string
	variables     map[string]string

	references map[string]references.Reference
	factory    NodeRendererFactory
	metas      references.Metas
}

// New creates an Environment rendering below outputRoot.
func New(outputRoot string) *Environment {
	return &Environment{
		outputRoot:    outputRoot,
		baseLinks:     make(map[string]string),
		baseVariables: make(map[string]string),
		links:         make(map[string]string),
		variables:     make(map[string]string),
		references:    make(map[string]references.Reference),
		metas:         references.NewMetaIndex(nil),
	}
}

// SetCurrentFileName starts a new document scope.
func (e *Environment) SetCurrentFileName(file string) {
	e.currentFileName = file
	e.inDocument = true
	clear(e.links)
	clear(e.variables)
}

// SetCurrentAbsolutePath records the absolute source directory of the current document.
func (e *Environment) SetCurrentAbsolutePath(p string) { e.currentAbsolutePath = p }

// SetCurrentDirectory records the output directory of the current document.
func (e *Environment) SetCurrentDirectory(dir string) { e.currentDirectory = dir }

// SetLink registers a link override; a later registration with the same name wins.
func (e *Environment) SetLink(name, url string) {
	if e.inDocument {
		e.links[name] = url
		return
	}
	e.baseLinks[name] = url
}

// SetVariable registers a substitution variable; a later registration with the same name wins.
func (e *Environment) SetVariable(name, value string) {
	if e.inDocument {
		e.variables[name] = value
		return
	}
	e.baseVariables[name] = value
}

// RegisterReference installs a resolver under its name, replacing any previous one.
func (e *Environment) RegisterReference(ref references.Reference) {
	e.references[ref.Name()] = ref
}

// SetNodeRendererFactory sets the renderer capability for the pass.
func (e *Environment) SetNodeRendererFactory(f NodeRendererFactory) { e.factory = f }

// SetMetas installs the document index used by resolvers. A nil index means an empty one.
func (e *Environment) SetMetas(m references.Metas) {
	if m == nil {
		m = references.NewMetaIndex(nil)
	}
	e.metas = m
}

func (e *Environment) OutputRoot() string                       { return e.outputRoot }
func (e *Environment) CurrentFileName() string                  { return e.currentFileName }
func (e *Environment) CurrentAbsolutePath() string              { return e.currentAbsolutePath }
func (e *Environment) CurrentDirectory() string                 { return e.currentDirectory }
func (e *Environment) NodeRendererFactory() NodeRendererFactory { return e.factory }
func (e *Environment) Metas() references.Metas                  { return e.metas }

// Link looks up a link override, document scope first.
func (e *Environment) Link(name string) (string, bool) {
	if u, ok := e.links[name]; ok {
		return u, true
	}
	u, ok := e.baseLinks[name]
	return u, ok
}

// Variable looks up a variable, document scope first.
func (e *Environment) Variable(name string) (string, bool) {
	if v, ok := e.variables[name]; ok {
		return v, true
	}
	v, ok := e.baseVariables[name]
	return v, ok
}

// Reference returns the resolver registered under name.
func (e *Environment) Reference(name string) (references.Reference, bool) {
	r, ok := e.references[name]
	return r, ok
}

// Resolve resolves token with the resolver registered under name.
func (e *Environment) Resolve(name, token string) (references.ResolvedReference, bool) {
	r, ok := e.references[name]
	if !ok {
		return references.ResolvedReference{}, false
	}
	return r.Resolve(e, token), true
}

// Snapshot freezes the current state into a RenderContext.
func (e *Environment) Snapshot() *RenderContext {
	links := maps.Clone(e.baseLinks)
	maps.Copy(links, e.links)
	variables := maps.Clone(e.baseVariables)
	maps.Copy(variables, e.variables)
	return &RenderContext{
		outputRoot:          e.outputRoot,
		currentFileName:     e.currentFileName,
		currentAbsolutePath: e.currentAbsolutePath,
		currentDirectory:    e.currentDirectory,
		links:               links,
		variables:           variables,
		references:          maps.Clone(e.references),
		metas:               e.metas,
	}
}

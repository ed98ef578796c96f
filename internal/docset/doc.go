// Package docset holds the read-only documentation model consumed by the render pass:
// documentation sets, their documents, the API namespace tree and the navigation
// (table of contents) structures attached to sets by the TOC compiler pass.
//
// Documents are produced upstream (see internal/discovery) and never mutated while
// rendering. The only mutation this package exposes is DocumentationSet.AddTableOfContents.
package docset

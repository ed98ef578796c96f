// Package build provides the canonical build pipeline for docrender.
//
// A build loads every configured documentation set from disk, runs the table of
// contents pass over the project, renders each set through the render handler and
// optionally verifies the links of everything written. The CLI render and watch
// commands both route through BuildService.
//
// The package also defines sentinel errors classifying the failing stage; they are
// always wrapped with context at the call site.
package build

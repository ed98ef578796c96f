// Package errors provides the classified error primitives shared across docrender.
//
// A ClassifiedError carries a category (config, render, toc, ...), a severity and a
// retry hint, plus free-form context. Package-level failures are still expressed as
// sentinel or typed errors; they are classified at the boundary where a caller needs
// to decide how to report them (exit code, log level, retry).
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "render document").
//		WithContext("file", doc.File).
//		WithContext("target", target).
//		Build()
package errors

package render

import "errors"

var (
	// ErrPathCollision means two documents of a set route to the same target.
	ErrPathCollision = errors.New("path collision detected")
	// ErrMissingNode means a document carries no node tree.
	ErrMissingNode = errors.New("document has no node tree")
	// ErrInvalidCommand means a command lacks a set, destination or format.
	ErrInvalidCommand = errors.New("invalid render command")
)

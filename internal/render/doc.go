// Package render runs a render pass: every document of a documentation set is
// routed to a target path, rendered by the node renderer registered for its node
// type, and written to a destination sink.
//
// One Environment is built per pass and updated before each document; renderers
// and reference resolvers only ever see the immutable per-document snapshot.
package render

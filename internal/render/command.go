package render

import (
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docrender/internal/destination"
	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/environment"
	"git.home.luguber.info/inful/docrender/internal/references"
)

// Format is the template/configuration bundle a node renderer factory is obtained from.
type Format interface {
	Name() string
	NodeRendererFactory() (environment.NodeRendererFactory, error)
}

// Command is the input of one render pass.
type Command struct {
	// ID identifies the pass in logs; a zero ID is replaced by a random one.
	ID          uuid.UUID
	Set         *docset.DocumentationSet
	Destination destination.Sink
	Format      Format
	// References are registered after the defaults and the handler's own references.
	References []references.Reference
	// Links and Variables are pass-wide; document values of the same name win.
	Links     map[string]string
	Variables map[string]string
}

// Target is one written document.
type Target struct {
	File        string
	Path        string
	Fingerprint string
}

// Result summarizes a render pass.
type Result struct {
	PassID   uuid.UUID
	Set      string
	Targets  []Target
	Failed   []string
	Duration time.Duration
}

package config

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

var reservedReferenceNames = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}

// Validate checks invariants the render pass relies on.
func (c *Config) Validate() error {
	if len(c.Sets) == 0 {
		return ferrors.ValidationError("at least one documentation set is required").Build()
	}
	seen := make(map[string]bool, len(c.Sets))
	for i, s := range c.Sets {
		if strings.TrimSpace(s.Name) == "" {
			return ferrors.ValidationError(fmt.Sprintf("sets[%d]: name is required", i)).Build()
		}
		if seen[s.Name] {
			return ferrors.ValidationError("duplicate set name").WithContext("set", s.Name).Build()
		}
		seen[s.Name] = true
		if s.Kind != SetKindGuide && s.Kind != SetKindAPI {
			return ferrors.ValidationError("unknown set kind").WithContext("set", s.Name).WithContext("kind", string(s.Kind)).Build()
		}
		if s.Kind == SetKindGuide && len(s.Sources) == 0 {
			return ferrors.ValidationError("guide set needs at least one source").WithContext("set", s.Name).Build()
		}
	}
	if c.Render.Format != DefaultFormat {
		return ferrors.ValidationError("unsupported render format").WithContext("format", c.Render.Format).Build()
	}
	refNames := make(map[string]bool)
	for _, r := range c.References.Custom {
		if r.Name == "" || r.URL == "" {
			return ferrors.ValidationError("custom reference needs name and url").WithContext("reference", r.Name).Build()
		}
		if reservedReferenceNames[strings.ToLower(r.Name)] {
			return ferrors.ValidationError("custom reference name shadows a URL scheme").WithContext("reference", r.Name).Build()
		}
		if refNames[r.Name] {
			return ferrors.ValidationError("duplicate custom reference").WithContext("reference", r.Name).Build()
		}
		refNames[r.Name] = true
	}
	if !c.Retry.Mode.Valid() {
		return ferrors.ValidationError("unknown retry mode").WithContext("mode", string(c.Retry.Mode)).Build()
	}
	if c.Retry.MaxRetries != nil && *c.Retry.MaxRetries < 0 {
		return ferrors.ValidationError("retry.max_retries cannot be negative").Build()
	}
	return nil
}

package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

// Fields are the frontmatter keys docrender interprets. All keys, including
// these, are also kept in Raw.
type Fields struct {
	Title     string                  `yaml:"title"`
	Links     map[string]string       `yaml:"links"`
	Variables map[string]string       `yaml:"variables"`
	Toc       []docset.TocDeclaration `yaml:"toc"`
	Raw       map[string]any          `yaml:"-"`
}

// Decode parses raw frontmatter YAML. Empty input yields zero Fields with an empty Raw map.
func Decode(raw []byte) (Fields, error) {
	f := Fields{Raw: map[string]any{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return f, nil
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fields{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	if err := yaml.Unmarshal(raw, &f.Raw); err != nil {
		return Fields{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	if f.Raw == nil {
		f.Raw = map[string]any{}
	}
	return f, nil
}

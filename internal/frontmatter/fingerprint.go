package frontmatter

import (
	"maps"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// Fingerprint computes the mdfp content fingerprint of a document. The fingerprint
// field itself is excluded, and fields are serialized as LF YAML with sorted keys
// so that formatting-only frontmatter edits do not change the result.
func Fingerprint(raw map[string]any, body []byte) (string, error) {
	fields := maps.Clone(raw)
	delete(fields, mdfp.FingerprintField)

	canonical := ""
	if len(fields) > 0 {
		out, err := yaml.Marshal(fields)
		if err != nil {
			return "", err
		}
		canonical = strings.TrimSuffix(string(out), "\n")
	}
	normalized := strings.ReplaceAll(string(body), "\r\n", "\n")
	return mdfp.CalculateFingerprintFromParts(canonical, normalized), nil
}

package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

// ParseTOML accepts the same document as Parse written as TOML. The tree is
// re-encoded as YAML so both formats share key names and strict field checks.
func ParseTOML(data []byte) (*Config, error) {
	var tree map[string]any
	if err := toml.Unmarshal([]byte(os.ExpandEnv(string(data))), &tree); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal toml config").Fatal().Build()
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to convert toml config").Fatal().Build()
	}
	return decode(string(out))
}

// Package config loads the docrender configuration (YAML, or TOML by file extension).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Project    ProjectConfig     `yaml:"project"`
	Sets       []SetConfig       `yaml:"sets"`
	Output     OutputConfig      `yaml:"output"`
	Render     RenderConfig      `yaml:"render"`
	References ReferencesConfig  `yaml:"references,omitempty"`
	Links      map[string]string `yaml:"links,omitempty"`
	Variables  map[string]string `yaml:"variables,omitempty"`
	Retry      RetryConfig       `yaml:"retry,omitempty"`
	Metrics    MetricsConfig     `yaml:"metrics,omitempty"`
}

// ProjectConfig describes the documented project.
type ProjectConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	// API points at a YAML file describing the namespace and package trees.
	API string `yaml:"api,omitempty"`
}

// SetKind mirrors docset.SetKind without importing the model into config.
type SetKind string

const (
	SetKindGuide SetKind = "guide"
	SetKindAPI   SetKind = "api"
)

// SetConfig describes one documentation set.
type SetConfig struct {
	Name    string   `yaml:"name"`
	Kind    SetKind  `yaml:"kind,omitempty"`
	Sources []string `yaml:"sources"`
	// Output is relative to output.directory unless absolute.
	Output string `yaml:"output,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean,omitempty"`
}

// RenderConfig controls the render pass.
type RenderConfig struct {
	Format     string `yaml:"format,omitempty"`
	Layout     string `yaml:"layout,omitempty"`
	UnsafeHTML bool   `yaml:"unsafe_html,omitempty"`
	CheckLinks bool   `yaml:"check_links,omitempty"`
}

// ReferencesConfig tunes the built-in resolvers and declares extra ones.
type ReferencesConfig struct {
	PHPManualBase string            `yaml:"php_manual_base,omitempty"`
	Custom        []CustomReference `yaml:"custom,omitempty"`
}

// CustomReference declares a pattern-based resolver; "{token}" is replaced by the token.
type CustomReference struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
}

// RetryBackoffMode selects how the delay between write retries grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// Valid reports whether m is one of the known modes.
func (m RetryBackoffMode) Valid() bool {
	switch m {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
		return true
	}
	return false
}

// UnmarshalYAML folds case and surrounding space so "Exponential" is accepted.
func (m *RetryBackoffMode) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*m = RetryBackoffMode(strings.ToLower(strings.TrimSpace(raw)))
	return nil
}

// RetryConfig controls destination write retries.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries *int             `yaml:"max_retries,omitempty"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after each pass.
	Textfile string `yaml:"textfile,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath) // #nosec G304 -- operator supplied path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(configPath), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Parse decodes YAML bytes (after ${VAR} expansion), applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	return decode(os.ExpandEnv(string(data)))
}

func decode(expanded string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Project: ProjectConfig{Name: "My Project", API: "api.yaml"},
		Sets: []SetConfig{
			{Name: "guide", Kind: SetKindGuide, Sources: []string{"./docs"}, Output: "guide"},
		},
		Output: OutputConfig{Directory: "./site"},
		Render: RenderConfig{Format: "html", CheckLinks: true},
		References: ReferencesConfig{
			Custom: []CustomReference{{Name: "rfc", URL: "https://www.rfc-editor.org/rfc/rfc{token}", Title: "RFC {token}"}},
		},
		Variables: map[string]string{"project": "My Project"},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&example); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Package config defines settings of the effect analysis and loads them from
// YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".effectful.yaml"

// Config of the analysis.
type Config struct {
	// Directive is the comment directive prefix: "//<directive>:declare".
	Directive string `yaml:"directive"`

	MaxDepth         int  `yaml:"max_depth"`
	Memoize          bool `yaml:"memoize"`
	WalkNestedBlocks bool `yaml:"walk_nested_blocks"`

	Format Format `yaml:"format"`

	// Externals declares effects of functions from other packages.
	Externals []External `yaml:"externals"`
}

// External is a declaration of a function outside of the analyzed package.
type External struct {
	Ref     Reference `yaml:"ref"`
	Declare string    `yaml:"declare"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Directive: "effect",
		MaxDepth:  64,
		Memoize:   true,
		Format:    FormatText,
	}
}

// Load reads config from the file. Values absent in the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOptional is Load that returns defaults when the file does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return cfg, err
}

// Parse decodes YAML config data on top of defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var directiveRe = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Validate checks values set in the config.
func (c *Config) Validate() error {
	if !directiveRe.MatchString(c.Directive) {
		return fmt.Errorf("invalid directive prefix %q: lowercase letters and digits expected", c.Directive)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Format == FormatInvalid {
		return errors.New("output format is not set")
	}

	seen := make(map[Reference]struct{}, len(c.Externals))
	for i, ext := range c.Externals {
		if ext.Ref.Name == "" {
			return fmt.Errorf("externals[%d]: missing ref", i)
		}
		if _, ok := seen[ext.Ref]; ok {
			return fmt.Errorf("externals[%d]: duplicate ref %s", i, ext.Ref)
		}
		seen[ext.Ref] = struct{}{}
	}

	return nil
}

// Declarations returns external declarations including predefined ones,
// keyed by qualified function name.
func (c *Config) Declarations() map[string]string {
	custom := make(map[Reference]string, len(c.Externals))
	for _, ext := range c.Externals {
		custom[ext.Ref] = ext.Declare
	}

	return Externals(custom)
}

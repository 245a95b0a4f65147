// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/woozymasta/geodoc/internal/geo"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the root configuration file structure.
type Config struct {
	BBox      string        `yaml:"bbox,omitempty"`
	Format    string        `yaml:"format,omitempty"`
	Indent    int           `yaml:"indent,omitempty"`
	Minify    bool          `yaml:"minify,omitempty"`
	Pretty    bool          `yaml:"pretty,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	Documents []Document    `yaml:"documents,omitempty"`
}

// Document is a named document published by the server.
type Document struct {
	Index   *int     `yaml:"index,omitempty" json:"index,omitempty"`
	Name    string   `yaml:"name" json:"name"`
	Source  string   `yaml:"source" json:"-"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		BBox:    geo.IncludeIfPresent.String(),
		Format:  FormatJSON,
		Indent:  2,
		Timeout: 15 * time.Second,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Keys missing from the file keep their defaults. An empty path yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks option values and document entries.
func (c *Config) Validate() error {
	if _, err := ParsePolicy(c.BBox); err != nil {
		return err
	}
	if c.Format != FormatJSON && c.Format != FormatYAML {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.Minify && c.Pretty {
		return fmt.Errorf("minify and pretty are mutually exclusive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}

	seen := make(map[string]bool, len(c.Documents))
	for i, d := range c.Documents {
		if d.Name == "" || d.Source == "" {
			return fmt.Errorf("document %d: name and source are required", i)
		}
		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if seen[name] {
				return fmt.Errorf("document %d: duplicate name %q", i, name)
			}
			seen[name] = true
		}
	}

	return nil
}

// Policy returns the configured bbox policy.
func (c *Config) Policy() geo.BBoxPolicy {
	p, _ := ParsePolicy(c.BBox)
	return p
}

// ParsePolicy maps a policy name to a geo.BBoxPolicy. An empty name is "if-present".
func ParsePolicy(name string) (geo.BBoxPolicy, error) {
	switch name {
	case "", geo.IncludeIfPresent.String():
		return geo.IncludeIfPresent, nil
	case geo.Include.String():
		return geo.Include, nil
	case geo.Exclude.String():
		return geo.Exclude, nil
	default:
		return geo.IncludeIfPresent, fmt.Errorf("unknown bbox policy %q", name)
	}
}

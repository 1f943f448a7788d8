// Package config loads themec build configuration from YAML, JSON (with
// comments) or TOML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration that cannot drive a build
var ErrInvalidConfig = errors.New("invalid configuration")

// FileNames are the config files Find looks for, in order
var FileNames = []string{
	"themec.yaml",
	"themec.yml",
	"themec.json",
	"themec.toml",
}

// Config is the build configuration
type Config struct {
	// Include are doublestar glob patterns selecting the stylesheets to compile
	Include []string `json:"include" yaml:"include" toml:"include"`

	// Exclude are doublestar glob patterns removed from Include
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`

	// OutDir receives the theme stylesheets and, with EmitRemainder, the
	// stripped stylesheets
	OutDir string `json:"outDir" yaml:"outDir" toml:"outDir"`

	// Filename is the theme asset name; "[name]" is replaced by the theme name
	Filename string `json:"filename" yaml:"filename" toml:"filename"`

	// EmitRemainder writes each unit's stylesheet, minus its themeable
	// declarations, under OutDir. Whitespace is reformatted; comments are kept.
	EmitRemainder bool `json:"emitRemainder" yaml:"emitRemainder" toml:"emitRemainder"`

	// Marker is the placeholder function name
	Marker string `json:"marker" yaml:"marker" toml:"marker"`

	// RootSelector is the selector theme variables are declared under
	RootSelector string `json:"rootSelector" yaml:"rootSelector" toml:"rootSelector"`

	// TokenPrefix is the CSS variable prefix for design token theme sources
	TokenPrefix string `json:"tokenPrefix" yaml:"tokenPrefix" toml:"tokenPrefix"`

	// NormalizeColors emits substituted colors in hex notation
	NormalizeColors bool `json:"normalizeColors" yaml:"normalizeColors" toml:"normalizeColors"`

	// Concurrency bounds parallel unit and theme work; 0 means GOMAXPROCS
	Concurrency int `json:"concurrency" yaml:"concurrency" toml:"concurrency"`

	// Themes maps a theme name to its definition source (.css, .json, .yaml)
	Themes map[string]string `json:"themes" yaml:"themes" toml:"themes"`

	// Dir is the directory relative paths are resolved against
	Dir string `json:"-" yaml:"-" toml:"-"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in empty fields
func (c *Config) ApplyDefaults() {
	if len(c.Include) == 0 {
		c.Include = []string{"**/*.css"}
	}
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.Filename == "" {
		c.Filename = "[name].theme.css"
	}
	if c.Marker == "" {
		c.Marker = "theme-var"
	}
	if c.RootSelector == "" {
		c.RootSelector = ":root"
	}
	if c.Themes == nil {
		c.Themes = map[string]string{}
	}
	if c.Dir == "" {
		c.Dir = "."
	}
}

// Validate reports configuration that cannot drive a build
func (c *Config) Validate() error {
	var problems []string
	if len(c.Themes) == 0 {
		problems = append(problems, "no themes declared")
	}
	for name, path := range c.Themes {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, "theme with empty name")
		}
		if strings.TrimSpace(path) == "" {
			problems = append(problems, fmt.Sprintf("theme %q has no source", name))
		}
	}
	if !strings.Contains(c.Filename, "[name]") && len(c.Themes) > 1 {
		problems = append(problems, fmt.Sprintf("filename %q must contain [name] when building several themes", c.Filename))
	}
	if c.outDirContainsDir() {
		problems = append(problems, fmt.Sprintf("outDir %q must not contain the config directory", c.OutDir))
	}
	if c.Concurrency < 0 {
		problems = append(problems, "concurrency must not be negative")
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// outDirContainsDir reports whether every source under Dir would also be
// under OutDir, which would make built output indistinguishable from input
func (c *Config) outDirContainsDir() bool {
	rel, err := filepath.Rel(filepath.Clean(c.ResolvePath(c.OutDir)), filepath.Clean(c.ResolvePath(".")))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ThemeNames returns the declared theme names, sorted
func (c *Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OutputFilename returns the asset name for a theme
func (c *Config) OutputFilename(theme string) string {
	return strings.ReplaceAll(c.Filename, "[name]", theme)
}

// ResolvePath makes p absolute relative to the config directory
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Find returns the first config file from FileNames present in dir, or ""
// if there is none
func Find(dir string) string {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load reads a config file, choosing the format from its extension, and
// applies defaults. Dir is set to the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.Dir = abs
	return cfg, nil
}

// Parse decodes config data in the format named by ext (".yaml", ".yml",
// ".json" or ".toml") and applies defaults
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case ".json":
		// Remove comments using jsonc
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Package config loads and validates sweepr configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for sweepr.
type Config struct {
	// Entry points the reachability traversal starts from. Paths or
	// glob patterns relative to the project root.
	Entry []string `koanf:"entry"`

	// Aliases rewrite specifier prefixes to project paths.
	Aliases map[string]string `koanf:"aliases"`

	// Extensions overrides the module resolution extension order.
	Extensions []string `koanf:"extensions"`

	// Rules toggles individual finding categories.
	Rules RulesConfig `koanf:"rules"`

	// Policy tunes how ambiguous constructs count as usage.
	Policy PolicyConfig `koanf:"policy"`

	// Exclude defines file exclusion patterns for the scan.
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings for parsed descriptors.
	Cache CacheConfig `koanf:"cache"`

	// Output settings.
	Output OutputConfig `koanf:"output"`

	// Workers is the parse worker count (0 = automatic).
	Workers int `koanf:"workers"`
}

// RulesConfig toggles finding categories.
type RulesConfig struct {
	Files        bool `koanf:"files"`
	Exports      bool `koanf:"exports"`
	Dependencies bool `koanf:"dependencies"`
	Cycles       bool `koanf:"cycles"`
}

// PolicyConfig tunes usage semantics.
type PolicyConfig struct {
	// TypeOnlyUsage counts type-only imports as usage.
	TypeOnlyUsage bool `koanf:"type_only_usage"`
	// DynamicImports is "static" (full graph edges) or "ignore".
	DynamicImports string `koanf:"dynamic_imports"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"`
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
}

// CacheConfig controls descriptor caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Entry: []string{"src/index.ts"},
		Rules: RulesConfig{
			Files:        true,
			Exports:      true,
			Dependencies: true,
			Cycles:       true,
		},
		Policy: PolicyConfig{
			TypeOnlyUsage:  true,
			DynamicImports: "static",
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.test.ts",
				"*.test.tsx",
				"*.spec.ts",
				"*.spec.js",
				"*.min.js",
				"*.d.ts",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".sweepr",
				"dist",
				"build",
				"coverage",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".sweepr/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file. JSON configs are validated
// against the embedded schema before unmarshalling.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		if err := validateJSONFile(path); err != nil {
			return nil, err
		}
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"sweepr.toml",
		"sweepr.yaml",
		"sweepr.yml",
		"sweepr.json",
		".sweepr.toml",
		".sweepr.yaml",
		".sweepr.yml",
		".sweepr.json",
		"sweepr.config.json",
	}
	searchDirs := []string{".", ".sweepr"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate checks constraints the file formats cannot express.
func (c *Config) Validate() error {
	if len(c.Entry) == 0 {
		return fmt.Errorf("entry must list at least one entry point")
	}
	switch c.Policy.DynamicImports {
	case "", "static", "ignore":
	default:
		return fmt.Errorf("policy.dynamic_imports must be %q or %q, got %q", "static", "ignore", c.Policy.DynamicImports)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extensions entries must start with a dot, got %q", ext)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	return nil
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

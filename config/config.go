// Package config provides configuration loading and management for crmgraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/crmgraph/vocabulary/crm"
)

// Config represents the complete crmgraph configuration
type Config struct {
	Schema Schema `yaml:"schema"`
	Neo4j  Neo4j  `yaml:"neo4j"`
	NATS   NATS   `yaml:"nats"`
	Build  Build  `yaml:"build"`
}

// Schema configures the ontology source
type Schema struct {
	// Source is the RDF/XML locator: URL, file path, or raw document
	Source string `yaml:"source"`
	// Watch enables rebuilding when a file source changes
	Watch bool `yaml:"watch"`
	// WatchDebounce is how long to collect changes before rebuilding
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// Neo4j configures the graph store connection
type Neo4j struct {
	// URI is the bolt endpoint (default: bolt://localhost:7687)
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Database is the target database (empty = server default)
	Database string `yaml:"database"`
}

// NATS configures catalog publishing (empty URL = publishing disabled)
type NATS struct {
	URL string `yaml:"url"`
}

// Build configures the model build
type Build struct {
	// Include restricts the build to matching classes (doublestar patterns
	// against ident, safe name, or code; empty = all)
	Include []string `yaml:"include"`
	// Exclude drops matching classes
	Exclude []string `yaml:"exclude"`
	// AllowUnresolved treats a property whose domain/range names a missing
	// class as unconstrained instead of failing the build
	AllowUnresolved bool `yaml:"allow_unresolved"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Schema: Schema{
			Source:        crm.DefaultSchemaURL,
			WatchDebounce: 200 * time.Millisecond,
		},
		Neo4j: Neo4j{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Password: "neo4j",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Schema.Source == "" {
		return fmt.Errorf("schema.source is required")
	}
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Schema.Source != "" {
		c.Schema.Source = other.Schema.Source
	}
	if other.Schema.Watch {
		c.Schema.Watch = true
	}
	if other.Schema.WatchDebounce != 0 {
		c.Schema.WatchDebounce = other.Schema.WatchDebounce
	}

	if other.Neo4j.URI != "" {
		c.Neo4j.URI = other.Neo4j.URI
	}
	if other.Neo4j.Username != "" {
		c.Neo4j.Username = other.Neo4j.Username
	}
	if other.Neo4j.Password != "" {
		c.Neo4j.Password = other.Neo4j.Password
	}
	if other.Neo4j.Database != "" {
		c.Neo4j.Database = other.Neo4j.Database
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	if len(other.Build.Include) > 0 {
		c.Build.Include = other.Build.Include
	}
	if len(other.Build.Exclude) > 0 {
		c.Build.Exclude = other.Build.Exclude
	}
	if other.Build.AllowUnresolved {
		c.Build.AllowUnresolved = true
	}
}

// Package config loads the optional moneylens configuration file. A
// missing or unreadable file falls back to defaults so the tool works
// out of the box against a local snapshot.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/avollmer/moneylens/internal/analysis"
)

// SourceType selects where ledger data comes from.
const (
	SourceSnapshot = "snapshot"
	SourceBigQuery = "bigquery"
)

// SourceConfig configures the data backend.
type SourceConfig struct {
	Type string `yaml:"type"`
	// Snapshot is a local path or gs:// URL to an export file.
	Snapshot string `yaml:"snapshot"`
	// Project and Dataset locate the BigQuery mirror.
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
}

// AssistConfig configures the optional Gemini helper.
type AssistConfig struct {
	Model string `yaml:"model"`
}

// Config is the parsed configuration file.
type Config struct {
	// TransferCategory names the category subtree whose transactions
	// are internal transfers. Empty keeps the default root.
	TransferCategory string `yaml:"transfer_category"`
	// ExcludedGroups lists account groups dropped from every analysis,
	// compared case-insensitively.
	ExcludedGroups []string     `yaml:"excluded_groups"`
	Source         SourceConfig `yaml:"source"`
	Assist         AssistConfig `yaml:"assist"`
}

// DefaultPath is the config location used when --config is not given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "moneylens", "config.yaml")
}

// Load reads the config file at path. A missing or malformed file
// yields the defaults rather than an error; the zero config is valid.
func Load(path string) Config {
	cfg := Config{
		Source: SourceConfig{Type: SourceSnapshot},
	}

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{Source: SourceConfig{Type: SourceSnapshot}}
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceSnapshot
	}
	return cfg
}

// TransferRoot returns the configured transfer category name, falling
// back to the built-in default.
func (c Config) TransferRoot() string {
	if c.TransferCategory != "" {
		return c.TransferCategory
	}
	return analysis.DefaultTransferRoot
}

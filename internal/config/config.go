// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declo Labs

// Package config handles declo project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// DefaultFileName is the config file declo looks for in the working
// directory.
const DefaultFileName = "declo.yaml"

// Emit holds project-level defaults for the emit command.
type Emit struct {
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// Config represents the declo.yaml project configuration file.
type Config struct {
	Version int    `yaml:"version"`
	Path    string `yaml:"path,omitempty"`
	Extends string `yaml:"extends,omitempty"`
	Emit    Emit   `yaml:"emit,omitempty"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads the config at path and merges in any parents named by
// extends chains. Values set in a child win over the parent's; extends
// paths are resolved relative to the file that declares them. A cycle
// is an error.
func Resolve(path string) (*Config, error) {
	return resolve(path, make(map[string]bool))
}

func resolve(path string, visited map[string]bool) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if visited[abs] {
		return nil, fmt.Errorf("extends cycle through %s", path)
	}
	visited[abs] = true

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Extends == "" {
		return cfg, nil
	}

	parentPath := cfg.Extends
	if !filepath.IsAbs(parentPath) {
		parentPath = filepath.Join(filepath.Dir(path), parentPath)
	}
	parent, err := resolve(parentPath, visited)
	if err != nil {
		return nil, fmt.Errorf("extends %s: %w", cfg.Extends, err)
	}

	merged := *parent
	merged.Version = cfg.Version
	merged.Extends = cfg.Extends
	if cfg.Path != "" {
		merged.Path = cfg.Path
	}
	if cfg.Emit.Format != "" {
		merged.Emit.Format = cfg.Emit.Format
	}
	if cfg.Emit.Output != "" {
		merged.Emit.Output = cfg.Emit.Output
	}
	return &merged, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	return nil
}

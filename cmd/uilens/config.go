package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/indexer"
)

const (
	defaultConfigPath  = ".uilens/config.yaml"
	defaultCatalogPath = ".uilens/catalog.json"
)

// ProjectConfig holds the contents of .uilens/config.yaml. Every key is
// optional.
type ProjectConfig struct {
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
	CatalogPath string   `yaml:"catalog_path"`
	CacheSize   int      `yaml:"cache_size"`
	Parallel    bool     `yaml:"parallel"`
}

// loadProjectConfig reads the project config at path. A missing file at the
// default location yields an empty config; a missing file that was asked for
// explicitly is an error.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("config %s: cache_size must not be negative", path)
	}
	return &cfg, nil
}

// resolveCatalogPath returns the catalog path to use, applying the fallback chain:
//  1. Explicit flag value
//  2. catalog_path from the project config
//  3. Default: .uilens/catalog.json
func (c *ProjectConfig) resolveCatalogPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c != nil && c.CatalogPath != "" {
		return c.CatalogPath
	}
	return defaultCatalogPath
}

// scanOptions starts from the indexer defaults and replaces the include or
// exclude lists the config sets.
func (c *ProjectConfig) scanOptions() indexer.ScanOptions {
	opts := indexer.DefaultScanOptions()
	if len(c.Include) > 0 {
		opts.Include = c.Include
	}
	if len(c.Exclude) > 0 {
		opts.Exclude = c.Exclude
	}
	return opts
}

// extractorConfig applies cache_size and parallel to the extractor defaults.
func (c *ProjectConfig) extractorConfig() *extractor.Config {
	cfg := extractor.DefaultConfig()
	if c.CacheSize > 0 {
		cfg.CacheSize = c.CacheSize
	}
	cfg.Parallel = c.Parallel
	return cfg
}

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/indexer"
)

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	// No file at the default location.
	cfg, err := loadProjectConfig("")
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)

	writeFile(t, dir, defaultConfigPath, `include: ["src/**/*.tsx"]
exclude: ["**/legacy/**"]
log_level: debug
log_format: json
catalog_path: build/catalog.json
cache_size: 64
parallel: true
`)
	cfg, err = loadProjectConfig("")
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{
		Include:     []string{"src/**/*.tsx"},
		Exclude:     []string{"**/legacy/**"},
		LogLevel:    "debug",
		LogFormat:   "json",
		CatalogPath: "build/catalog.json",
		CacheSize:   64,
		Parallel:    true,
	}, cfg)
}

func TestLoadProjectConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		path    string
		wantErr string
	}{
		{"explicit missing", "", filepath.Join(dir, "missing.yaml"), "read config"},
		{"invalid yaml", "include: [", filepath.Join(dir, "bad.yaml"), "parse config"},
		{"negative cache", "cache_size: -1\n", filepath.Join(dir, "neg.yaml"), "cache_size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.content != "" {
				writeFile(t, dir, filepath.Base(tc.path), tc.content)
			}
			_, err := loadProjectConfig(tc.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestResolveCatalogPath(t *testing.T) {
	withConfig := &ProjectConfig{CatalogPath: "from-config.json"}

	assert.Equal(t, "flag.json", withConfig.resolveCatalogPath("flag.json"))
	assert.Equal(t, "from-config.json", withConfig.resolveCatalogPath(""))
	assert.Equal(t, defaultCatalogPath, (&ProjectConfig{}).resolveCatalogPath(""))

	var none *ProjectConfig
	assert.Equal(t, defaultCatalogPath, none.resolveCatalogPath(""))
}

func TestScanOptionsFromConfig(t *testing.T) {
	defaults := indexer.DefaultScanOptions()

	opts := (&ProjectConfig{}).scanOptions()
	assert.Equal(t, defaults, opts)

	opts = (&ProjectConfig{Include: []string{"**/*.tsx"}}).scanOptions()
	assert.Equal(t, []string{"**/*.tsx"}, opts.Include)
	assert.Equal(t, defaults.Exclude, opts.Exclude)

	opts = (&ProjectConfig{Exclude: []string{"**/old/**"}}).scanOptions()
	assert.Equal(t, defaults.Include, opts.Include)
	assert.Equal(t, []string{"**/old/**"}, opts.Exclude)
}

func TestExtractorConfigFromConfig(t *testing.T) {
	cfg := (&ProjectConfig{}).extractorConfig()
	assert.Equal(t, extractor.DefaultConfig().CacheSize, cfg.CacheSize)
	assert.False(t, cfg.Parallel)

	cfg = (&ProjectConfig{CacheSize: 16, Parallel: true}).extractorConfig()
	assert.Equal(t, 16, cfg.CacheSize)
	assert.True(t, cfg.Parallel)
}

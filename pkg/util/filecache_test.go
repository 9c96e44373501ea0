package util

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const buttonSource = `import { cn } from "@/lib/utils";

export function Button({ className }) {
  return <button className={cn("px-4", className)} />;
}
`

func TestFileCache_ReadSource(t *testing.T) {
	path := writeFile(t, t.TempDir(), "button.tsx", buttonSource)

	cache := NewFileCache(DefaultFileCacheConfig())
	defer cache.Close()

	assert.Equal(t, 0, cache.Size())

	src, err := cache.ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, buttonSource, string(src))
	assert.Equal(t, 1, cache.Size())

	again, err := cache.ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, src, again)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.FilesLoaded)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.GreaterOrEqual(t, stats.CacheHits, int64(1))
	assert.Equal(t, 1, stats.FilesCached)
}

func TestFileCache_ReadSourceReturnsCopy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "card.tsx", "export const Card = () => null;\n")

	cache := NewFileCache(nil)
	defer cache.Close()

	src, err := cache.ReadSource(path)
	require.NoError(t, err)
	src[0] = 'X'

	fresh, err := cache.ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, byte('e'), fresh[0])

	// The copy survives invalidation of the mapping.
	require.NoError(t, cache.Invalidate(path))
	assert.Equal(t, byte('X'), src[0])
}

func TestFileCache_InvalidateReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "badge.tsx", "export const Badge = () => null;\n")

	cache := NewFileCache(UnboundedFileCacheConfig())
	defer cache.Close()

	_, err := cache.ReadSource(path)
	require.NoError(t, err)

	writeFile(t, dir, "badge.tsx", "export function Badge() { return <span />; }\n")
	require.NoError(t, cache.Invalidate(path))
	assert.Equal(t, 0, cache.Size())

	src, err := cache.ReadSource(path)
	require.NoError(t, err)
	assert.Contains(t, string(src), "<span />")
	assert.Equal(t, int64(1), cache.Stats().Invalidations)

	// Unknown paths are ignored.
	assert.NoError(t, cache.Invalidate(filepath.Join(dir, "missing.tsx")))
}

func TestFileCache_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.tsx", "")

	cache := NewFileCache(nil)
	defer cache.Close()

	src, err := cache.ReadSource(path)
	require.NoError(t, err)
	assert.NotNil(t, src)
	assert.Empty(t, src)

	mf, err := cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mf.Size)
}

func TestFileCache_MaxFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.tsx", "a")
	second := writeFile(t, dir, "b.tsx", "b")

	cache := NewFileCache(&FileCacheConfig{MaxFiles: 1, EnableMetrics: true})
	defer cache.Close()

	_, err := cache.Get(first)
	require.NoError(t, err)

	_, err = cache.Get(second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit reached")

	require.NoError(t, cache.Invalidate(first))
	_, err = cache.Get(second)
	assert.NoError(t, err)
}

func TestFileCache_MaxMemory(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.js", strings.Repeat("x", 2*1024*1024))

	cache := NewFileCache(&FileCacheConfig{MaxMemoryMB: 1})
	defer cache.Close()

	_, err := cache.Get(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory limit")
}

func TestFileCache_NotFound(t *testing.T) {
	cache := NewFileCache(nil)
	defer cache.Close()

	_, err := cache.ReadSource(filepath.Join(t.TempDir(), "nope.tsx"))
	assert.Error(t, err)
}

func TestFileCache_ConcurrentReads(t *testing.T) {
	path := writeFile(t, t.TempDir(), "button.tsx", buttonSource)

	cache := NewFileCache(nil)
	defer cache.Close()

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				if err := cache.Invalidate(path); err != nil {
					errs <- err
				}
				return
			}
			src, err := cache.ReadSource(path)
			if err != nil {
				errs <- err
				return
			}
			if string(src) != buttonSource {
				errs <- assert.AnError
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	assert.Empty(t, errs)
}

func TestFileCache_Close(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.tsx", "export {}")

	cache := NewFileCache(nil)
	_, err := cache.Get(path)
	require.NoError(t, err)

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Size())
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":        LevelInfo,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)

	format, err := ParseLogFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)
	_, err = ParseLogFormat("xml")
	assert.Error(t, err)
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)
	assert.Equal(t, 7, PoolSizeOrDefault(7))
	assert.Equal(t, size, PoolSizeOrDefault(0))
}

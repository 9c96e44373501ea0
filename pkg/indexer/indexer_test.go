package indexer

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/extractor"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestIndex(t *testing.T, maxFiles int) *ComponentIndex {
	t.Helper()
	index, err := NewComponentIndex(IndexConfig{MaxCachedFiles: maxFiles}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(index.Close)
	return index
}

// fakeResult builds an extraction result without parsing.
func fakeResult(path, name string, styling analyzer.StylingType) *extractor.FileResult {
	component := analyzer.NewComponentResult(path)
	component.Name = name
	component.StylingLibrary.Type = styling
	return &extractor.FileResult{
		FilePath:    path,
		ContentHash: extractor.ContentHash([]byte(path + name)),
		Component:   component,
	}
}

func TestComponentIndex_AddAndGet(t *testing.T) {
	index := newTestIndex(t, 10)

	fc := index.Add(fakeResult("/src/Button.tsx", "Button", analyzer.StylingTailwindLike))
	assert.Equal(t, "/src/Button.tsx", fc.FilePath)
	assert.False(t, fc.IndexedAt.IsZero())

	got, found := index.Get("/src/Button.tsx")
	require.True(t, found)
	assert.Equal(t, "Button", got.Component.Name)
	assert.Equal(t, fc.ContentHash, got.ContentHash)

	_, found = index.Get("/src/Missing.tsx")
	assert.False(t, found)

	stats := index.Stats()
	assert.Equal(t, 1, stats.IndexedFiles)
	assert.Equal(t, 1, stats.CachedFiles)
	assert.Equal(t, 1, stats.ComponentNames)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.InDelta(t, 0.5, stats.CacheHitRate, 0.001)
}

func TestComponentIndex_FindByName(t *testing.T) {
	index := newTestIndex(t, 10)

	index.Add(fakeResult("/b/Card.tsx", "Card", analyzer.StylingTailwindLike))
	index.Add(fakeResult("/a/Card.tsx", "Card", analyzer.StylingEmotionLike))
	index.Add(fakeResult("/a/utils.ts", analyzer.UnknownName, analyzer.StylingUnknown))

	cards := index.FindByName("Card")
	require.Len(t, cards, 2)
	assert.Equal(t, "/a/Card.tsx", cards[0].FilePath)
	assert.Equal(t, "/b/Card.tsx", cards[1].FilePath)

	assert.Empty(t, index.FindByName(analyzer.UnknownName))
	assert.Empty(t, index.FindByName("Dialog"))
}

func TestComponentIndex_ReplaceMovesName(t *testing.T) {
	index := newTestIndex(t, 10)

	index.Add(fakeResult("/src/Widget.tsx", "Widget", analyzer.StylingUnknown))
	index.Add(fakeResult("/src/Widget.tsx", "Gadget", analyzer.StylingUnknown))

	assert.Empty(t, index.FindByName("Widget"))
	require.Len(t, index.FindByName("Gadget"), 1)
	assert.Equal(t, 1, index.Len())
	assert.Equal(t, 1, index.Stats().ComponentNames)
}

func TestComponentIndex_Eviction(t *testing.T) {
	index := newTestIndex(t, 2)

	index.Add(fakeResult("/a.tsx", "A", analyzer.StylingUnknown))
	index.Add(fakeResult("/b.tsx", "B", analyzer.StylingUnknown))
	index.Add(fakeResult("/c.tsx", "C", analyzer.StylingUnknown))

	_, found := index.Get("/a.tsx")
	assert.False(t, found, "least recently used file should be evicted")
	assert.Empty(t, index.FindByName("A"))

	stats := index.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 2, stats.CachedFiles)
	assert.Equal(t, 3, stats.IndexedFiles)
	assert.Equal(t, 2, stats.ComponentNames)
}

func TestComponentIndex_InvalidateAndRemove(t *testing.T) {
	index := newTestIndex(t, 10)
	index.Add(fakeResult("/src/Nav.tsx", "Nav", analyzer.StylingUnknown))

	index.Invalidate("/src/Nav.tsx")
	assert.True(t, index.IsDirty("/src/Nav.tsx"))
	assert.Equal(t, 1, index.Stats().DirtyFiles)

	// Dirty entries stay readable.
	_, found := index.Get("/src/Nav.tsx")
	assert.True(t, found)

	index.Add(fakeResult("/src/Nav.tsx", "Nav", analyzer.StylingUnknown))
	assert.False(t, index.IsDirty("/src/Nav.tsx"))

	index.Invalidate("/src/Nav.tsx")
	index.Remove("/src/Nav.tsx")
	assert.False(t, index.IsDirty("/src/Nav.tsx"))
	assert.Equal(t, 0, index.Len())
	assert.Empty(t, index.FindByName("Nav"))
}

func TestComponentIndex_AllAndFind(t *testing.T) {
	index := newTestIndex(t, 10)
	index.Add(fakeResult("/z/Table.tsx", "Table", analyzer.StylingTailwindLike))
	index.Add(fakeResult("/m/Modal.tsx", "Modal", analyzer.StylingStyledComponentsLike))
	index.Add(fakeResult("/a/Avatar.tsx", "Avatar", analyzer.StylingTailwindLike))

	all := index.All()
	require.Len(t, all, 3)
	assert.Equal(t, "/a/Avatar.tsx", all[0].FilePath)
	assert.Equal(t, "/m/Modal.tsx", all[1].FilePath)
	assert.Equal(t, "/z/Table.tsx", all[2].FilePath)

	tailwind := index.Find(func(fc *FileComponent) bool {
		return fc.Component.StylingLibrary.Type == analyzer.StylingTailwindLike
	})
	require.Len(t, tailwind, 2)
	assert.Equal(t, "Avatar", tailwind[0].Component.Name)
	assert.Equal(t, "Table", tailwind[1].Component.Name)
}

func TestComponentIndex_Close(t *testing.T) {
	index, err := NewComponentIndex(DefaultIndexConfig(), nil)
	require.NoError(t, err)

	index.Add(fakeResult("/a.tsx", "A", analyzer.StylingUnknown))
	index.Invalidate("/b.tsx")
	index.Close()

	assert.Equal(t, 0, index.Len())
	assert.Empty(t, index.FindByName("A"))
	assert.False(t, index.IsDirty("/b.tsx"))
}

func TestComponentIndex_Concurrent(t *testing.T) {
	index := newTestIndex(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				path := "/src/" + string(rune('a'+worker)) + string(rune('a'+j)) + ".tsx"
				index.Add(fakeResult(path, "Shared", analyzer.StylingUnknown))
				index.Get(path)
				index.FindByName("Shared")
				index.All()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, index.Len())
	assert.Len(t, index.FindByName("Shared"), 100)
	assert.Equal(t, int64(100), index.Stats().Evictions)
}

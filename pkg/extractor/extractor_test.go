package extractor

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/parser"
	"github.com/gnana997/uilens/pkg/util"
)

const cardSource = `import { cn } from "@/lib/utils";

export default function Card({ title, className }) {
  return <div className={cn("rounded-lg border p-4", className)}>{title}</div>;
}`

// setupExtractor creates an extractor backed by an unbounded file cache.
func setupExtractor(t *testing.T) *Extractor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pm := parser.NewParserManager(logger)
	files := util.NewFileCache(&util.FileCacheConfig{Logger: logger})
	t.Cleanup(func() {
		files.Close()
		pm.Close()
	})

	ex, err := NewExtractor(pm, files, &Config{CacheSize: 8, Logger: logger})
	require.NoError(t, err)
	return ex
}

func writeSource(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestExtractFile(t *testing.T) {
	ex := setupExtractor(t)

	result, err := ex.ExtractFile("src/Card.tsx", []byte(cardSource))
	require.NoError(t, err)

	assert.Equal(t, "src/Card.tsx", result.FilePath)
	assert.Equal(t, parser.LanguageTypeScript, result.Language)
	assert.Equal(t, ContentHash([]byte(cardSource)), result.ContentHash)

	c := result.Component
	assert.Equal(t, "Card", c.Name)
	assert.Equal(t, analyzer.ComponentFunctionDecl, c.Type)
	assert.Equal(t, analyzer.ExportDefault, c.ExportType)
	assert.Equal(t, []string{"@/lib/utils"}, c.Packages)
	require.Len(t, c.ClassNameUsage.Usages, 1)
}

func TestExtractFileCachesByContent(t *testing.T) {
	ex := setupExtractor(t)

	first, err := ex.ExtractFile("Card.tsx", []byte(cardSource))
	require.NoError(t, err)
	second, err := ex.ExtractFile("Card.tsx", []byte(cardSource))
	require.NoError(t, err)
	assert.Same(t, first, second)

	changed, err := ex.ExtractFile("Card.tsx", []byte(`export const Panel = () => null;`))
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
	assert.Equal(t, "Panel", changed.Component.Name)

	stats := ex.Stats()
	assert.Equal(t, int64(3), stats.Extractions)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.Equal(t, 1, stats.CachedResults)
}

func TestExtractFileUnsupported(t *testing.T) {
	ex := setupExtractor(t)

	_, err := ex.ExtractFile("styles.css", []byte("body {}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
	assert.Equal(t, int64(1), ex.Stats().Failures)
}

func TestExtractPath(t *testing.T) {
	ex := setupExtractor(t)
	dir := t.TempDir()
	path := writeSource(t, dir, "Card.jsx", cardSource)

	result, err := ex.ExtractPath(path)
	require.NoError(t, err)
	assert.Equal(t, parser.LanguageJavaScript, result.Language)
	assert.Equal(t, "Card", result.Component.Name)

	_, err = ex.ExtractPath(filepath.Join(dir, "Missing.tsx"))
	require.Error(t, err)
}

func TestInvalidateRereadsFile(t *testing.T) {
	ex := setupExtractor(t)
	dir := t.TempDir()
	path := writeSource(t, dir, "Widget.tsx", `export const Widget = () => null;`)

	first, err := ex.ExtractPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Widget", first.Component.Name)

	writeSource(t, dir, "Widget.tsx", `export function Gadget() { return null; }`)
	ex.Invalidate(path)

	second, err := ex.ExtractPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", second.Component.Name)
	assert.NotEqual(t, first.ContentHash, second.ContentHash)
}

func TestExtractPathWithoutFileCache(t *testing.T) {
	pm := parser.NewParserManager(nil)
	defer pm.Close()
	ex, err := NewExtractor(pm, nil, nil)
	require.NoError(t, err)

	_, err = ex.ExtractPath("Card.tsx")
	require.Error(t, err)

	result, err := ex.ExtractFile("Card.tsx", []byte(cardSource))
	require.NoError(t, err)
	assert.Equal(t, "Card", result.Component.Name)
}

func TestNewExtractorRequiresParser(t *testing.T) {
	_, err := NewExtractor(nil, nil, nil)
	require.Error(t, err)
}

func TestConcurrentExtraction(t *testing.T) {
	ex := setupExtractor(t)

	sources := map[string]string{
		"A.tsx": `export const A = () => <div className="p-2" />;`,
		"B.tsx": `export default function B() { const [x] = useState(0); return x; }`,
		"C.jsx": cardSource,
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for name, source := range sources {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := ex.ExtractFile(name, []byte(source))
				assert.NoError(t, err)
				assert.NotNil(t, result)
			}()
		}
	}
	wg.Wait()

	stats := ex.Stats()
	assert.Equal(t, int64(30), stats.Extractions)
	assert.Equal(t, int64(30), stats.CacheHits+stats.CacheMisses)
	assert.Equal(t, 3, stats.CachedResults)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		ContentHash(nil))
	assert.NotEqual(t, ContentHash([]byte("a")), ContentHash([]byte("b")))
}

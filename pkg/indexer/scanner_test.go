package indexer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/parser"
	"github.com/gnana997/uilens/pkg/util"
)

func setupExtractor(t *testing.T) *extractor.Extractor {
	t.Helper()
	logger := quietLogger()

	pm := parser.NewParserManager(logger)
	files := util.NewFileCache(&util.FileCacheConfig{Logger: logger})
	t.Cleanup(func() {
		files.Close()
		pm.Close()
	})

	ex, err := extractor.NewExtractor(pm, files, &extractor.Config{Logger: logger})
	require.NoError(t, err)
	return ex
}

func writeFile(t *testing.T, root, rel, contents string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// setupWorkspace lays out a small component library with files that the
// default scan options must skip.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "src/components/Button.tsx", `import { cva } from "class-variance-authority";
const buttonVariants = cva("inline-flex", { variants: { size: { sm: "h-8", lg: "h-10" } } });
export function Button({ size, ...props }) {
  return <button className={buttonVariants({ size })} {...props} />;
}`)
	writeFile(t, root, "src/components/Card.jsx", `export default function Card({ children }) {
  return <div className="rounded-lg border">{children}</div>;
}`)
	writeFile(t, root, "src/lib/utils.ts", `export const cn = (...inputs) => inputs.join(" ");`)

	writeFile(t, root, "src/components/Button.test.tsx", `export function ButtonTest() { return null; }`)
	writeFile(t, root, "src/components/Button.stories.tsx", `export const Primary = () => null;`)
	writeFile(t, root, "src/types.d.ts", `declare const x: number;`)
	writeFile(t, root, "node_modules/react/index.js", `export function React() {}`)
	writeFile(t, root, "dist/Button.js", `export function Button() {}`)
	writeFile(t, root, "README.md", "# components")
	return root
}

func TestWorkerPool_Basic(t *testing.T) {
	ex := setupExtractor(t)
	root := t.TempDir()
	good := writeFile(t, root, "Badge.tsx", `export const Badge = () => <span />;`)

	pool := NewWorkerPool(context.Background(), 2, ex, quietLogger())
	pool.Start()
	defer pool.Stop()

	jobs := []string{good, filepath.Join(root, "Missing.tsx"), filepath.Join(root, "notes.txt")}
	for i, file := range jobs {
		require.NoError(t, pool.Submit(FileJob{FilePath: file, JobID: i}))
	}
	pool.FinishSubmitting()

	var results []JobResult
	var failures []FileError
	for i := 0; i < len(jobs); i++ {
		select {
		case result := <-pool.Results():
			results = append(results, result)
		case fileErr := <-pool.Errors():
			failures = append(failures, fileErr)
		}
	}
	pool.Wait()

	require.Len(t, results, 1)
	assert.Equal(t, good, results[0].FilePath)
	assert.Equal(t, 0, results[0].JobID)
	assert.Equal(t, "Badge", results[0].Result.Component.Name)
	assert.Len(t, failures, 2)

	stats := pool.GetStats()
	assert.Equal(t, 2, stats.NumWorkers)
	assert.Equal(t, int64(3), stats.JobsSubmitted)
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(2), stats.JobsFailed)
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1, setupExtractor(t), quietLogger())
	pool.Start()
	pool.Stop()
	pool.Stop()

	assert.Error(t, pool.Submit(FileJob{FilePath: "A.tsx"}))
}

func TestWorkerPool_DefaultSize(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0, setupExtractor(t), nil)
	assert.Equal(t, util.GetOptimalPoolSize(), pool.GetStats().NumWorkers)
}

func TestScanWorkspace(t *testing.T) {
	root := setupWorkspace(t)
	index := newTestIndex(t, 100)
	scanner := NewWorkspaceScanner(setupExtractor(t), index, quietLogger())

	var progress []int
	stats, err := scanner.ScanWorkspace(context.Background(), root, DefaultScanOptions(),
		func(processed, total int, file string) {
			assert.Equal(t, 3, total)
			progress = append(progress, processed)
		})
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 2, stats.ComponentsFound)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.False(t, stats.Cancelled)
	assert.Empty(t, stats.Errors)
	assert.Equal(t, util.GetOptimalPoolSize(), stats.WorkerCount)
	assert.Equal(t, []int{1, 2, 3}, progress)
	assert.False(t, stats.EndTime.Before(stats.StartTime))

	var names []string
	for _, fc := range index.All() {
		names = append(names, fc.Component.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"Button", "Card", analyzer.UnknownName}, names)

	buttons := index.FindByName("Button")
	require.Len(t, buttons, 1)
	assert.Equal(t, filepath.Join(root, "src", "components", "Button.tsx"), buttons[0].FilePath)
	assert.Equal(t, analyzer.StylingVariantAuthoring, buttons[0].Component.StylingLibrary.Type)
}

func TestScanWorkspace_RunIDsDiffer(t *testing.T) {
	root := setupWorkspace(t)
	scanner := NewWorkspaceScanner(setupExtractor(t), newTestIndex(t, 100), quietLogger())

	first, err := scanner.ScanWorkspace(context.Background(), root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	second, err := scanner.ScanWorkspace(context.Background(), root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 3, scanner.Index().Len())
}

func TestScanWorkspace_IncludeExclude(t *testing.T) {
	root := setupWorkspace(t)
	scanner := NewWorkspaceScanner(setupExtractor(t), newTestIndex(t, 100), quietLogger())

	stats, err := scanner.ScanWorkspace(context.Background(), root, ScanOptions{
		Include: []string{"src/components/**/*.tsx"},
		Exclude: []string{"**/*.stories.*"},
	}, nil)
	require.NoError(t, err)

	// Button.test.tsx and Button.tsx
	assert.Equal(t, 2, stats.FilesDiscovered)

	all := scanner.Index().All()
	require.Len(t, all, 2)
	assert.Equal(t, "ButtonTest", all[0].Component.Name)
	assert.Equal(t, "Button", all[1].Component.Name)
}

func TestScanWorkspace_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Top.tsx", `export const Top = () => null;`)
	writeFile(t, root, "nested/Deep.tsx", `export const Deep = () => null;`)

	scanner := NewWorkspaceScanner(setupExtractor(t), newTestIndex(t, 10), quietLogger())
	stats, err := scanner.ScanWorkspace(context.Background(), root, ScanOptions{MaxDepth: 1}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesDiscovered)
	assert.Len(t, scanner.Index().FindByName("Top"), 1)
}

func TestScanWorkspace_RecordsFileErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Good.tsx", `export const Good = () => null;`)
	require.NoError(t, os.Symlink(filepath.Join(root, "missing-target.tsx"), filepath.Join(root, "Broken.tsx")))

	scanner := NewWorkspaceScanner(setupExtractor(t), newTestIndex(t, 10), quietLogger())
	stats, err := scanner.ScanWorkspace(context.Background(), root, DefaultScanOptions(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesFailed)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, filepath.Join(root, "Broken.tsx"), stats.Errors[0].FilePath)
	assert.Error(t, stats.Errors[0].Error)
	assert.InDelta(t, 0.5, stats.SuccessRate, 0.001)
}

func TestScanWorkspace_EmptyAndInvalid(t *testing.T) {
	scanner := NewWorkspaceScanner(setupExtractor(t), newTestIndex(t, 10), quietLogger())

	stats, err := scanner.ScanWorkspace(context.Background(), t.TempDir(), DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesDiscovered)
	assert.Equal(t, 0.0, stats.SuccessRate)

	_, err = scanner.ScanWorkspace(context.Background(), t.TempDir(), ScanOptions{Include: []string{"[unclosed"}}, nil)
	assert.Error(t, err)

	_, err = scanner.ScanWorkspace(context.Background(), filepath.Join(t.TempDir(), "missing"), DefaultScanOptions(), nil)
	assert.Error(t, err)
}

func TestScanWorkspace_Cancelled(t *testing.T) {
	root := setupWorkspace(t)
	scanner := NewWorkspaceScanner(setupExtractor(t), newTestIndex(t, 10), quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := scanner.ScanWorkspace(ctx, root, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.True(t, stats.Cancelled)
	assert.Equal(t, 3, stats.FilesDiscovered)
	assert.LessOrEqual(t, stats.FilesIndexed+stats.FilesFailed, 3)
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"**/node_modules/**", "node_modules", true, true},
		{"**/node_modules/**", "packages/ui/node_modules", true, true},
		{"**/node_modules/**", "node_modules/react/index.js", false, true},
		{"**/*.test.*", "src/Button.test.tsx", false, true},
		{"**/*.test.*", "src/Button.tsx", false, false},
		{"**/*.{ts,tsx,js,jsx}", "Button.jsx", false, true},
		{"**/*.{ts,tsx,js,jsx}", "styles.css", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesAny([]string{tt.pattern}, tt.path, tt.isDir))
		})
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilens/pkg/catalog"
	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/indexer"
)

// scanFlags are shared by scan and watch.
type scanFlags struct {
	out            string
	catalogName    string
	catalogVersion string
	workers        int
	maxDepth       int
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "catalog output path (default: catalog_path from config, then "+defaultCatalogPath+")")
	cmd.Flags().StringVar(&f.catalogName, "name", "", "catalog name (default: workspace directory name)")
	cmd.Flags().StringVar(&f.catalogVersion, "catalog-version", "0.0.0", "catalog version")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "number of analysis workers (default: CPU based)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum directory depth, 0 for unlimited")
}

func scanCmd(a *app) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Analyze every component in a workspace and write a catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, err := a.openWorkspace(args)
			if err != nil {
				return err
			}
			defer ws.close()

			stats, err := ws.scan(ctx, &flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if stats.Cancelled {
				return errors.New("scan cancelled")
			}

			path, err := ws.writeCatalog(&flags, stats.RunID)
			if err != nil {
				return err
			}
			printScanSummary(cmd.ErrOrStderr(), ws.root, stats, path)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

// workspace bundles the extractor and index for one scanned directory.
type workspace struct {
	app     *app
	root    string
	ex      *extractor.Extractor
	index   *indexer.ComponentIndex
	cleanup func()
}

func (a *app) openWorkspace(args []string) (*workspace, error) {
	root, err := resolveTargetDir(args)
	if err != nil {
		return nil, err
	}

	ex, cleanup, err := a.newExtractor()
	if err != nil {
		return nil, err
	}

	index, err := indexer.NewComponentIndex(indexer.DefaultIndexConfig(), a.logger)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating index: %w", err)
	}

	return &workspace{app: a, root: root, ex: ex, index: index, cleanup: cleanup}, nil
}

func (ws *workspace) close() {
	ws.index.Close()
	ws.cleanup()
}

// scan indexes the workspace, reporting progress on progressOut.
func (ws *workspace) scan(ctx context.Context, flags *scanFlags, progressOut io.Writer) (*indexer.ScanStats, error) {
	scanner := indexer.NewWorkspaceScanner(ws.ex, ws.index, ws.app.logger)
	scanner.Workers = flags.workers

	opts := ws.app.config.scanOptions()
	opts.MaxDepth = flags.maxDepth

	progress := func(processed, total int, _ string) {
		fmt.Fprintf(progressOut, "\rAnalyzed %d/%d files", processed, total)
		if processed == total {
			fmt.Fprintln(progressOut)
		}
	}

	stats, err := scanner.ScanWorkspace(ctx, ws.root, opts, progress)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ws.root, err)
	}
	return stats, nil
}

// writeCatalog builds a catalog from the index, validates it and saves it.
// Returns the path written.
func (ws *workspace) writeCatalog(flags *scanFlags, runID string) (string, error) {
	name := flags.catalogName
	if name == "" {
		name = filepath.Base(ws.root)
	}

	cat := catalog.Build(catalog.BuildOptions{
		Name:    name,
		Version: flags.catalogVersion,
		Root:    ws.root,
		RunID:   runID,
	}, ws.index.All())

	if errs := cat.Validate(); len(errs) > 0 {
		return "", fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}

	path := ws.app.config.resolveCatalogPath(flags.out)
	if err := cat.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

func printScanSummary(w io.Writer, root string, stats *indexer.ScanStats, catalogPath string) {
	fmt.Fprintf(w, "Scanned %s in %s: %d files, %d components, %d failed\n",
		root,
		(time.Duration(stats.TotalTimeMs) * time.Millisecond).Round(time.Millisecond),
		stats.FilesIndexed,
		stats.ComponentsFound,
		stats.FilesFailed,
	)
	for _, fe := range stats.Errors {
		fmt.Fprintf(w, "  ! %s: %v\n", fe.FilePath, fe.Error)
	}
	fmt.Fprintf(w, "Catalog: %s\n", catalogPath)
}

// resolveTargetDir returns the absolute path of the directory to scan.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

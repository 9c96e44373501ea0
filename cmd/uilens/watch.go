package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/indexer"
)

// watchLine is the JSON line printed for every change.
type watchLine struct {
	Time      string               `json:"ts"`
	FilePath  string               `json:"file_path"`
	Op        string               `json:"op"`
	Removed   bool                 `json:"removed,omitempty"`
	Component string               `json:"component,omitempty"`
	Styling   analyzer.StylingType `json:"styling,omitempty"`
	Error     string               `json:"error,omitempty"`
}

func newWatchLine(ev indexer.WatchEvent) watchLine {
	line := watchLine{
		Time:     ev.Timestamp.UTC().Format(time.RFC3339),
		FilePath: ev.FilePath,
		Op:       ev.Op,
		Removed:  ev.Removed,
	}
	if ev.Component != nil {
		line.Component = ev.Component.Name
		line.Styling = ev.Component.StylingLibrary.Type
	}
	if ev.Err != nil {
		line.Error = ev.Err.Error()
	}
	return line
}

func watchCmd(a *app) *cobra.Command {
	var (
		flags      scanFlags
		write      bool
		debounceMs int
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-analyze components as files change",
		Long: `Scan a workspace, then watch it and print one JSON line per re-analyzed
or removed file. With --write the catalog is rewritten after every change.`,
		Args: cobra.MaximumNArgs(1),
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
				return nil
			}
			if write {
				path, err := ws.writeCatalog(&flags, stats.RunID)
				if err != nil {
					return err
				}
				printScanSummary(cmd.ErrOrStderr(), ws.root, stats, path)
			}

			events := make(chan indexer.WatchEvent, 64)
			opts := indexer.DefaultWatchOptions()
			opts.DebounceMs = debounceMs
			opts.IgnorePatterns = append(opts.IgnorePatterns, a.config.scanOptions().Exclude...)
			opts.OnChange = func(ev indexer.WatchEvent) {
				select {
				case events <- ev:
				default:
					a.logger.Warn("dropping watch event, output is not keeping up", "path", ev.FilePath)
				}
			}

			watcher, err := indexer.NewFileWatcher(ws.ex, ws.index, opts, a.logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(ws.root); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", ws.root)

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-events:
					if err := handleWatchEvent(enc, ws, &flags, write, ev); err != nil {
						return err
					}
				}
			}
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&write, "write", false, "rewrite the catalog after every change")
	cmd.Flags().IntVar(&debounceMs, "debounce", indexer.DefaultWatchOptions().DebounceMs, "debounce delay in milliseconds")

	return cmd
}

func handleWatchEvent(enc *json.Encoder, ws *workspace, flags *scanFlags, write bool, ev indexer.WatchEvent) error {
	if err := enc.Encode(newWatchLine(ev)); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	if !write {
		return nil
	}
	if _, err := ws.writeCatalog(flags, ""); err != nil {
		ws.app.logger.Warn("catalog not updated", "error", err)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilens/pkg/catalog"
	mcpserver "github.com/gnana997/uilens/pkg/mcp"
	"github.com/gnana997/uilens/pkg/mcplog"
)

func serveCmd(a *app) *cobra.Command {
	var (
		catalogPath string
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start an MCP server on stdin/stdout exposing component analysis tools.

The catalog written by "uilens scan" backs the catalog tools:
list_components, get_component, styling_summary, find_components and
search_components. Without one the server still answers analyze_source
and analyze_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := loadServeCatalog(a, catalogPath)
			if err != nil {
				return err
			}

			ex, cleanup, err := a.newExtractor()
			if err != nil {
				return err
			}
			defer cleanup()

			callLog, err := mcplog.NewLogger(logFile)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			srv := mcpserver.NewServer(ex, qs, callLog)
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog path (default: catalog_path from config, then "+defaultCatalogPath+")")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append one JSON line per tool call to this file")

	return cmd
}

// loadServeCatalog loads the catalog for serve. A missing catalog at the
// configured or default location is not an error; a missing catalog named
// by --catalog is.
func loadServeCatalog(a *app, flagValue string) (*catalog.QueryService, error) {
	path := a.config.resolveCatalogPath(flagValue)

	qs, err := catalog.LoadAndQuery(path)
	if err == nil {
		a.logger.Info("catalog loaded", "path", path, "components", len(qs.Catalog.Components))
		return qs, nil
	}
	if flagValue == "" && errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("no catalog found, catalog tools disabled", "path", path)
		return nil, nil
	}
	return nil, fmt.Errorf("failed to load catalog: %w", err)
}

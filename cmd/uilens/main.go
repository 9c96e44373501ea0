package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/parser"
	"github.com/gnana997/uilens/pkg/util"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand once the persistent
// flags and the project config are resolved.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	config *ProjectConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "uilens",
		Short:         "Static analysis for React component libraries",
		Long:          "uilens parses JS/TS/JSX/TSX components and reports their props, hooks, variant configs, class-name usage, JSX structure and styling approach.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: "+defaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text|json")

	rootCmd.AddCommand(analyzeCmd(a))
	rootCmd.AddCommand(scanCmd(a))
	rootCmd.AddCommand(watchCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	rootCmd.AddCommand(setupCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// init loads the project config and builds the logger. Flags win over the
// config file.
func (a *app) init(logOutput io.Writer) error {
	cfg, err := loadProjectConfig(a.configPath)
	if err != nil {
		return err
	}
	a.config = cfg

	levelName := a.logLevel
	if levelName == "" {
		levelName = cfg.LogLevel
	}
	level, err := util.ParseLogLevel(levelName)
	if err != nil {
		return err
	}

	formatName := a.logFormat
	if formatName == "" {
		formatName = cfg.LogFormat
	}
	format, err := util.ParseLogFormat(formatName)
	if err != nil {
		return err
	}

	a.logger = util.NewLogger(util.LoggerConfig{Level: level, Format: format, Output: logOutput})
	return nil
}

// newExtractor wires a parser manager, file cache and extractor. The
// returned cleanup releases all three.
func (a *app) newExtractor() (*extractor.Extractor, func(), error) {
	pm := parser.NewParserManager(a.logger)

	cacheConfig := util.DefaultFileCacheConfig()
	cacheConfig.Logger = a.logger
	files := util.NewFileCache(cacheConfig)

	cleanup := func() {
		files.Close()
		pm.Close()
	}

	config := a.config.extractorConfig()
	config.Logger = a.logger
	ex, err := extractor.NewExtractor(pm, files, config)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating extractor: %w", err)
	}
	return ex, cleanup, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "uilens %s\n", version)
			return nil
		},
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

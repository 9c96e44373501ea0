package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/uilens/pkg/analyzer"
	"github.com/gnana997/uilens/pkg/extractor"
)

const stdinPath = "-"

func analyzeCmd(a *app) *cobra.Command {
	var (
		format    string
		stdinName string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Analyze component source files",
		Long: `Analyze one or more .js, .jsx, .ts or .tsx files and print the result.

A single file prints one JSON object, several files print an array. Pass "-"
to read source from stdin; --stdin-name picks the grammar for it.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, cleanup, err := a.newExtractor()
			if err != nil {
				return err
			}
			defer cleanup()

			components := make([]*analyzer.ComponentResult, 0, len(args))
			for _, path := range args {
				result, err := analyzeOne(ex, path, stdinName, cmd.InOrStdin())
				if err != nil {
					return err
				}
				a.logger.Debug("analyzed file",
					"path", result.FilePath,
					"component", result.Component.Name,
					"duration_ms", result.Duration.Milliseconds())
				components = append(components, result.Component)
			}

			out := cmd.OutOrStdout()
			if format == formatText {
				for i, c := range components {
					if i > 0 {
						fmt.Fprintln(out)
					}
					printComponentText(out, c)
				}
				return nil
			}
			if len(components) == 1 {
				return writeJSON(out, components[0])
			}
			return writeJSON(out, components)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json|text")
	cmd.Flags().StringVar(&stdinName, "stdin-name", "Component.tsx", "file name reported for source read from stdin")

	return cmd
}

func analyzeOne(ex *extractor.Extractor, path, stdinName string, stdin io.Reader) (*extractor.FileResult, error) {
	if path != stdinPath {
		result, err := ex.ExtractPath(path)
		if err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", path, err)
		}
		return result, nil
	}

	source, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	result, err := ex.ExtractFile(stdinName, source)
	if err != nil {
		return nil, fmt.Errorf("analyzing stdin: %w", err)
	}
	return result, nil
}

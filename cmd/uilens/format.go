package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/gnana997/uilens/pkg/analyzer"
)

const (
	formatJSON = "json"
	formatText = "text"
)

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatText:
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}
}

// printComponentText prints a human-readable summary of one analysis.
func printComponentText(w io.Writer, c *analyzer.ComponentResult) {
	fmt.Fprintf(w, "%s  [%s, %s export]\n", c.Name, c.Type, c.ExportType)
	fmt.Fprintf(w, "  %s\n", c.FilePath)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Styling  %s (confidence %d)\n", c.StylingLibrary.Type, c.StylingLibrary.Confidence)
	for _, indicator := range c.StylingLibrary.Indicators {
		fmt.Fprintf(w, "  - %s\n", indicator)
	}

	fmt.Fprintln(w)
	printProps(w, c.Props)

	fmt.Fprintln(w)
	printHooks(w, c.Hooks)

	fmt.Fprintln(w)
	printVariants(w, c.VariantConfigs)

	fmt.Fprintln(w)
	printList(w, "Packages", c.Packages)

	fmt.Fprintln(w)
	printList(w, "Elements", elementNames(c))

	if c.ClassNameUsage.HasUtility {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Class names  %d call(s) via %s\n", len(c.ClassNameUsage.Usages), c.ClassNameUsage.ImportSource)
	}
}

// printProps renders the props table.
func printProps(w io.Writer, props []analyzer.Prop) {
	if len(props) == 0 {
		fmt.Fprintln(w, "Props  (none)")
		return
	}

	fmt.Fprintln(w, "Props")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tTYPE\tOPTIONAL\tDEFAULT")
	for _, p := range props {
		optional := "no"
		if p.IsOptional {
			optional = "yes"
		}
		def := "-"
		if p.DefaultValue != nil {
			def = *p.DefaultValue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Name, p.Type, optional, def)
	}
	tw.Flush()
}

func printHooks(w io.Writer, hooks []analyzer.Hook) {
	if len(hooks) == 0 {
		fmt.Fprintln(w, "Hooks  (none)")
		return
	}
	fmt.Fprintln(w, "Hooks")
	for _, h := range hooks {
		fmt.Fprintf(w, "  %s(%s)\n", h.Name, strings.Join(h.Arguments, ", "))
	}
}

// printVariants lists each variant config with its axes and options.
func printVariants(w io.Writer, configs []analyzer.VariantConfig) {
	if len(configs) == 0 {
		fmt.Fprintln(w, "Variants  (none)")
		return
	}
	fmt.Fprintln(w, "Variants")
	for _, cfg := range configs {
		fmt.Fprintf(w, "  %s\n", cfg.VariableName)
		if cfg.Value.Base != "" {
			fmt.Fprintf(w, "    base: %s\n", cfg.Value.Base)
		}
		for _, axis := range cfg.Value.Variants.Keys() {
			options := "?"
			if v, ok := cfg.Value.Variants.Get(axis); ok {
				if m, ok := v.(analyzer.MapValue); ok {
					options = strings.Join(m.Keys(), " | ")
				}
			}
			line := fmt.Sprintf("    %s: %s", axis, options)
			if def, ok := cfg.Value.DefaultVariants.Get(axis); ok {
				if s, ok := analyzer.Text(def); ok {
					line += fmt.Sprintf(" (default %s)", s)
				}
			}
			fmt.Fprintln(w, line)
		}
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}
	fmt.Fprintf(w, "%s  %s\n", title, strings.Join(items, ", "))
}

func elementNames(c *analyzer.ComponentResult) []string {
	names := make([]string, 0, len(c.JSXElements))
	for name := range c.JSXElements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const serverName = "uilens"

// mcpClient describes where one MCP client keeps its server list.
type mcpClient struct {
	ID          string
	DisplayName string
	Markers     []string      // paths whose presence means the client is in use
	ConfigPath  func() string // resolved config file path
	ServersKey  string        // "servers" (VS Code) or "mcpServers" (others)
	ExtraFields map[string]string
}

// detectedClient is a client found in the current project or user profile.
type detectedClient struct {
	Client       mcpClient
	ConfigPath   string
	AlreadySetup bool
}

type setupOptions struct {
	yes         bool
	force       bool
	catalogPath string
}

// Replaceable for testing.
var statFunc = os.Stat

var clientRegistry = []mcpClient{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Markers:    []string{".claude", ".mcp.json"},
		ConfigPath: func() string { return ".mcp.json" },
		ServersKey: "mcpServers",
	},
	{
		ID: "vscode", DisplayName: "VS Code",
		Markers:     []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Markers:    []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

func setupCmd() *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the uilens MCP server with detected MCP clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "configure every detected client without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "replace an existing uilens entry")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "catalog path passed to uilens serve")

	return cmd
}

// detectClients returns the clients whose markers exist. Clients without
// markers are detected by the presence of their config directory.
func detectClients() []detectedClient {
	var detected []detectedClient
	for _, client := range clientRegistry {
		if !clientPresent(client) {
			continue
		}
		path := client.ConfigPath()
		detected = append(detected, detectedClient{
			Client:       client,
			ConfigPath:   path,
			AlreadySetup: hasServerEntry(path, client.ServersKey),
		})
	}
	return detected
}

func clientPresent(client mcpClient) bool {
	if len(client.Markers) == 0 {
		_, err := statFunc(filepath.Dir(client.ConfigPath()))
		return err == nil
	}
	for _, marker := range client.Markers {
		if _, err := statFunc(marker); err == nil {
			return true
		}
	}
	return false
}

func hasServerEntry(configPath, serversKey string) bool {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, _ := config[serversKey].(map[string]any)
	_, ok := servers[serverName]
	return ok
}

// serverEntry is the MCP server definition written for uilens.
func serverEntry(catalogPath string, extra map[string]string) map[string]any {
	args := []any{"serve"}
	if catalogPath != "" {
		args = append(args, "--catalog", catalogPath)
	}
	entry := map[string]any{
		"command": serverName,
		"args":    args,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds entry under serversKey in the JSON document
// existing, keeping every other key. It returns nil when an entry already
// exists and replace is false.
func mergeServerEntry(existing []byte, serversKey string, entry map[string]any, replace bool) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists && !replace {
		return nil, nil
	}

	servers[serverName] = entry
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// writeClientConfig merges the uilens entry into the client's config file.
// Reports whether the file changed.
func writeClientConfig(client mcpClient, configPath string, opts setupOptions) (bool, error) {
	existing, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read %s: %w", configPath, err)
	}

	merged, err := mergeServerEntry(existing, client.ServersKey, serverEntry(opts.catalogPath, client.ExtraFields), opts.force)
	if err != nil {
		return false, fmt.Errorf("%s: %w", configPath, err)
	}
	if merged == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(configPath, merged, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// promptYesNo prints a question and reads Y/n. Empty input and EOF mean yes.
func promptYesNo(in *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [Y/n] ", question)
	if !in.Scan() {
		fmt.Fprintln(w)
		return true
	}
	switch strings.TrimSpace(strings.ToLower(in.Text())) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// executeSetup is the I/O-parameterized core of `uilens setup`.
func executeSetup(r io.Reader, w io.Writer, opts setupOptions) error {
	detected := detectClients()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No MCP clients detected.")
		return nil
	}

	fmt.Fprintln(w, "Detected MCP clients:")
	for _, d := range detected {
		note := ""
		if d.AlreadySetup {
			note = " (already configured)"
		}
		fmt.Fprintf(w, "  * %s%s\n", d.Client.DisplayName, note)
	}

	in := bufio.NewScanner(r)
	var failed int
	for _, d := range detected {
		if d.AlreadySetup && !opts.force {
			continue
		}
		if !opts.yes && !promptYesNo(in, w, fmt.Sprintf("Add uilens to %s (%s)?", d.Client.DisplayName, d.ConfigPath)) {
			fmt.Fprintf(w, "  skipped %s\n", d.Client.DisplayName)
			continue
		}

		changed, err := writeClientConfig(d.Client, d.ConfigPath, opts)
		switch {
		case err != nil:
			failed++
			fmt.Fprintf(w, "  ! %s: %v\n", d.Client.DisplayName, err)
		case changed:
			fmt.Fprintf(w, "  + %s configured (%s)\n", d.Client.DisplayName, d.ConfigPath)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d client(s) could not be configured", failed)
	}
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
	"github.com/daybook-app/daybook/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Daybook MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the daybook
settings, entries, media, checklist, album, search and export functionality
as MCP tools via STDIO.

The --dbpath and --datadir flags are optional. If not provided, a system-specific
default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\daybook\daybook.db
- macOS: ~/Library/Application Support/daybook/daybook.db
- Linux: ~/.local/share/daybook/daybook.db

Example:

  daybook mcp --dbpath daybook.db | tee server.log

  # The flat key-value backend instead of SQLite:
  daybook mcp --backend kv

  # Or simply use the default location:
  daybook mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.NewDaybookMCPServer(journal.Config{
			Backend:    backendName,
			DBPath:     dbPath,
			EnableWAL:  true,
			SyncPragma: "NORMAL",
			DataDir:    dataDir,
		})
		if err != nil {
			return err
		}
		defer srv.Close()

		store := srv.Store()
		s := srv.MCPRawServer()

		mcp.RegisterPingTool(s)
		mcp.RegisterSettingsTools(s, store)
		mcp.RegisterEntryTools(s, store)
		mcp.RegisterMediaTools(s, store)
		mcp.RegisterChecklistTools(s, store)
		mcp.RegisterAlbumTools(s, store)
		mcp.RegisterExportTool(s, store)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Daybook MCP server started. Backend: %s, Location: %s\n", srv.Backend, srv.Location)
		fmt.Fprintln(os.Stderr, "Available tools: ping, save_settings, get_settings, create_entry, list_entries, get_entry, update_entry, delete_entry, search_entries, add_media, list_entry_media, list_all_media, delete_media, add_checklist_item, list_checklist_items, update_checklist_item, delete_checklist_item, create_album, list_albums, update_album, delete_album, add_album_media, remove_album_media, list_album_media, export_journal")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}

package mcp

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	daybook "github.com/daybook-app/daybook/pkg"
	"github.com/daybook-app/daybook/pkg/journal"
	"github.com/daybook-app/daybook/pkg/utils"
)

// DaybookMCPServer exposes the journal datastore over MCP stdio.
type DaybookMCPServer struct {
	mcpServer *server.MCPServer
	store     journal.Store
	Backend   string
	Location  string
}

// NewDaybookMCPServer opens the selected storage backend and wraps it in an
// MCP server. Empty paths fall back to the system defaults.
func NewDaybookMCPServer(cfg journal.Config) (*DaybookMCPServer, error) {
	location := cfg.DBPath
	switch cfg.Backend {
	case journal.BackendKV:
		if cfg.DataDir == "" {
			cfg.DataDir = utils.GetDefaultDataDir()
		}
		location = cfg.DataDir
	default:
		resolved, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		cfg.DBPath = resolved
		location = resolved
	}

	s := server.NewMCPServer(
		"Daybook MCP Server",
		daybook.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	store, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal store: %w", err)
	}

	return &DaybookMCPServer{
		mcpServer: s,
		store:     store,
		Backend:   cfg.Backend,
		Location:  location,
	}, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *DaybookMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// Store returns the underlying journal store.
func (s *DaybookMCPServer) Store() journal.Store {
	return s.store
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *DaybookMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close cleans up allocated resources.
func (s *DaybookMCPServer) Close() error {
	if sqliteStore, ok := s.store.(*journal.SQLiteStore); ok {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		_, err := sqliteStore.DB().Exec("PRAGMA wal_checkpoint(TRUNCATE);")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
	}
	return s.store.Close()
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	daybook "github.com/daybook-app/daybook/pkg"
	pkgdb "github.com/daybook-app/daybook/pkg/db"
	"github.com/daybook-app/daybook/pkg/journal"
	"github.com/daybook-app/daybook/pkg/utils"
)

var (
	backendName string
	dbPath      string
	dataDir     string
)

var rootCmd = &cobra.Command{
	Use:     "daybook",
	Short:   "A local-first datastore for your personal journal: entries, media, checklists and albums.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", daybook.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for daybook.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(daybook completion bash)

  Bash (persist):
    $ daybook completion bash > /etc/bash_completion.d/daybook

  Zsh:
    $ daybook completion zsh > "${fpath[1]}/_daybook"

  Fish:
    $ daybook completion fish | source
    $ daybook completion fish > ~/.config/fish/completions/daybook.fish

  PowerShell:
    PS> daybook completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of daybook",
	Long:  `All software has versions. This is daybook's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(daybook.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the Daybook database",
	Long:  `Provides commands for managing the Daybook storage, including schema upgrades and full resets.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the Daybook database schema to the latest version for the journaldb component",
	Long: `Connects to the SQLite database at the specified path (via --dbpath) and applies any necessary
schema migrations to bring the journaldb component up to the current application schema version.
If the database does not exist or is uninitialized for this component, it will be created
and initialized with the latest schema for the journaldb component.

The kv backend keeps no schema, so this command only applies to sqlite.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backendName == journal.BackendKV {
			fmt.Println("The kv backend is schemaless; nothing to upgrade.")
			return nil
		}

		walEnabled, _ := cmd.Flags().GetBool("wal")
		syncMode, _ := cmd.Flags().GetString("sync")

		resolvedPath, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return err
		}

		fmt.Printf("Attempting to upgrade journaldb component in database at: %s (WAL: %t, Sync: %s)\n", resolvedPath, walEnabled, syncMode)

		dbConn, err := pkgdb.OpenDBConnection(resolvedPath, walEnabled, syncMode)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, resolvedPath, pkgdb.TargetSchemaVersion)
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all journal data from the selected backend",
	Long:  `Removes every entry, media item, checklist item, album and the user settings record. The schema (sqlite) or data directory (kv) is kept. This cannot be undone.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return fmt.Errorf("refusing to reset without --yes")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset journal data: %w", err)
		}

		fmt.Println("All journal data deleted.")
		return nil
	},
}

// openStore resolves default locations for the selected backend and opens it.
func openStore() (journal.Store, error) {
	cfg := journal.Config{
		Backend:    backendName,
		EnableWAL:  true,
		SyncPragma: "NORMAL",
		DataDir:    dataDir,
	}

	switch backendName {
	case journal.BackendKV:
		if cfg.DataDir == "" {
			cfg.DataDir = utils.GetDefaultDataDir()
		}
	default:
		resolved, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return nil, err
		}
		cfg.DBPath = resolved
	}

	store, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal store: %w", err)
	}
	return store, nil
}

func initCmd() {
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", journal.BackendSQLite, "Storage backend: sqlite or kv")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "Path to the Daybook SQLite database file (defaults to a system-specific location)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "datadir", "", "Directory for the kv backend's collection files (defaults to a system-specific location)")

	dbUpgradeCmd.Flags().Bool("wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode.")
	dbUpgradeCmd.Flags().String("sync", "NORMAL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA).")
	dbResetCmd.Flags().Bool("yes", false, "Confirm deleting all journal data")
	dbCmd.AddCommand(dbUpgradeCmd, dbResetCmd)

	initSettingsCmd()
	initEntriesCmd()
	initMediaCmd()
	initChecklistCmd()
	initAlbumsCmd()
	initExportCmd()

	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, settingsCmd, entriesCmd, mediaCmd, checklistCmd, albumsCmd, searchCmd, exportCmd, mcpCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full journal as a JSON document",
	Long: `Assembles the user settings, all entries, and all albums into a single JSON
snapshot and writes it to a file (or stdout with --out -). The default filename
is journal-export-YYYY-MM-DD.json in the current directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		snapshot, err := journal.BuildSnapshot(cmd.Context(), store)
		if err != nil {
			return fmt.Errorf("failed to build export snapshot: %w", err)
		}

		output, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format export output: %w", err)
		}

		if outPath == "-" {
			fmt.Println(string(output))
			return nil
		}

		if outPath == "" {
			outPath = fmt.Sprintf("journal-export-%s.json", time.Now().Format("2006-01-02"))
		}

		if err := os.WriteFile(outPath, append(output, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write export file: %w", err)
		}

		fmt.Printf("Exported %d entries and %d albums to %s\n", snapshot.EntryCount, snapshot.AlbumCount, outPath)
		return nil
	},
}

func initExportCmd() {
	exportCmd.Flags().StringP("out", "o", "", "Output file path ('-' for stdout; defaults to journal-export-YYYY-MM-DD.json)")
}

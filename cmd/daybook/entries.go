package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage journal entries",
	Long:  `Provides commands for creating, listing, getting, updating, and deleting journal entries.`,
}

var entryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new journal entry",
	Long:  `Creates a new entry with the given title and optional content, mood, weather, location, and tags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		mood, _ := cmd.Flags().GetString("mood")
		weather, _ := cmd.Flags().GetString("weather")
		location, _ := cmd.Flags().GetString("location")
		tags, _ := cmd.Flags().GetString("tags")

		if title == "" {
			return fmt.Errorf("title is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.CreateEntry(cmd.Context(), journal.NewEntry{
			Title:    title,
			Content:  content,
			Mood:     mood,
			Weather:  weather,
			Location: location,
			Tags:     tags,
		})
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		fmt.Println("Entry created successfully:")
		output, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format entry output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journal entries",
	Long:  `Lists all entries, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ListEntries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		fmt.Println("Entries:")
		output, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format entries output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var entryGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific entry by its ID",
	Long:  `Retrieves and displays the details of a specific entry using its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.GetEntry(cmd.Context(), entryID)
		if err != nil {
			if errors.Is(err, journal.ErrEntryNotFound) {
				fmt.Printf("Entry with ID %s not found.\n", entryID)
				return nil
			}
			return fmt.Errorf("failed to get entry: %w", err)
		}

		fmt.Printf("Entry (ID: %s):\n", entryID)
		output, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format entry output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var entryUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an existing entry",
	Long:  `Updates an existing entry with the given ID. Only provided fields will be updated.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID := args[0]

		var patch journal.EntryPatch

		if cmd.Flags().Changed("title") {
			t, _ := cmd.Flags().GetString("title")
			patch.Title = &t
		}
		if cmd.Flags().Changed("content") {
			c, _ := cmd.Flags().GetString("content")
			patch.Content = &c
		}
		if cmd.Flags().Changed("mood") {
			m, _ := cmd.Flags().GetString("mood")
			patch.Mood = &m
		}
		if cmd.Flags().Changed("weather") {
			w, _ := cmd.Flags().GetString("weather")
			patch.Weather = &w
		}
		if cmd.Flags().Changed("location") {
			l, _ := cmd.Flags().GetString("location")
			patch.Location = &l
		}
		if cmd.Flags().Changed("tags") {
			tg, _ := cmd.Flags().GetString("tags")
			patch.Tags = &tg
		}

		favoriteFlagSet := cmd.Flags().Changed("favorite")
		unfavoriteFlagSet := cmd.Flags().Changed("unfavorite")

		if favoriteFlagSet && unfavoriteFlagSet {
			return fmt.Errorf("cannot use --favorite and --unfavorite flags simultaneously")
		}
		if favoriteFlagSet {
			f := true
			patch.IsFavorite = &f
		} else if unfavoriteFlagSet {
			f := false
			patch.IsFavorite = &f
		}

		if patch.Title == nil && patch.Content == nil && patch.Mood == nil && patch.Weather == nil &&
			patch.Location == nil && patch.Tags == nil && patch.IsFavorite == nil {
			fmt.Println("No update fields provided. Use --title, --content, --mood, --weather, --location, --tags, --favorite, or --unfavorite.")
			return nil
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		updatedEntry, err := store.UpdateEntry(cmd.Context(), entryID, patch)
		if err != nil {
			if errors.Is(err, journal.ErrEntryNotFound) {
				fmt.Printf("Entry with ID %s not found.\n", entryID)
				return nil
			}
			return fmt.Errorf("failed to update entry: %w", err)
		}

		fmt.Println("Entry updated successfully:")
		output, err := json.MarshalIndent(updatedEntry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format entry output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an entry by its ID",
	Long:  `Deletes a specific entry and all its associated media, checklist items, and album links.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteEntry(cmd.Context(), entryID); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("Entry with ID %s and its associated media and checklist items deleted successfully.\n", entryID)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search entries by title, content, tags, or mood",
	Long:  `Case-insensitive substring search across entry title, content, tags, and mood. Results are newest first. A blank query matches nothing.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.SearchEntries(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to search entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found matching the query.")
			return nil
		}

		fmt.Println("Search results:")
		output, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format search results: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

func initEntriesCmd() {
	entryCreateCmd.Flags().StringP("title", "t", "", "Title of the entry (required)")
	entryCreateCmd.MarkFlagRequired("title")
	entryCreateCmd.Flags().StringP("content", "c", "", "Content of the entry")
	entryCreateCmd.Flags().String("mood", "", "Mood label (e.g. happy)")
	entryCreateCmd.Flags().String("weather", "", "Weather label")
	entryCreateCmd.Flags().String("location", "", "Location label")
	entryCreateCmd.Flags().String("tags", "", "Serialized tag list for the entry")

	entryUpdateCmd.Flags().StringP("title", "t", "", "New title for the entry")
	entryUpdateCmd.Flags().StringP("content", "c", "", "New content for the entry")
	entryUpdateCmd.Flags().String("mood", "", "New mood label")
	entryUpdateCmd.Flags().String("weather", "", "New weather label")
	entryUpdateCmd.Flags().String("location", "", "New location label")
	entryUpdateCmd.Flags().String("tags", "", "New serialized tag list")
	entryUpdateCmd.Flags().Bool("favorite", false, "Mark the entry as a favorite")
	entryUpdateCmd.Flags().Bool("unfavorite", false, "Unmark the entry as a favorite")

	entriesCmd.AddCommand(entryCreateCmd, entryListCmd, entryGetCmd, entryUpdateCmd, entryDeleteCmd)
}

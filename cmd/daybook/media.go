package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage media attached to entries",
	Long:  `Provides commands for attaching, listing, and deleting the images and videos referenced by journal entries.`,
}

var mediaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Attach a media item to an entry",
	Long:  `Records an image or video URI against an entry. The file itself is not copied; only its URI is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, _ := cmd.Flags().GetString("entry-id")
		mediaType, _ := cmd.Flags().GetString("type")
		uri, _ := cmd.Flags().GetString("uri")
		caption, _ := cmd.Flags().GetString("caption")
		timestamp, _ := cmd.Flags().GetString("timestamp")
		order, _ := cmd.Flags().GetInt("order")

		if entryID == "" {
			return fmt.Errorf("entry-id is required")
		}
		if uri == "" {
			return fmt.Errorf("uri is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		media, err := store.AddMedia(cmd.Context(), journal.NewMedia{
			EntryID:   entryID,
			Type:      mediaType,
			URI:       uri,
			Caption:   caption,
			Timestamp: timestamp,
			Order:     order,
		})
		if err != nil {
			return fmt.Errorf("failed to add media: %w", err)
		}

		fmt.Println("Media added successfully:")
		output, err := json.MarshalIndent(media, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format media output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media",
	Long:  `Lists the media of a single entry (via --entry-id, ordered by display order) or every media item across the journal (via --all, newest first).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entryID, _ := cmd.Flags().GetString("entry-id")
		all, _ := cmd.Flags().GetBool("all")

		if entryID == "" && !all {
			return fmt.Errorf("either --entry-id or --all is required")
		}
		if entryID != "" && all {
			return fmt.Errorf("cannot use --entry-id and --all simultaneously")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var media []journal.Media
		if all {
			media, err = store.ListAllMedia(cmd.Context())
		} else {
			media, err = store.ListEntryMedia(cmd.Context(), entryID)
		}
		if err != nil {
			return fmt.Errorf("failed to list media: %w", err)
		}

		if len(media) == 0 {
			fmt.Println("No media found.")
			return nil
		}

		fmt.Println("Media:")
		output, err := json.MarshalIndent(media, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format media output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a media item by its ID",
	Long:  `Deletes a media record and removes it from any albums. The underlying file is untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mediaID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteMedia(cmd.Context(), mediaID); err != nil {
			return fmt.Errorf("failed to delete media: %w", err)
		}

		fmt.Printf("Media with ID %s deleted successfully.\n", mediaID)
		return nil
	},
}

func initMediaCmd() {
	mediaAddCmd.Flags().StringP("entry-id", "e", "", "ID of the entry to attach the media to (required)")
	mediaAddCmd.MarkFlagRequired("entry-id")
	mediaAddCmd.Flags().StringP("type", "t", journal.MediaTypeImage, "Media type: image or video")
	mediaAddCmd.Flags().StringP("uri", "u", "", "URI of the media file (required)")
	mediaAddCmd.MarkFlagRequired("uri")
	mediaAddCmd.Flags().String("caption", "", "Caption for the media")
	mediaAddCmd.Flags().String("timestamp", "", "ISO-8601 capture timestamp")
	mediaAddCmd.Flags().Int("order", 0, "Display order within the entry")

	mediaListCmd.Flags().StringP("entry-id", "e", "", "ID of the entry to list media for")
	mediaListCmd.Flags().Bool("all", false, "List all media across every entry (the gallery view)")

	mediaCmd.AddCommand(mediaAddCmd, mediaListCmd, mediaDeleteCmd)
}

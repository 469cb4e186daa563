package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Manage albums",
	Long:  `Provides commands for creating, listing, updating, and deleting albums, and for managing the media they contain.`,
}

var albumCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new album",
	Long:  `Creates a new, unpinned album with the given name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("album name cannot be empty")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		album, err := store.CreateAlbum(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to create album: %w", err)
		}

		fmt.Println("Album created successfully:")
		output, err := json.MarshalIndent(album, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format album output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var albumListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all albums",
	Long:  `Lists all albums, most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		albums, err := store.ListAlbums(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list albums: %w", err)
		}

		if len(albums) == 0 {
			fmt.Println("No albums found.")
			return nil
		}

		fmt.Println("Albums:")
		output, err := json.MarshalIndent(albums, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format albums output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var albumUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an existing album",
	Long:  `Updates an existing album with the given ID. Only provided fields will be updated.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		albumID := args[0]

		var patch journal.AlbumPatch

		if cmd.Flags().Changed("name") {
			n, _ := cmd.Flags().GetString("name")
			patch.Name = &n
		}
		if cmd.Flags().Changed("cover") {
			c, _ := cmd.Flags().GetString("cover")
			patch.CoverImageURI = &c
		}

		pinFlagSet := cmd.Flags().Changed("pin")
		unpinFlagSet := cmd.Flags().Changed("unpin")

		if pinFlagSet && unpinFlagSet {
			return fmt.Errorf("cannot use --pin and --unpin flags simultaneously")
		}
		if pinFlagSet {
			p := true
			patch.IsPinned = &p
		} else if unpinFlagSet {
			p := false
			patch.IsPinned = &p
		}

		if patch.Name == nil && patch.CoverImageURI == nil && patch.IsPinned == nil {
			fmt.Println("No update fields provided. Use --name, --cover, --pin, or --unpin.")
			return nil
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		album, err := store.UpdateAlbum(cmd.Context(), albumID, patch)
		if err != nil {
			if errors.Is(err, journal.ErrAlbumNotFound) {
				fmt.Printf("Album with ID %s not found.\n", albumID)
				return nil
			}
			return fmt.Errorf("failed to update album: %w", err)
		}

		fmt.Println("Album updated successfully:")
		output, err := json.MarshalIndent(album, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format album output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var albumDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an album by its ID",
	Long:  `Deletes an album and its media links. The media items themselves are untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		albumID := args[0]

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteAlbum(cmd.Context(), albumID); err != nil {
			return fmt.Errorf("failed to delete album: %w", err)
		}

		fmt.Printf("Album with ID %s deleted successfully.\n", albumID)
		return nil
	},
}

var albumMediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage the media in an album",
}

var albumMediaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a media item to an album",
	Long:  `Links an existing media item into an album. Adding the same media twice is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		albumID, _ := cmd.Flags().GetString("album-id")
		mediaID, _ := cmd.Flags().GetString("media-id")

		if albumID == "" {
			return fmt.Errorf("album-id is required")
		}
		if mediaID == "" {
			return fmt.Errorf("media-id is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		link, err := store.AddMediaToAlbum(cmd.Context(), albumID, mediaID)
		if err != nil {
			return fmt.Errorf("failed to add media to album: %w", err)
		}

		fmt.Println("Media added to album:")
		output, err := json.MarshalIndent(link, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format album media output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var albumMediaRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a media item from an album",
	RunE: func(cmd *cobra.Command, args []string) error {
		albumID, _ := cmd.Flags().GetString("album-id")
		mediaID, _ := cmd.Flags().GetString("media-id")

		if albumID == "" {
			return fmt.Errorf("album-id is required")
		}
		if mediaID == "" {
			return fmt.Errorf("media-id is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.RemoveMediaFromAlbum(cmd.Context(), albumID, mediaID); err != nil {
			return fmt.Errorf("failed to remove media from album: %w", err)
		}

		fmt.Printf("Media %s removed from album %s.\n", mediaID, albumID)
		return nil
	},
}

var albumMediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the media in an album",
	Long:  `Lists the media in an album in the order they were added.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		albumID, _ := cmd.Flags().GetString("album-id")
		if albumID == "" {
			return fmt.Errorf("album-id is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		media, err := store.ListAlbumMedia(cmd.Context(), albumID)
		if err != nil {
			if errors.Is(err, journal.ErrAlbumNotFound) {
				fmt.Printf("Album with ID %s not found.\n", albumID)
				return nil
			}
			return fmt.Errorf("failed to list album media: %w", err)
		}

		if len(media) == 0 {
			fmt.Println("No media in this album.")
			return nil
		}

		fmt.Println("Album media:")
		output, err := json.MarshalIndent(media, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format album media output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

func initAlbumsCmd() {
	albumCreateCmd.Flags().StringP("name", "n", "", "Name of the album (required)")
	albumCreateCmd.MarkFlagRequired("name")

	albumUpdateCmd.Flags().StringP("name", "n", "", "New name for the album")
	albumUpdateCmd.Flags().String("cover", "", "New cover image URI")
	albumUpdateCmd.Flags().Bool("pin", false, "Pin the album")
	albumUpdateCmd.Flags().Bool("unpin", false, "Unpin the album")

	albumMediaAddCmd.Flags().StringP("album-id", "a", "", "ID of the album (required)")
	albumMediaAddCmd.MarkFlagRequired("album-id")
	albumMediaAddCmd.Flags().StringP("media-id", "m", "", "ID of the media item (required)")
	albumMediaAddCmd.MarkFlagRequired("media-id")

	albumMediaRemoveCmd.Flags().StringP("album-id", "a", "", "ID of the album (required)")
	albumMediaRemoveCmd.MarkFlagRequired("album-id")
	albumMediaRemoveCmd.Flags().StringP("media-id", "m", "", "ID of the media item (required)")
	albumMediaRemoveCmd.MarkFlagRequired("media-id")

	albumMediaListCmd.Flags().StringP("album-id", "a", "", "ID of the album (required)")
	albumMediaListCmd.MarkFlagRequired("album-id")

	albumMediaCmd.AddCommand(albumMediaAddCmd, albumMediaRemoveCmd, albumMediaListCmd)
	albumsCmd.AddCommand(albumCreateCmd, albumListCmd, albumUpdateCmd, albumDeleteCmd, albumMediaCmd)
}

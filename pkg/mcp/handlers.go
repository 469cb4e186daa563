package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/daybook-app/daybook/pkg/journal"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Daybook MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_daybook"), nil
}

// RegisterSettingsTools registers save_settings and get_settings.
func RegisterSettingsTools(s *server.MCPServer, store journal.Store) {
	saveSettings := mcp.NewTool("save_settings",
		mcp.WithDescription("Saves the user settings (display name and primary goal). Creates the singleton record on first save, updates it afterwards, and marks onboarding complete."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name of the user.")),
		mcp.WithString("primary_goal", mcp.Description("The user's primary journaling goal.")),
	)
	s.AddTool(saveSettings, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, ok := request.Params.Arguments["name"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("'name' parameter is required and must be a non-empty string."), nil
		}
		primaryGoal := argString(request, "primary_goal")

		settings, err := store.SaveSettings(ctx, name, primaryGoal)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to save settings: %v", err)), nil
		}
		return toolJSON(settings)
	})

	getSettings := mcp.NewTool("get_settings",
		mcp.WithDescription("Retrieves the singleton user settings record."),
	)
	s.AddTool(getSettings, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		settings, err := store.Settings(ctx)
		if err != nil {
			if errors.Is(err, journal.ErrSettingsNotFound) {
				return mcp.NewToolResultError("User settings have not been saved yet."), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load settings: %v", err)), nil
		}
		return toolJSON(settings)
	})
}

// RegisterEntryTools registers the entry CRUD and search tools.
func RegisterEntryTools(s *server.MCPServer, store journal.Store) {
	createEntry := mcp.NewTool("create_entry",
		mcp.WithDescription("Creates a new journal entry."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the entry.")),
		mcp.WithString("content", mcp.Description("Entry content (plain or rich text).")),
		mcp.WithString("mood", mcp.Description("Mood label, e.g. 'happy'.")),
		mcp.WithString("weather", mcp.Description("Weather label.")),
		mcp.WithString("location", mcp.Description("Location label.")),
		mcp.WithString("tags", mcp.Description("Serialized tag list; stored opaquely.")),
	)
	s.AddTool(createEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, ok := request.Params.Arguments["title"].(string)
		if !ok || title == "" {
			return mcp.NewToolResultError("'title' parameter is required and must be a non-empty string."), nil
		}

		entry, err := store.CreateEntry(ctx, journal.NewEntry{
			Title:    title,
			Content:  argString(request, "content"),
			Mood:     argString(request, "mood"),
			Weather:  argString(request, "weather"),
			Location: argString(request, "location"),
			Tags:     argString(request, "tags"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create entry: %v", err)), nil
		}
		return toolJSON(entry)
	})

	listEntries := mcp.NewTool("list_entries",
		mcp.WithDescription("Lists all journal entries, newest first."),
	)
	s.AddTool(listEntries, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries, err := store.ListEntries(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list entries: %v", err)), nil
		}
		return toolJSON(entries)
	})

	getEntry := mcp.NewTool("get_entry",
		mcp.WithDescription("Retrieves a journal entry by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	)
	s.AddTool(getEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		entry, err := store.GetEntry(ctx, id)
		if err != nil {
			if errors.Is(err, journal.ErrEntryNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Entry with id '%s' not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get entry: %v", err)), nil
		}
		return toolJSON(entry)
	})

	updateEntry := mcp.NewTool("update_entry",
		mcp.WithDescription("Updates the provided fields of an existing entry. Fails if the id does not exist."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("content", mcp.Description("New content.")),
		mcp.WithString("mood", mcp.Description("New mood.")),
		mcp.WithString("weather", mcp.Description("New weather.")),
		mcp.WithString("location", mcp.Description("New location.")),
		mcp.WithString("tags", mcp.Description("New serialized tag list.")),
		mcp.WithBoolean("favorite", mcp.Description("New favorite flag.")),
	)
	s.AddTool(updateEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		patch := journal.EntryPatch{
			Title:      argStringPtr(request, "title"),
			Content:    argStringPtr(request, "content"),
			Mood:       argStringPtr(request, "mood"),
			Weather:    argStringPtr(request, "weather"),
			Location:   argStringPtr(request, "location"),
			Tags:       argStringPtr(request, "tags"),
			IsFavorite: argBoolPtr(request, "favorite"),
		}

		entry, err := store.UpdateEntry(ctx, id, patch)
		if err != nil {
			if errors.Is(err, journal.ErrEntryNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Entry with id '%s' not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update entry: %v", err)), nil
		}
		return toolJSON(entry)
	})

	deleteEntry := mcp.NewTool("delete_entry",
		mcp.WithDescription("Deletes an entry and cascades to its media, checklist items and album links. Deleting an unknown id is a no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	)
	s.AddTool(deleteEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		if err := store.DeleteEntry(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete entry: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Entry '%s' deleted.", id)), nil
	})

	searchEntries := mcp.NewTool("search_entries",
		mcp.WithDescription("Case-insensitive substring search over entry title, content, tags and mood. A blank query returns no entries."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text.")),
	)
	s.AddTool(searchEntries, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, ok := request.Params.Arguments["query"].(string)
		if !ok {
			return mcp.NewToolResultError("'query' parameter is required and must be a string."), nil
		}
		entries, err := store.SearchEntries(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search entries: %v", err)), nil
		}
		return toolJSON(entries)
	})
}

// RegisterMediaTools registers the media tools.
func RegisterMediaTools(s *server.MCPServer, store journal.Store) {
	addMedia := mcp.NewTool("add_media",
		mcp.WithDescription("Attaches an image or video (by URI) to an entry."),
		mcp.WithString("entry_id", mcp.Required(), mcp.Description("Owning entry id.")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Either 'image' or 'video'.")),
		mcp.WithString("uri", mcp.Required(), mcp.Description("URI of the media file on device storage.")),
		mcp.WithString("caption", mcp.Description("Optional caption.")),
		mcp.WithString("timestamp", mcp.Description("Optional ISO-8601 capture timestamp.")),
		mcp.WithNumber("order", mcp.Description("Display order within the entry (default 0).")),
	)
	s.AddTool(addMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entryID, ok := request.Params.Arguments["entry_id"].(string)
		if !ok || entryID == "" {
			return mcp.NewToolResultError("'entry_id' parameter is required and must be a non-empty string."), nil
		}
		mediaType, ok := request.Params.Arguments["type"].(string)
		if !ok || mediaType == "" {
			return mcp.NewToolResultError("'type' parameter is required and must be 'image' or 'video'."), nil
		}
		uri, ok := request.Params.Arguments["uri"].(string)
		if !ok || uri == "" {
			return mcp.NewToolResultError("'uri' parameter is required and must be a non-empty string."), nil
		}

		media, err := store.AddMedia(ctx, journal.NewMedia{
			EntryID:   entryID,
			Type:      mediaType,
			URI:       uri,
			Caption:   argString(request, "caption"),
			Timestamp: argString(request, "timestamp"),
			Order:     argInt(request, "order"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add media: %v", err)), nil
		}
		return toolJSON(media)
	})

	listEntryMedia := mcp.NewTool("list_entry_media",
		mcp.WithDescription("Lists an entry's media sorted by display order."),
		mcp.WithString("entry_id", mcp.Required(), mcp.Description("Entry id.")),
	)
	s.AddTool(listEntryMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entryID, ok := request.Params.Arguments["entry_id"].(string)
		if !ok || entryID == "" {
			return mcp.NewToolResultError("'entry_id' parameter is required and must be a non-empty string."), nil
		}
		media, err := store.ListEntryMedia(ctx, entryID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list media: %v", err)), nil
		}
		return toolJSON(media)
	})

	listAllMedia := mcp.NewTool("list_all_media",
		mcp.WithDescription("Lists all media across every entry, newest first (the gallery view)."),
	)
	s.AddTool(listAllMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		media, err := store.ListAllMedia(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list media: %v", err)), nil
		}
		return toolJSON(media)
	})

	deleteMedia := mcp.NewTool("delete_media",
		mcp.WithDescription("Deletes a media item and its album links. Deleting an unknown id is a no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Media id.")),
	)
	s.AddTool(deleteMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		if err := store.DeleteMedia(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete media: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Media '%s' deleted.", id)), nil
	})
}

// RegisterChecklistTools registers the checklist item tools.
func RegisterChecklistTools(s *server.MCPServer, store journal.Store) {
	addItem := mcp.NewTool("add_checklist_item",
		mcp.WithDescription("Adds a checklist item to an entry."),
		mcp.WithString("entry_id", mcp.Required(), mcp.Description("Owning entry id.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Item text.")),
		mcp.WithNumber("order", mcp.Description("Display order within the entry (default 0).")),
	)
	s.AddTool(addItem, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entryID, ok := request.Params.Arguments["entry_id"].(string)
		if !ok || entryID == "" {
			return mcp.NewToolResultError("'entry_id' parameter is required and must be a non-empty string."), nil
		}
		text, ok := request.Params.Arguments["text"].(string)
		if !ok || text == "" {
			return mcp.NewToolResultError("'text' parameter is required and must be a non-empty string."), nil
		}

		item, err := store.AddChecklistItem(ctx, journal.NewChecklistItem{
			EntryID: entryID,
			Text:    text,
			Order:   argInt(request, "order"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add checklist item: %v", err)), nil
		}
		return toolJSON(item)
	})

	listItems := mcp.NewTool("list_checklist_items",
		mcp.WithDescription("Lists an entry's checklist items sorted by display order."),
		mcp.WithString("entry_id", mcp.Required(), mcp.Description("Entry id.")),
	)
	s.AddTool(listItems, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entryID, ok := request.Params.Arguments["entry_id"].(string)
		if !ok || entryID == "" {
			return mcp.NewToolResultError("'entry_id' parameter is required and must be a non-empty string."), nil
		}
		items, err := store.ListChecklistItems(ctx, entryID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list checklist items: %v", err)), nil
		}
		return toolJSON(items)
	})

	updateItem := mcp.NewTool("update_checklist_item",
		mcp.WithDescription("Updates the provided fields of a checklist item. Fails if the id does not exist."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Checklist item id.")),
		mcp.WithString("text", mcp.Description("New text.")),
		mcp.WithBoolean("completed", mcp.Description("New completed flag.")),
		mcp.WithNumber("order", mcp.Description("New display order.")),
	)
	s.AddTool(updateItem, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		patch := journal.ChecklistItemPatch{
			Text:        argStringPtr(request, "text"),
			IsCompleted: argBoolPtr(request, "completed"),
			Order:       argIntPtr(request, "order"),
		}

		item, err := store.UpdateChecklistItem(ctx, id, patch)
		if err != nil {
			if errors.Is(err, journal.ErrChecklistItemNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Checklist item with id '%s' not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update checklist item: %v", err)), nil
		}
		return toolJSON(item)
	})

	deleteItem := mcp.NewTool("delete_checklist_item",
		mcp.WithDescription("Deletes a checklist item. Deleting an unknown id is a no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Checklist item id.")),
	)
	s.AddTool(deleteItem, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		if err := store.DeleteChecklistItem(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete checklist item: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Checklist item '%s' deleted.", id)), nil
	})
}

// RegisterAlbumTools registers the album and album/media link tools.
func RegisterAlbumTools(s *server.MCPServer, store journal.Store) {
	createAlbum := mcp.NewTool("create_album",
		mcp.WithDescription("Creates a new, unpinned album."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Album name.")),
	)
	s.AddTool(createAlbum, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, ok := request.Params.Arguments["name"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("'name' parameter is required and must be a non-empty string."), nil
		}
		album, err := store.CreateAlbum(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create album: %v", err)), nil
		}
		return toolJSON(album)
	})

	listAlbums := mcp.NewTool("list_albums",
		mcp.WithDescription("Lists all albums, most recently updated first."),
	)
	s.AddTool(listAlbums, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		albums, err := store.ListAlbums(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list albums: %v", err)), nil
		}
		return toolJSON(albums)
	})

	updateAlbum := mcp.NewTool("update_album",
		mcp.WithDescription("Updates the provided fields of an album. Fails if the id does not exist."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Album id.")),
		mcp.WithString("name", mcp.Description("New name.")),
		mcp.WithString("cover_image_uri", mcp.Description("New cover image URI.")),
		mcp.WithBoolean("pinned", mcp.Description("New pinned flag.")),
	)
	s.AddTool(updateAlbum, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}

		patch := journal.AlbumPatch{
			Name:          argStringPtr(request, "name"),
			CoverImageURI: argStringPtr(request, "cover_image_uri"),
			IsPinned:      argBoolPtr(request, "pinned"),
		}

		album, err := store.UpdateAlbum(ctx, id, patch)
		if err != nil {
			if errors.Is(err, journal.ErrAlbumNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Album with id '%s' not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update album: %v", err)), nil
		}
		return toolJSON(album)
	})

	deleteAlbum := mcp.NewTool("delete_album",
		mcp.WithDescription("Deletes an album and its media links (the media itself is untouched). Deleting an unknown id is a no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Album id.")),
	)
	s.AddTool(deleteAlbum, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required and must be a non-empty string."), nil
		}
		if err := store.DeleteAlbum(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete album: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Album '%s' deleted.", id)), nil
	})

	addAlbumMedia := mcp.NewTool("add_album_media",
		mcp.WithDescription("Links an existing media item into an album. Re-linking is idempotent."),
		mcp.WithString("album_id", mcp.Required(), mcp.Description("Album id.")),
		mcp.WithString("media_id", mcp.Required(), mcp.Description("Media id.")),
	)
	s.AddTool(addAlbumMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		albumID, ok := request.Params.Arguments["album_id"].(string)
		if !ok || albumID == "" {
			return mcp.NewToolResultError("'album_id' parameter is required and must be a non-empty string."), nil
		}
		mediaID, ok := request.Params.Arguments["media_id"].(string)
		if !ok || mediaID == "" {
			return mcp.NewToolResultError("'media_id' parameter is required and must be a non-empty string."), nil
		}

		link, err := store.AddMediaToAlbum(ctx, albumID, mediaID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add media to album: %v", err)), nil
		}
		return toolJSON(link)
	})

	removeAlbumMedia := mcp.NewTool("remove_album_media",
		mcp.WithDescription("Removes a media item from an album. Removing an absent link is a no-op."),
		mcp.WithString("album_id", mcp.Required(), mcp.Description("Album id.")),
		mcp.WithString("media_id", mcp.Required(), mcp.Description("Media id.")),
	)
	s.AddTool(removeAlbumMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		albumID, ok := request.Params.Arguments["album_id"].(string)
		if !ok || albumID == "" {
			return mcp.NewToolResultError("'album_id' parameter is required and must be a non-empty string."), nil
		}
		mediaID, ok := request.Params.Arguments["media_id"].(string)
		if !ok || mediaID == "" {
			return mcp.NewToolResultError("'media_id' parameter is required and must be a non-empty string."), nil
		}
		if err := store.RemoveMediaFromAlbum(ctx, albumID, mediaID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to remove media from album: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Media '%s' removed from album '%s'.", mediaID, albumID)), nil
	})

	listAlbumMedia := mcp.NewTool("list_album_media",
		mcp.WithDescription("Lists the media in an album in the order they were added."),
		mcp.WithString("album_id", mcp.Required(), mcp.Description("Album id.")),
	)
	s.AddTool(listAlbumMedia, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		albumID, ok := request.Params.Arguments["album_id"].(string)
		if !ok || albumID == "" {
			return mcp.NewToolResultError("'album_id' parameter is required and must be a non-empty string."), nil
		}
		media, err := store.ListAlbumMedia(ctx, albumID)
		if err != nil {
			if errors.Is(err, journal.ErrAlbumNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Album with id '%s' not found.", albumID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list album media: %v", err)), nil
		}
		return toolJSON(media)
	})
}

// RegisterExportTool registers the export tool.
func RegisterExportTool(s *server.MCPServer, store journal.Store) {
	exportTool := mcp.NewTool("export_journal",
		mcp.WithDescription("Returns the full settings/entries/albums snapshot as one JSON document with an export timestamp."),
	)
	s.AddTool(exportTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snapshot, err := journal.BuildSnapshot(ctx, store)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export journal: %v", err)), nil
		}
		return toolJSON(snapshot)
	})
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// argString returns an optional string argument, or "" when absent.
func argString(request mcp.CallToolRequest, name string) string {
	value, _ := request.Params.Arguments[name].(string)
	return value
}

func argStringPtr(request mcp.CallToolRequest, name string) *string {
	if value, ok := request.Params.Arguments[name].(string); ok {
		return &value
	}
	return nil
}

func argBoolPtr(request mcp.CallToolRequest, name string) *bool {
	if value, ok := request.Params.Arguments[name].(bool); ok {
		return &value
	}
	return nil
}

// argInt reads an optional numeric argument. JSON numbers arrive as float64.
func argInt(request mcp.CallToolRequest, name string) int {
	if value, ok := request.Params.Arguments[name].(float64); ok {
		return int(value)
	}
	return 0
}

func argIntPtr(request mcp.CallToolRequest, name string) *int {
	if value, ok := request.Params.Arguments[name].(float64); ok {
		i := int(value)
		return &i
	}
	return nil
}

package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daybook-app/daybook/pkg/db"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	testDB, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := db.InitializeSchema(testDB, db.TargetSchemaVersion); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	store := NewSQLiteStoreFromDB(testDB)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSettingsSingleton(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	if _, err := store.Settings(ctx); !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("Expected ErrSettingsNotFound before first save, got %v", err)
	}

	first, err := store.SaveSettings(ctx, "Ada", "Write every day")
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if first.Name != "Ada" || first.PrimaryGoal != "Write every day" {
		t.Errorf("Saved settings mismatch: %+v", first)
	}
	if !first.OnboardingCompleted {
		t.Errorf("Expected onboarding to be marked complete after save")
	}

	time.Sleep(2 * time.Millisecond)

	second, err := store.SaveSettings(ctx, "Ada Lovelace", "Reflect more")
	if err != nil {
		t.Fatalf("Second SaveSettings failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected settings to stay a singleton, ID changed from %d to %d", first.ID, second.ID)
	}
	if second.CreatedAt != first.CreatedAt {
		t.Errorf("Expected CreatedAt to be preserved, got %s then %s", first.CreatedAt, second.CreatedAt)
	}
	if second.UpdatedAt == first.UpdatedAt {
		t.Errorf("Expected UpdatedAt to advance on re-save")
	}
	if second.Name != "Ada Lovelace" {
		t.Errorf("Expected updated name, got %s", second.Name)
	}
}

func TestSQLiteEntryRoundTrip(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	created, err := store.CreateEntry(ctx, NewEntry{
		Title:    "First entry",
		Content:  "Hello, journal.",
		Mood:     "hopeful",
		Location: "home",
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if created.ID == "" {
		t.Errorf("Expected a generated ID")
	}
	if created.CreatedAt != created.UpdatedAt {
		t.Errorf("Expected CreatedAt == UpdatedAt on a new entry, got %s / %s", created.CreatedAt, created.UpdatedAt)
	}
	if created.IsFavorite {
		t.Errorf("New entries should not be favorites")
	}

	fetched, err := store.GetEntry(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if fetched != created {
		t.Errorf("Round-trip mismatch:\ncreated: %+v\nfetched: %+v", created, fetched)
	}

	if _, err := store.CreateEntry(ctx, NewEntry{Title: "   "}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("Expected ErrTitleRequired for blank title, got %v", err)
	}
}

func TestSQLiteUpdateEntry(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	created, err := store.CreateEntry(ctx, NewEntry{Title: "Before"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	newTitle := "After"
	favorite := true
	updated, err := store.UpdateEntry(ctx, created.ID, EntryPatch{Title: &newTitle, IsFavorite: &favorite})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Title != "After" || !updated.IsFavorite {
		t.Errorf("Patch not applied: %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("CreatedAt must not change on update")
	}
	if updated.UpdatedAt == created.UpdatedAt {
		t.Errorf("UpdatedAt should advance on update")
	}

	if _, err := store.UpdateEntry(ctx, "no-such-id", EntryPatch{Title: &newTitle}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound for unknown id, got %v", err)
	}
}

func TestSQLiteDeleteEntryCascades(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	entry, err := store.CreateEntry(ctx, NewEntry{Title: "Doomed"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	media, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: MediaTypeImage, URI: "file:///photo.jpg"})
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	if _, err := store.AddChecklistItem(ctx, NewChecklistItem{EntryID: entry.ID, Text: "pack bags"}); err != nil {
		t.Fatalf("AddChecklistItem failed: %v", err)
	}

	album, err := store.CreateAlbum(ctx, "Trip")
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}
	if _, err := store.AddMediaToAlbum(ctx, album.ID, media.ID); err != nil {
		t.Fatalf("AddMediaToAlbum failed: %v", err)
	}

	if err := store.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	if _, err := store.GetEntry(ctx, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected entry to be gone, got %v", err)
	}

	orphanedMedia, err := store.ListEntryMedia(ctx, entry.ID)
	if err != nil {
		t.Fatalf("ListEntryMedia failed: %v", err)
	}
	if len(orphanedMedia) != 0 {
		t.Errorf("Expected media to cascade, found %d items", len(orphanedMedia))
	}

	orphanedItems, err := store.ListChecklistItems(ctx, entry.ID)
	if err != nil {
		t.Fatalf("ListChecklistItems failed: %v", err)
	}
	if len(orphanedItems) != 0 {
		t.Errorf("Expected checklist items to cascade, found %d items", len(orphanedItems))
	}

	albumMedia, err := store.ListAlbumMedia(ctx, album.ID)
	if err != nil {
		t.Fatalf("ListAlbumMedia failed: %v", err)
	}
	if len(albumMedia) != 0 {
		t.Errorf("Expected album links to cascade with the media, found %d items", len(albumMedia))
	}

	// Deleting again is a no-op, not an error.
	if err := store.DeleteEntry(ctx, entry.ID); err != nil {
		t.Errorf("Second DeleteEntry should be a no-op, got %v", err)
	}
}

func TestSQLiteSearchEntries(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	titles := []string{"Beach Day", "Office Grind", "Beach Cleanup"}
	for _, title := range titles {
		if _, err := store.CreateEntry(ctx, NewEntry{Title: title}); err != nil {
			t.Fatalf("CreateEntry(%q) failed: %v", title, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	results, err := store.SearchEntries(ctx, "beach")
	if err != nil {
		t.Fatalf("SearchEntries failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 matches for 'beach', got %d", len(results))
	}
	if results[0].Title != "Beach Cleanup" || results[1].Title != "Beach Day" {
		t.Errorf("Expected newest-first order, got %q then %q", results[0].Title, results[1].Title)
	}

	upper, err := store.SearchEntries(ctx, "OFFICE")
	if err != nil {
		t.Fatalf("SearchEntries failed: %v", err)
	}
	if len(upper) != 1 {
		t.Errorf("Expected case-insensitive match on 'OFFICE', got %d results", len(upper))
	}

	blank, err := store.SearchEntries(ctx, "   ")
	if err != nil {
		t.Fatalf("SearchEntries with blank query failed: %v", err)
	}
	if len(blank) != 0 {
		t.Errorf("Blank query should match nothing, got %d results", len(blank))
	}

	// LIKE metacharacters in the query are literals, not wildcards.
	wild, err := store.SearchEntries(ctx, "%")
	if err != nil {
		t.Fatalf("SearchEntries with wildcard query failed: %v", err)
	}
	if len(wild) != 0 {
		t.Errorf("Literal %% should match nothing here, got %d results", len(wild))
	}
}

func TestSQLiteMediaOrdering(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	entry, err := store.CreateEntry(ctx, NewEntry{Title: "Gallery"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	// Insert out of order; listing must come back sorted by display order.
	second, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: MediaTypeImage, URI: "file:///b.jpg", Order: 1})
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	first, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: MediaTypeVideo, URI: "file:///a.mp4", Order: 0})
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}

	media, err := store.ListEntryMedia(ctx, entry.ID)
	if err != nil {
		t.Fatalf("ListEntryMedia failed: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("Expected 2 media items, got %d", len(media))
	}
	if media[0].ID != first.ID || media[1].ID != second.ID {
		t.Errorf("Expected order [%s %s], got [%s %s]", first.ID, second.ID, media[0].ID, media[1].ID)
	}

	if _, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: "gif", URI: "file:///c.gif"}); !errors.Is(err, ErrInvalidMediaType) {
		t.Errorf("Expected ErrInvalidMediaType, got %v", err)
	}
}

func TestSQLiteChecklistLifecycle(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	entry, err := store.CreateEntry(ctx, NewEntry{Title: "Packing"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	item, err := store.AddChecklistItem(ctx, NewChecklistItem{EntryID: entry.ID, Text: "passport", Order: 0})
	if err != nil {
		t.Fatalf("AddChecklistItem failed: %v", err)
	}
	if item.IsCompleted {
		t.Errorf("New checklist items should start incomplete")
	}

	done := true
	updated, err := store.UpdateChecklistItem(ctx, item.ID, ChecklistItemPatch{IsCompleted: &done})
	if err != nil {
		t.Fatalf("UpdateChecklistItem failed: %v", err)
	}
	if !updated.IsCompleted {
		t.Errorf("Expected item to be completed")
	}

	if _, err := store.UpdateChecklistItem(ctx, "no-such-id", ChecklistItemPatch{IsCompleted: &done}); !errors.Is(err, ErrChecklistItemNotFound) {
		t.Errorf("Expected ErrChecklistItemNotFound, got %v", err)
	}

	if err := store.DeleteChecklistItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteChecklistItem failed: %v", err)
	}
	items, err := store.ListChecklistItems(ctx, entry.ID)
	if err != nil {
		t.Fatalf("ListChecklistItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items after delete, got %d", len(items))
	}
}

func TestSQLiteAlbumLifecycle(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	album, err := store.CreateAlbum(ctx, "Summer 2026")
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}
	if album.IsPinned {
		t.Errorf("New albums should start unpinned")
	}

	pinned := true
	cover := "file:///cover.jpg"
	updated, err := store.UpdateAlbum(ctx, album.ID, AlbumPatch{IsPinned: &pinned, CoverImageURI: &cover})
	if err != nil {
		t.Fatalf("UpdateAlbum failed: %v", err)
	}
	if !updated.IsPinned || updated.CoverImageURI != cover {
		t.Errorf("Patch not applied: %+v", updated)
	}

	entry, err := store.CreateEntry(ctx, NewEntry{Title: "Holiday"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	media, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: MediaTypeImage, URI: "file:///sea.jpg"})
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}

	link, err := store.AddMediaToAlbum(ctx, album.ID, media.ID)
	if err != nil {
		t.Fatalf("AddMediaToAlbum failed: %v", err)
	}

	// Re-linking is idempotent and returns the existing link.
	again, err := store.AddMediaToAlbum(ctx, album.ID, media.ID)
	if err != nil {
		t.Fatalf("Second AddMediaToAlbum failed: %v", err)
	}
	if again.ID != link.ID {
		t.Errorf("Expected idempotent link, got new ID %s (was %s)", again.ID, link.ID)
	}

	inAlbum, err := store.ListAlbumMedia(ctx, album.ID)
	if err != nil {
		t.Fatalf("ListAlbumMedia failed: %v", err)
	}
	if len(inAlbum) != 1 || inAlbum[0].ID != media.ID {
		t.Errorf("Expected exactly the linked media, got %+v", inAlbum)
	}

	if err := store.DeleteAlbum(ctx, album.ID); err != nil {
		t.Fatalf("DeleteAlbum failed: %v", err)
	}

	// The media itself survives album deletion.
	entryMedia, err := store.ListEntryMedia(ctx, entry.ID)
	if err != nil {
		t.Fatalf("ListEntryMedia failed: %v", err)
	}
	if len(entryMedia) != 1 {
		t.Errorf("Expected media to survive album deletion, got %d items", len(entryMedia))
	}

	if _, err := store.UpdateAlbum(ctx, album.ID, AlbumPatch{IsPinned: &pinned}); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("Expected ErrAlbumNotFound after delete, got %v", err)
	}
}

func TestSQLiteReset(t *testing.T) {
	store := setupSQLiteStore(t)
	ctx := context.Background()

	if _, err := store.SaveSettings(ctx, "Ada", ""); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	entry, err := store.CreateEntry(ctx, NewEntry{Title: "Gone soon"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: MediaTypeImage, URI: "file:///x.jpg"}); err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	if _, err := store.CreateAlbum(ctx, "Empty"); err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if _, err := store.Settings(ctx); !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("Expected settings to be cleared, got %v", err)
	}
	entries, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries after reset, got %d", len(entries))
	}
	albums, err := store.ListAlbums(ctx)
	if err != nil {
		t.Fatalf("ListAlbums failed: %v", err)
	}
	if len(albums) != 0 {
		t.Errorf("Expected no albums after reset, got %d", len(albums))
	}
}

package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func setupKVStore(t *testing.T) *KVStore {
	t.Helper()
	return NewKVStore(NewMemKV())
}

func TestKVSettingsSingleton(t *testing.T) {
	store := setupKVStore(t)
	ctx := context.Background()

	if _, err := store.Settings(ctx); !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("Expected ErrSettingsNotFound before first save, got %v", err)
	}

	first, err := store.SaveSettings(ctx, "Ada", "Write every day")
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	second, err := store.SaveSettings(ctx, "Ada Lovelace", "Reflect more")
	if err != nil {
		t.Fatalf("Second SaveSettings failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected singleton ID to be stable, got %d then %d", first.ID, second.ID)
	}
	if second.CreatedAt != first.CreatedAt {
		t.Errorf("Expected CreatedAt to be preserved across saves")
	}
	if second.UpdatedAt == first.UpdatedAt {
		t.Errorf("Expected UpdatedAt to advance on re-save")
	}
}

func TestKVCorruptBlobTreatedAsEmpty(t *testing.T) {
	kv := NewMemKV()
	store := NewKVStore(kv)
	ctx := context.Background()

	if err := kv.Set(keyEntries, []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := kv.Set(keyUserSettings, []byte("also not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries over a corrupt blob failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected corrupt entries blob to read as empty, got %d entries", len(entries))
	}

	if _, err := store.Settings(ctx); !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("Expected corrupt settings blob to read as never saved, got %v", err)
	}

	// Writes recover the collection.
	if _, err := store.CreateEntry(ctx, NewEntry{Title: "Fresh start"}); err != nil {
		t.Fatalf("CreateEntry after corruption failed: %v", err)
	}
	entries, err = store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry after recovery, got %d", len(entries))
	}
}

func TestKVDeleteEntryCascades(t *testing.T) {
	store := setupKVStore(t)
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

	if err := store.DeleteEntry(ctx, entry.ID); err != nil {
		t.Errorf("Second DeleteEntry should be a no-op, got %v", err)
	}
}

func TestKVUpdateMissingIDs(t *testing.T) {
	store := setupKVStore(t)
	ctx := context.Background()

	title := "x"
	if _, err := store.UpdateEntry(ctx, "missing", EntryPatch{Title: &title}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}

	done := true
	if _, err := store.UpdateChecklistItem(ctx, "missing", ChecklistItemPatch{IsCompleted: &done}); !errors.Is(err, ErrChecklistItemNotFound) {
		t.Errorf("Expected ErrChecklistItemNotFound, got %v", err)
	}

	pinned := true
	if _, err := store.UpdateAlbum(ctx, "missing", AlbumPatch{IsPinned: &pinned}); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("Expected ErrAlbumNotFound, got %v", err)
	}
}

func TestKVAlbumLinkCascadeOnMediaDelete(t *testing.T) {
	store := setupKVStore(t)
	ctx := context.Background()

	entry, err := store.CreateEntry(ctx, NewEntry{Title: "Holiday"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	media, err := store.AddMedia(ctx, NewMedia{EntryID: entry.ID, Type: MediaTypeImage, URI: "file:///sea.jpg"})
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	album, err := store.CreateAlbum(ctx, "Summer")
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}
	if _, err := store.AddMediaToAlbum(ctx, album.ID, media.ID); err != nil {
		t.Fatalf("AddMediaToAlbum failed: %v", err)
	}

	if err := store.DeleteMedia(ctx, media.ID); err != nil {
		t.Fatalf("DeleteMedia failed: %v", err)
	}

	inAlbum, err := store.ListAlbumMedia(ctx, album.ID)
	if err != nil {
		t.Fatalf("ListAlbumMedia failed: %v", err)
	}
	if len(inAlbum) != 0 {
		t.Errorf("Expected album link to go with the media, found %d items", len(inAlbum))
	}

	// The entry is untouched.
	if _, err := store.GetEntry(ctx, entry.ID); err != nil {
		t.Errorf("Entry should survive media deletion, got %v", err)
	}
}

func TestFileKVPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	store := NewKVStore(kv)

	created, err := store.CreateEntry(ctx, NewEntry{Title: "Durable", Content: "still here"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, err := store.SaveSettings(ctx, "Ada", ""); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopenedKV, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV on reopen failed: %v", err)
	}
	reopened := NewKVStore(reopenedKV)
	defer reopened.Close()

	fetched, err := reopened.GetEntry(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetEntry after reopen failed: %v", err)
	}
	if fetched != created {
		t.Errorf("Persisted entry mismatch:\nbefore: %+v\nafter:  %+v", created, fetched)
	}

	settings, err := reopened.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings after reopen failed: %v", err)
	}
	if settings.Name != "Ada" {
		t.Errorf("Expected persisted settings name 'Ada', got %q", settings.Name)
	}
}

func TestFileKVReset(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	store := NewKVStore(kv)
	defer store.Close()

	if _, err := store.CreateEntry(ctx, NewEntry{Title: "Transient"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	entries, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries after reset, got %d", len(entries))
	}
	if _, err := store.Settings(ctx); !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("Expected settings to be cleared, got %v", err)
	}
}

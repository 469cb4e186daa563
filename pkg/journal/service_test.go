package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	return NewService(context.Background(), setupKVStore(t))
}

func TestServiceLoadsExistingData(t *testing.T) {
	ctx := context.Background()
	store := setupKVStore(t)

	if _, err := store.SaveSettings(ctx, "Ada", "Write daily"); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if _, err := store.CreateEntry(ctx, NewEntry{Title: "Preexisting"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, err := store.CreateAlbum(ctx, "Preexisting album"); err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}

	svc := NewService(ctx, store)

	settings := svc.Settings()
	if settings == nil || settings.Name != "Ada" {
		t.Errorf("Expected cached settings for Ada, got %+v", settings)
	}
	if entries := svc.Entries(); len(entries) != 1 || entries[0].Title != "Preexisting" {
		t.Errorf("Expected one cached entry, got %+v", entries)
	}
	if albums := svc.Albums(); len(albums) != 1 || albums[0].Name != "Preexisting album" {
		t.Errorf("Expected one cached album, got %+v", albums)
	}
}

func TestServiceCacheTracksMutations(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, NewEntry{Title: "First"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if entries := svc.Entries(); len(entries) != 1 || entries[0].ID != created.ID {
		t.Fatalf("Cache did not pick up the new entry: %+v", entries)
	}

	time.Sleep(2 * time.Millisecond)

	newTitle := "Renamed"
	if _, err := svc.UpdateEntry(ctx, created.ID, EntryPatch{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if entries := svc.Entries(); entries[0].Title != "Renamed" {
		t.Errorf("Cache did not pick up the update: %+v", entries[0])
	}

	if err := svc.DeleteEntry(ctx, created.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if entries := svc.Entries(); len(entries) != 0 {
		t.Errorf("Cache did not pick up the delete: %+v", entries)
	}
}

func TestServiceCachedCopiesAreIsolated(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateEntry(ctx, NewEntry{Title: "Immutable"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	entries := svc.Entries()
	entries[0].Title = "scribbled over"

	if fresh := svc.Entries(); fresh[0].Title != "Immutable" {
		t.Errorf("Mutating a returned slice leaked into the cache: %q", fresh[0].Title)
	}
}

func TestServiceSubscribe(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	var calls int
	cancel := svc.Subscribe(func() { calls++ })

	if _, err := svc.CreateEntry(ctx, NewEntry{Title: "One"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if calls == 0 {
		t.Fatalf("Expected subscriber to be notified on mutation")
	}

	seen := calls
	cancel()

	if _, err := svc.CreateEntry(ctx, NewEntry{Title: "Two"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if calls != seen {
		t.Errorf("Subscriber was notified after cancellation (%d -> %d)", seen, calls)
	}
}

func TestServiceSaveUserSettingsValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.SaveUserSettings(ctx, "", "no name"); !errors.Is(err, ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired for empty name, got %v", err)
	}
	if svc.Settings() != nil {
		t.Errorf("Failed save must not populate the cache")
	}

	saved, err := svc.SaveUserSettings(ctx, "Ada", "Write daily")
	if err != nil {
		t.Fatalf("SaveUserSettings failed: %v", err)
	}
	cached := svc.Settings()
	if cached == nil || cached.Name != saved.Name {
		t.Errorf("Expected cached settings %+v, got %+v", saved, cached)
	}
}

func TestServiceExport(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// Settings are optional in an export.
	empty, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export of empty journal failed: %v", err)
	}
	if empty.Settings != nil || empty.EntryCount != 0 || empty.AlbumCount != 0 {
		t.Errorf("Expected empty snapshot, got %+v", empty)
	}
	if empty.ExportedAt == "" {
		t.Errorf("Expected ExportedAt to be stamped")
	}

	if _, err := svc.SaveUserSettings(ctx, "Ada", ""); err != nil {
		t.Fatalf("SaveUserSettings failed: %v", err)
	}
	if _, err := svc.CreateEntry(ctx, NewEntry{Title: "Kept"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, err := svc.CreateAlbum(ctx, "Kept album"); err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}

	snapshot, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if snapshot.Settings == nil || snapshot.Settings.Name != "Ada" {
		t.Errorf("Expected settings in snapshot, got %+v", snapshot.Settings)
	}
	if snapshot.EntryCount != 1 || len(snapshot.Entries) != 1 {
		t.Errorf("Expected 1 entry in snapshot, got count=%d len=%d", snapshot.EntryCount, len(snapshot.Entries))
	}
	if snapshot.AlbumCount != 1 || len(snapshot.Albums) != 1 {
		t.Errorf("Expected 1 album in snapshot, got count=%d len=%d", snapshot.AlbumCount, len(snapshot.Albums))
	}
}

func TestServiceClearAll(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, err := svc.SaveUserSettings(ctx, "Ada", ""); err != nil {
		t.Fatalf("SaveUserSettings failed: %v", err)
	}
	if _, err := svc.CreateEntry(ctx, NewEntry{Title: "Doomed"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, err := svc.CreateAlbum(ctx, "Doomed album"); err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	if svc.Settings() != nil {
		t.Errorf("Expected settings cache to be cleared")
	}
	if entries := svc.Entries(); len(entries) != 0 {
		t.Errorf("Expected entry cache to be cleared, got %d", len(entries))
	}
	if albums := svc.Albums(); len(albums) != 0 {
		t.Errorf("Expected album cache to be cleared, got %d", len(albums))
	}

	// The backend really is empty, not just the cache.
	if _, err := svc.Store().Settings(ctx); !errors.Is(err, ErrSettingsNotFound) {
		t.Errorf("Expected backend settings to be gone, got %v", err)
	}
}

// loadFaultStore wraps a working backend and fails the bulk loaders while
// loadErr is set, leaving every other operation untouched.
type loadFaultStore struct {
	Store
	loadErr error
}

func (s *loadFaultStore) Settings(ctx context.Context) (UserSettings, error) {
	if s.loadErr != nil {
		return UserSettings{}, s.loadErr
	}
	return s.Store.Settings(ctx)
}

func (s *loadFaultStore) ListEntries(ctx context.Context) ([]Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.ListEntries(ctx)
}

func (s *loadFaultStore) ListAlbums(ctx context.Context) ([]Album, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.ListAlbums(ctx)
}

func TestServiceDegradedWhenInitialLoadFails(t *testing.T) {
	ctx := context.Background()
	backend := setupKVStore(t)

	if _, err := backend.SaveSettings(ctx, "Ada", "Write daily"); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if _, err := backend.CreateEntry(ctx, NewEntry{Title: "Unreachable"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if _, err := backend.CreateAlbum(ctx, "Unreachable album"); err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}

	faulty := &loadFaultStore{Store: backend, loadErr: errors.New("backend unavailable")}
	svc := NewService(ctx, faulty)

	if settings := svc.Settings(); settings != nil {
		t.Errorf("Expected nil settings after failed load, got %+v", settings)
	}
	if entries := svc.Entries(); len(entries) != 0 {
		t.Errorf("Expected empty entry cache after failed load, got %d", len(entries))
	}
	if albums := svc.Albums(); len(albums) != 0 {
		t.Errorf("Expected empty album cache after failed load, got %d", len(albums))
	}

	// Once the backend recovers, an explicit refresh repopulates the cache.
	faulty.loadErr = nil
	if err := svc.RefreshEntries(ctx); err != nil {
		t.Fatalf("RefreshEntries failed: %v", err)
	}
	if err := svc.RefreshAlbums(ctx); err != nil {
		t.Fatalf("RefreshAlbums failed: %v", err)
	}
	if entries := svc.Entries(); len(entries) != 1 || entries[0].Title != "Unreachable" {
		t.Errorf("Expected the persisted entry after refresh, got %+v", entries)
	}
	if albums := svc.Albums(); len(albums) != 1 || albums[0].Name != "Unreachable album" {
		t.Errorf("Expected the persisted album after refresh, got %+v", albums)
	}
}

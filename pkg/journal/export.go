package journal

import (
	"context"
	"errors"
)

// Snapshot is the user-initiated backup document: the settings, entries and
// albums collections serialized as one JSON object with an export timestamp.
// Delivery (file download, share sheet) is up to the caller.
type Snapshot struct {
	Settings   *UserSettings `json:"settings"`
	Entries    []Entry       `json:"entries"`
	Albums     []Album       `json:"albums"`
	EntryCount int           `json:"entryCount"`
	AlbumCount int           `json:"albumCount"`
	ExportedAt string        `json:"exportedAt"`
}

// BuildSnapshot assembles a snapshot straight from the backend. Missing
// settings are exported as null, not an error.
func BuildSnapshot(ctx context.Context, store Store) (Snapshot, error) {
	snapshot := Snapshot{
		ExportedAt: nowISO(),
	}

	settings, err := store.Settings(ctx)
	if err == nil {
		snapshot.Settings = &settings
	} else if !errors.Is(err, ErrSettingsNotFound) {
		return Snapshot{}, err
	}

	entries, err := store.ListEntries(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snapshot.Entries = entries
	snapshot.EntryCount = len(entries)

	albums, err := store.ListAlbums(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snapshot.Albums = albums
	snapshot.AlbumCount = len(albums)

	return snapshot, nil
}

// Export assembles a snapshot from the service's backend.
func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	return BuildSnapshot(ctx, s.store)
}

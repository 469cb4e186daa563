package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSettingsNotFound      = errors.New("user settings not found")
	ErrEntryNotFound         = errors.New("entry not found")
	ErrMediaNotFound         = errors.New("media not found")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrAlbumNotFound         = errors.New("album not found")
	ErrTitleRequired         = errors.New("entry title is required")
	ErrNameRequired          = errors.New("display name is required")
	ErrInvalidMediaType      = errors.New("media type must be image or video")
)

// Store is the single capability interface every persistence backend
// implements. Callers never branch on the backend; they pick one at open
// time and speak this interface from then on.
//
// Update operations on a missing id fail with the entity's not-found error.
// Delete operations on a missing id are idempotent no-ops.
type Store interface {
	// Settings (singleton).
	SaveSettings(ctx context.Context, name, primaryGoal string) (UserSettings, error)
	Settings(ctx context.Context) (UserSettings, error)

	// Entries.
	CreateEntry(ctx context.Context, draft NewEntry) (Entry, error)
	GetEntry(ctx context.Context, id string) (Entry, error)
	ListEntries(ctx context.Context) ([]Entry, error)
	UpdateEntry(ctx context.Context, id string, patch EntryPatch) (Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	SearchEntries(ctx context.Context, query string) ([]Entry, error)

	// Media.
	AddMedia(ctx context.Context, draft NewMedia) (Media, error)
	ListEntryMedia(ctx context.Context, entryID string) ([]Media, error)
	ListAllMedia(ctx context.Context) ([]Media, error)
	DeleteMedia(ctx context.Context, id string) error

	// Checklist items.
	AddChecklistItem(ctx context.Context, draft NewChecklistItem) (ChecklistItem, error)
	ListChecklistItems(ctx context.Context, entryID string) ([]ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, id string, patch ChecklistItemPatch) (ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, id string) error

	// Albums and album/media links.
	CreateAlbum(ctx context.Context, name string) (Album, error)
	ListAlbums(ctx context.Context) ([]Album, error)
	UpdateAlbum(ctx context.Context, id string, patch AlbumPatch) (Album, error)
	DeleteAlbum(ctx context.Context, id string) error
	AddMediaToAlbum(ctx context.Context, albumID, mediaID string) (AlbumMedia, error)
	RemoveMediaFromAlbum(ctx context.Context, albumID, mediaID string) error
	ListAlbumMedia(ctx context.Context, albumID string) ([]Media, error)

	// Reset drops all persisted journal data.
	Reset(ctx context.Context) error

	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendKV     = "kv"
)

// Config selects and parameterizes a storage backend.
type Config struct {
	// Backend is BackendSQLite or BackendKV.
	Backend string
	// DBPath is the SQLite database file (sqlite backend).
	DBPath string
	// EnableWAL and SyncPragma tune the SQLite connection (sqlite backend).
	EnableWAL  bool
	SyncPragma string
	// DataDir is the directory holding the collection blobs (kv backend).
	DataDir string
}

// Open initializes the backend named by cfg and returns it behind the Store
// interface. The sqlite path applies the schema idempotently, so it is safe
// to call on every launch; the kv path needs no schema work.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return OpenSQLiteStore(cfg.DBPath, cfg.EnableWAL, cfg.SyncPragma)
	case BackendKV:
		kv, err := NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewKVStore(kv), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// normalizeQuery lowercases and trims a search query. An empty result means
// the search should return no entries: search is opt-in, not "show all".
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func validMediaType(t string) bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

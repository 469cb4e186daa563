package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Service is the single supported interface for all entity operations. It
// mirrors the backend's settings, entries and albums into an in-memory cache
// on construction, writes every mutation through the Store, re-syncs the
// affected cache slice afterwards, and notifies subscribers on every change.
// Media and checklist items are loaded lazily, per entry, on demand.
//
// UI collaborators read the cached accessors and route every mutation through
// the operations here; cached values are returned as copies and must be
// replaced, never mutated in place.
type Service struct {
	store Store

	mu       sync.RWMutex
	settings *UserSettings
	entries  []Entry
	albums   []Album

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewService performs the initial load and returns a ready service. A failed
// initial load is reported as a warning and the service proceeds with empty
// collections rather than failing the launch.
func NewService(ctx context.Context, store Store) *Service {
	s := &Service{
		store: store,
		subs:  map[int]func(){},
	}

	settings, err := store.Settings(ctx)
	if err == nil {
		s.settings = &settings
	} else if !errors.Is(err, ErrSettingsNotFound) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load user settings: %v\n", err)
	}

	entries, err := store.ListEntries(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load entries: %v\n", err)
		entries = []Entry{}
	}
	s.entries = entries

	albums, err := store.ListAlbums(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load albums: %v\n", err)
		albums = []Album{}
	}
	s.albums = albums

	return s
}

// Store exposes the underlying backend.
func (s *Service) Store() Store {
	return s.store
}

// Close releases the backend.
func (s *Service) Close() error {
	return s.store.Close()
}

// Subscribe registers fn to run after every successful mutation. The returned
// function cancels the subscription.
func (s *Service) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Service) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Settings returns a copy of the cached singleton settings, or nil before the
// first save.
func (s *Service) Settings() *UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil
	}
	settings := *s.settings
	return &settings
}

// Entries returns a copy of the cached entries, newest-created first.
func (s *Service) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Albums returns a copy of the cached albums, most-recently-updated first.
func (s *Service) Albums() []Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Album, len(s.albums))
	copy(out, s.albums)
	return out
}

func (s *Service) SaveUserSettings(ctx context.Context, name, primaryGoal string) (UserSettings, error) {
	if name == "" {
		return UserSettings{}, ErrNameRequired
	}

	settings, err := s.store.SaveSettings(ctx, name, primaryGoal)
	if err != nil {
		return UserSettings{}, err
	}

	s.mu.Lock()
	s.settings = &settings
	s.mu.Unlock()
	s.notify()
	return settings, nil
}

func (s *Service) CreateEntry(ctx context.Context, draft NewEntry) (Entry, error) {
	entry, err := s.store.CreateEntry(ctx, draft)
	if err != nil {
		return Entry{}, err
	}
	if err := s.RefreshEntries(ctx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Service) GetEntryByID(ctx context.Context, id string) (Entry, error) {
	return s.store.GetEntry(ctx, id)
}

func (s *Service) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (Entry, error) {
	entry, err := s.store.UpdateEntry(ctx, id, patch)
	if err != nil {
		return Entry{}, err
	}
	if err := s.RefreshEntries(ctx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	return s.RefreshEntries(ctx)
}

func (s *Service) SearchEntries(ctx context.Context, query string) ([]Entry, error) {
	return s.store.SearchEntries(ctx, query)
}

func (s *Service) GetEntryMedia(ctx context.Context, entryID string) ([]Media, error) {
	return s.store.ListEntryMedia(ctx, entryID)
}

func (s *Service) AddMedia(ctx context.Context, draft NewMedia) (Media, error) {
	media, err := s.store.AddMedia(ctx, draft)
	if err != nil {
		return Media{}, err
	}
	s.notify()
	return media, nil
}

func (s *Service) DeleteMedia(ctx context.Context, id string) error {
	if err := s.store.DeleteMedia(ctx, id); err != nil {
		return err
	}
	s.notify()
	return nil
}

// GetAllMedia returns every media item across all entries, newest-created
// first. Used to backfill entry thumbnails and the gallery view.
func (s *Service) GetAllMedia(ctx context.Context) ([]Media, error) {
	return s.store.ListAllMedia(ctx)
}

func (s *Service) GetChecklistItems(ctx context.Context, entryID string) ([]ChecklistItem, error) {
	return s.store.ListChecklistItems(ctx, entryID)
}

func (s *Service) AddChecklistItem(ctx context.Context, draft NewChecklistItem) (ChecklistItem, error) {
	item, err := s.store.AddChecklistItem(ctx, draft)
	if err != nil {
		return ChecklistItem{}, err
	}
	s.notify()
	return item, nil
}

func (s *Service) UpdateChecklistItem(ctx context.Context, id string, patch ChecklistItemPatch) (ChecklistItem, error) {
	item, err := s.store.UpdateChecklistItem(ctx, id, patch)
	if err != nil {
		return ChecklistItem{}, err
	}
	s.notify()
	return item, nil
}

func (s *Service) DeleteChecklistItem(ctx context.Context, id string) error {
	if err := s.store.DeleteChecklistItem(ctx, id); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Service) CreateAlbum(ctx context.Context, name string) (Album, error) {
	album, err := s.store.CreateAlbum(ctx, name)
	if err != nil {
		return Album{}, err
	}
	if err := s.RefreshAlbums(ctx); err != nil {
		return Album{}, err
	}
	return album, nil
}

func (s *Service) UpdateAlbum(ctx context.Context, id string, patch AlbumPatch) (Album, error) {
	album, err := s.store.UpdateAlbum(ctx, id, patch)
	if err != nil {
		return Album{}, err
	}
	if err := s.RefreshAlbums(ctx); err != nil {
		return Album{}, err
	}
	return album, nil
}

func (s *Service) DeleteAlbum(ctx context.Context, id string) error {
	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		return err
	}
	return s.RefreshAlbums(ctx)
}

func (s *Service) AddMediaToAlbum(ctx context.Context, albumID, mediaID string) (AlbumMedia, error) {
	link, err := s.store.AddMediaToAlbum(ctx, albumID, mediaID)
	if err != nil {
		return AlbumMedia{}, err
	}
	s.notify()
	return link, nil
}

func (s *Service) RemoveMediaFromAlbum(ctx context.Context, albumID, mediaID string) error {
	if err := s.store.RemoveMediaFromAlbum(ctx, albumID, mediaID); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Service) GetAlbumMedia(ctx context.Context, albumID string) ([]Media, error) {
	return s.store.ListAlbumMedia(ctx, albumID)
}

// RefreshEntries forces a reload of the entry cache from the backend.
func (s *Service) RefreshEntries(ctx context.Context) error {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.notify()
	return nil
}

// RefreshAlbums forces a reload of the album cache from the backend.
func (s *Service) RefreshAlbums(ctx context.Context) error {
	albums, err := s.store.ListAlbums(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.albums = albums
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearAll drops every persisted record and empties the caches.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = nil
	s.entries = []Entry{}
	s.albums = []Album{}
	s.mu.Unlock()
	s.notify()
	return nil
}

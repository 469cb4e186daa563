package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Collection keys used by the key-value backend. Each key holds one
// JSON-serialized collection blob (a single object for settings, arrays for
// the rest).
const (
	keyUserSettings = "journal_user_settings"
	keyEntries      = "journal_entries"
	keyMedia        = "journal_media"
	keyChecklist    = "journal_checklist"
	keyAlbums       = "journal_albums"
	keyAlbumMedia   = "journal_album_media"
)

// KV is the flat persistence primitive behind KVStore. Get returns nil with
// no error for an absent key.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	DeleteAll() error
}

// FileKV stores each key as a JSON file inside a directory. Writes go
// through a temp file and rename so a crash never leaves a half-written blob.
type FileKV struct {
	dir string
}

var _ KV = (*FileKV)(nil)

// NewFileKV creates the data directory if needed and returns a FileKV over it.
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("kv data directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory '%s': %w", dir, err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (f *FileKV) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path(key))
}

func (f *FileKV) DeleteAll() error {
	matches, err := filepath.Glob(filepath.Join(f.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// MemKV is an in-memory KV, used by tests and for ephemeral stores.
type MemKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ KV = (*MemKV)(nil)

func NewMemKV() *MemKV {
	return &MemKV{data: map[string][]byte{}}
}

func (m *MemKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemKV) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string][]byte{}
	return nil
}

// KVStore implements Store over whole-collection blobs. Every mutation is a
// read-modify-write of the affected collection; referential integrity is kept
// by explicit filter-and-rewrite, mirroring the relational backend's cascades.
type KVStore struct {
	mu sync.Mutex
	kv KV
}

var _ Store = (*KVStore)(nil)

func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Close() error {
	return nil
}

// readCollection loads and decodes a collection blob. A missing key or a
// corrupted blob degrades to the empty collection rather than failing.
func readCollection[T any](kv KV, key string) []T {
	data, err := kv.Get(key)
	if err != nil || len(data) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return []T{}
	}
	return out
}

func writeCollection[T any](kv KV, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return kv.Set(key, data)
}

func (s *KVStore) SaveSettings(ctx context.Context, name, primaryGoal string) (UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowISO()
	settings := UserSettings{
		ID:                  1,
		Name:                name,
		PrimaryGoal:         primaryGoal,
		OnboardingCompleted: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if existing, err := s.readSettings(); err == nil {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return UserSettings{}, err
	}
	if err := s.kv.Set(keyUserSettings, data); err != nil {
		return UserSettings{}, err
	}
	return settings, nil
}

func (s *KVStore) Settings(ctx context.Context) (UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readSettings()
}

func (s *KVStore) readSettings() (UserSettings, error) {
	data, err := s.kv.Get(keyUserSettings)
	if err != nil || len(data) == 0 {
		return UserSettings{}, ErrSettingsNotFound
	}
	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		// Corrupted blob: treat as never saved.
		return UserSettings{}, ErrSettingsNotFound
	}
	return settings, nil
}

func (s *KVStore) CreateEntry(ctx context.Context, draft NewEntry) (Entry, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return Entry{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowISO()
	entry := Entry{
		ID:        newID(),
		Title:     draft.Title,
		Content:   draft.Content,
		Mood:      draft.Mood,
		Weather:   draft.Weather,
		Location:  draft.Location,
		Tags:      draft.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	entries := readCollection[Entry](s.kv, keyEntries)
	entries = append(entries, entry)
	if err := writeCollection(s.kv, keyEntries, entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *KVStore) GetEntry(ctx context.Context, id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range readCollection[Entry](s.kv, keyEntries) {
		if entry.ID == id {
			return entry, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

func (s *KVStore) ListEntries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := readCollection[Entry](s.kv, keyEntries)
	sortEntriesNewestFirst(entries)
	return entries, nil
}

func (s *KVStore) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := readCollection[Entry](s.kv, keyEntries)
	for i, entry := range entries {
		if entry.ID != id {
			continue
		}
		merged := entry.applyPatch(patch)
		merged.UpdatedAt = nowISO()
		entries[i] = merged
		if err := writeCollection(s.kv, keyEntries, entries); err != nil {
			return Entry{}, err
		}
		return merged, nil
	}
	return Entry{}, ErrEntryNotFound
}

func (s *KVStore) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := readCollection[Entry](s.kv, keyEntries)
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		// Nothing to delete; stay idempotent.
		return nil
	}
	if err := writeCollection(s.kv, keyEntries, kept); err != nil {
		return err
	}

	// Cascade: drop the entry's media (and their album links) and checklist items.
	media := readCollection[Media](s.kv, keyMedia)
	removedMedia := map[string]bool{}
	keptMedia := media[:0]
	for _, m := range media {
		if m.EntryID == id {
			removedMedia[m.ID] = true
			continue
		}
		keptMedia = append(keptMedia, m)
	}
	if err := writeCollection(s.kv, keyMedia, keptMedia); err != nil {
		return err
	}
	if len(removedMedia) > 0 {
		if err := s.dropAlbumLinks(func(link AlbumMedia) bool { return removedMedia[link.MediaID] }); err != nil {
			return err
		}
	}

	checklist := readCollection[ChecklistItem](s.kv, keyChecklist)
	keptChecklist := checklist[:0]
	for _, item := range checklist {
		if item.EntryID != id {
			keptChecklist = append(keptChecklist, item)
		}
	}
	return writeCollection(s.kv, keyChecklist, keptChecklist)
}

func (s *KVStore) SearchEntries(ctx context.Context, query string) ([]Entry, error) {
	term := normalizeQuery(query)
	if term == "" {
		return []Entry{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []Entry{}
	for _, entry := range readCollection[Entry](s.kv, keyEntries) {
		if entryMatches(entry, term) {
			matched = append(matched, entry)
		}
	}
	sortEntriesNewestFirst(matched)
	return matched, nil
}

func entryMatches(entry Entry, term string) bool {
	return strings.Contains(strings.ToLower(entry.Title), term) ||
		strings.Contains(strings.ToLower(entry.Content), term) ||
		strings.Contains(strings.ToLower(entry.Tags), term) ||
		strings.Contains(strings.ToLower(entry.Mood), term)
}

func (s *KVStore) AddMedia(ctx context.Context, draft NewMedia) (Media, error) {
	if !validMediaType(draft.Type) {
		return Media{}, ErrInvalidMediaType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.entryExists(draft.EntryID) {
		return Media{}, ErrEntryNotFound
	}

	media := Media{
		ID:        newID(),
		EntryID:   draft.EntryID,
		Type:      draft.Type,
		URI:       draft.URI,
		Caption:   draft.Caption,
		Timestamp: draft.Timestamp,
		Order:     draft.Order,
		CreatedAt: nowISO(),
	}

	items := readCollection[Media](s.kv, keyMedia)
	items = append(items, media)
	if err := writeCollection(s.kv, keyMedia, items); err != nil {
		return Media{}, err
	}
	return media, nil
}

func (s *KVStore) ListEntryMedia(ctx context.Context, entryID string) ([]Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoped := []Media{}
	for _, m := range readCollection[Media](s.kv, keyMedia) {
		if m.EntryID == entryID {
			scoped = append(scoped, m)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool { return scoped[i].Order < scoped[j].Order })
	return scoped, nil
}

func (s *KVStore) ListAllMedia(ctx context.Context) ([]Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	media := readCollection[Media](s.kv, keyMedia)
	sort.SliceStable(media, func(i, j int) bool { return media[i].CreatedAt > media[j].CreatedAt })
	return media, nil
}

func (s *KVStore) DeleteMedia(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	media := readCollection[Media](s.kv, keyMedia)
	kept := media[:0]
	for _, m := range media {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(media) {
		return nil
	}
	if err := writeCollection(s.kv, keyMedia, kept); err != nil {
		return err
	}
	return s.dropAlbumLinks(func(link AlbumMedia) bool { return link.MediaID == id })
}

func (s *KVStore) AddChecklistItem(ctx context.Context, draft NewChecklistItem) (ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.entryExists(draft.EntryID) {
		return ChecklistItem{}, ErrEntryNotFound
	}

	item := ChecklistItem{
		ID:      newID(),
		EntryID: draft.EntryID,
		Text:    draft.Text,
		Order:   draft.Order,
	}

	items := readCollection[ChecklistItem](s.kv, keyChecklist)
	items = append(items, item)
	if err := writeCollection(s.kv, keyChecklist, items); err != nil {
		return ChecklistItem{}, err
	}
	return item, nil
}

func (s *KVStore) ListChecklistItems(ctx context.Context, entryID string) ([]ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoped := []ChecklistItem{}
	for _, item := range readCollection[ChecklistItem](s.kv, keyChecklist) {
		if item.EntryID == entryID {
			scoped = append(scoped, item)
		}
	}
	sort.SliceStable(scoped, func(i, j int) bool { return scoped[i].Order < scoped[j].Order })
	return scoped, nil
}

func (s *KVStore) UpdateChecklistItem(ctx context.Context, id string, patch ChecklistItemPatch) (ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[ChecklistItem](s.kv, keyChecklist)
	for i, item := range items {
		if item.ID != id {
			continue
		}
		merged := item.applyPatch(patch)
		items[i] = merged
		if err := writeCollection(s.kv, keyChecklist, items); err != nil {
			return ChecklistItem{}, err
		}
		return merged, nil
	}
	return ChecklistItem{}, ErrChecklistItemNotFound
}

func (s *KVStore) DeleteChecklistItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[ChecklistItem](s.kv, keyChecklist)
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	return writeCollection(s.kv, keyChecklist, kept)
}

func (s *KVStore) CreateAlbum(ctx context.Context, name string) (Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowISO()
	album := Album{
		ID:        newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	albums := readCollection[Album](s.kv, keyAlbums)
	albums = append(albums, album)
	if err := writeCollection(s.kv, keyAlbums, albums); err != nil {
		return Album{}, err
	}
	return album, nil
}

func (s *KVStore) ListAlbums(ctx context.Context) ([]Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums := readCollection[Album](s.kv, keyAlbums)
	sort.SliceStable(albums, func(i, j int) bool { return albums[i].UpdatedAt > albums[j].UpdatedAt })
	return albums, nil
}

func (s *KVStore) UpdateAlbum(ctx context.Context, id string, patch AlbumPatch) (Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums := readCollection[Album](s.kv, keyAlbums)
	for i, album := range albums {
		if album.ID != id {
			continue
		}
		merged := album.applyPatch(patch)
		merged.UpdatedAt = nowISO()
		albums[i] = merged
		if err := writeCollection(s.kv, keyAlbums, albums); err != nil {
			return Album{}, err
		}
		return merged, nil
	}
	return Album{}, ErrAlbumNotFound
}

func (s *KVStore) DeleteAlbum(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	albums := readCollection[Album](s.kv, keyAlbums)
	kept := albums[:0]
	for _, album := range albums {
		if album.ID != id {
			kept = append(kept, album)
		}
	}
	if len(kept) == len(albums) {
		return nil
	}
	if err := writeCollection(s.kv, keyAlbums, kept); err != nil {
		return err
	}
	return s.dropAlbumLinks(func(link AlbumMedia) bool { return link.AlbumID == id })
}

func (s *KVStore) AddMediaToAlbum(ctx context.Context, albumID, mediaID string) (AlbumMedia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.albumExists(albumID) {
		return AlbumMedia{}, ErrAlbumNotFound
	}
	if !s.mediaExists(mediaID) {
		return AlbumMedia{}, ErrMediaNotFound
	}

	links := readCollection[AlbumMedia](s.kv, keyAlbumMedia)
	for _, link := range links {
		if link.AlbumID == albumID && link.MediaID == mediaID {
			return link, nil
		}
	}

	link := AlbumMedia{
		ID:      newID(),
		AlbumID: albumID,
		MediaID: mediaID,
		AddedAt: nowISO(),
	}
	links = append(links, link)
	if err := writeCollection(s.kv, keyAlbumMedia, links); err != nil {
		return AlbumMedia{}, err
	}
	return link, nil
}

func (s *KVStore) RemoveMediaFromAlbum(ctx context.Context, albumID, mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropAlbumLinks(func(link AlbumMedia) bool {
		return link.AlbumID == albumID && link.MediaID == mediaID
	})
}

func (s *KVStore) ListAlbumMedia(ctx context.Context, albumID string) ([]Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.albumExists(albumID) {
		return nil, ErrAlbumNotFound
	}

	links := []AlbumMedia{}
	for _, link := range readCollection[AlbumMedia](s.kv, keyAlbumMedia) {
		if link.AlbumID == albumID {
			links = append(links, link)
		}
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].AddedAt < links[j].AddedAt })

	byID := map[string]Media{}
	for _, m := range readCollection[Media](s.kv, keyMedia) {
		byID[m.ID] = m
	}

	media := []Media{}
	for _, link := range links {
		if m, ok := byID[link.MediaID]; ok {
			media = append(media, m)
		}
	}
	return media, nil
}

func (s *KVStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.DeleteAll()
}

func (s *KVStore) entryExists(id string) bool {
	for _, entry := range readCollection[Entry](s.kv, keyEntries) {
		if entry.ID == id {
			return true
		}
	}
	return false
}

func (s *KVStore) mediaExists(id string) bool {
	for _, m := range readCollection[Media](s.kv, keyMedia) {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *KVStore) albumExists(id string) bool {
	for _, album := range readCollection[Album](s.kv, keyAlbums) {
		if album.ID == id {
			return true
		}
	}
	return false
}

func (s *KVStore) dropAlbumLinks(drop func(AlbumMedia) bool) error {
	links := readCollection[AlbumMedia](s.kv, keyAlbumMedia)
	kept := links[:0]
	for _, link := range links {
		if !drop(link) {
			kept = append(kept, link)
		}
	}
	return writeCollection(s.kv, keyAlbumMedia, kept)
}

func sortEntriesNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt > entries[j].CreatedAt })
}

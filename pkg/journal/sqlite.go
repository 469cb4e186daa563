package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/daybook-app/daybook/pkg/db"
)

const (
	getSettingsStatement = `
	SELECT id, name, primary_goal, onboarding_completed, created_at, updated_at
	FROM user_settings
	LIMIT 1
	`

	insertSettingsStatement = `
	INSERT INTO user_settings (name, primary_goal, onboarding_completed, created_at, updated_at)
	VALUES (?, ?, 1, ?, ?)
	`

	updateSettingsStatement = `
	UPDATE user_settings
	SET name = ?, primary_goal = ?, onboarding_completed = 1, updated_at = ?
	WHERE id = ?
	`

	createEntryStatement = `
	INSERT INTO journal_entries (id, title, content, mood, weather, location, tags, is_favorite, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	getEntryStatement = `
	SELECT id, title, content, mood, weather, location, tags, is_favorite, created_at, updated_at
	FROM journal_entries
	WHERE id = ?
	`

	listEntriesStatement = `
	SELECT id, title, content, mood, weather, location, tags, is_favorite, created_at, updated_at
	FROM journal_entries
	ORDER BY created_at DESC, rowid ASC
	`

	updateEntryStatement = `
	UPDATE journal_entries
	SET title = ?, content = ?, mood = ?, weather = ?, location = ?, tags = ?, is_favorite = ?, updated_at = ?
	WHERE id = ?
	`

	deleteEntryStatement = `
	DELETE FROM journal_entries
	WHERE id = ?
	`

	searchEntriesStatement = `
	SELECT id, title, content, mood, weather, location, tags, is_favorite, created_at, updated_at
	FROM journal_entries
	WHERE LOWER(title) LIKE ? ESCAPE '\'
	   OR LOWER(COALESCE(content, '')) LIKE ? ESCAPE '\'
	   OR LOWER(COALESCE(tags, '')) LIKE ? ESCAPE '\'
	   OR LOWER(COALESCE(mood, '')) LIKE ? ESCAPE '\'
	ORDER BY created_at DESC, rowid ASC
	`

	addMediaStatement = `
	INSERT INTO entry_media (id, entry_id, type, uri, caption, timestamp, "order", created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	getMediaStatement = `
	SELECT id, entry_id, type, uri, caption, timestamp, "order", created_at
	FROM entry_media
	WHERE id = ?
	`

	listEntryMediaStatement = `
	SELECT id, entry_id, type, uri, caption, timestamp, "order", created_at
	FROM entry_media
	WHERE entry_id = ?
	ORDER BY "order" ASC, rowid ASC
	`

	listAllMediaStatement = `
	SELECT id, entry_id, type, uri, caption, timestamp, "order", created_at
	FROM entry_media
	ORDER BY created_at DESC, rowid ASC
	`

	deleteMediaStatement = `
	DELETE FROM entry_media
	WHERE id = ?
	`

	addChecklistItemStatement = `
	INSERT INTO checklist_items (id, entry_id, text, is_completed, "order")
	VALUES (?, ?, ?, ?, ?)
	`

	getChecklistItemStatement = `
	SELECT id, entry_id, text, is_completed, "order"
	FROM checklist_items
	WHERE id = ?
	`

	listChecklistItemsStatement = `
	SELECT id, entry_id, text, is_completed, "order"
	FROM checklist_items
	WHERE entry_id = ?
	ORDER BY "order" ASC, rowid ASC
	`

	updateChecklistItemStatement = `
	UPDATE checklist_items
	SET text = ?, is_completed = ?, "order" = ?
	WHERE id = ?
	`

	deleteChecklistItemStatement = `
	DELETE FROM checklist_items
	WHERE id = ?
	`

	createAlbumStatement = `
	INSERT INTO albums (id, name, cover_image_uri, is_pinned, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	getAlbumStatement = `
	SELECT id, name, cover_image_uri, is_pinned, created_at, updated_at
	FROM albums
	WHERE id = ?
	`

	listAlbumsStatement = `
	SELECT id, name, cover_image_uri, is_pinned, created_at, updated_at
	FROM albums
	ORDER BY updated_at DESC, rowid ASC
	`

	updateAlbumStatement = `
	UPDATE albums
	SET name = ?, cover_image_uri = ?, is_pinned = ?, updated_at = ?
	WHERE id = ?
	`

	deleteAlbumStatement = `
	DELETE FROM albums
	WHERE id = ?
	`

	addAlbumMediaStatement = `
	INSERT INTO album_media (id, album_id, media_id, added_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (album_id, media_id) DO NOTHING
	`

	getAlbumMediaLinkStatement = `
	SELECT id, album_id, media_id, added_at
	FROM album_media
	WHERE album_id = ? AND media_id = ?
	`

	removeAlbumMediaStatement = `
	DELETE FROM album_media
	WHERE album_id = ? AND media_id = ?
	`

	listAlbumMediaStatement = `
	SELECT m.id, m.entry_id, m.type, m.uri, m.caption, m.timestamp, m."order", m.created_at
	FROM album_media am
	JOIN entry_media m ON m.id = am.media_id
	WHERE am.album_id = ?
	ORDER BY am.added_at ASC, am.rowid ASC
	`
)

// SQLiteStore is the relational backend. Referential integrity between
// entries, media, checklist items and album links is enforced by foreign-key
// cascades; the schema is applied idempotently on open.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (creating if absent) the database at path and brings
// the journaldb component schema up to the current version.
func OpenSQLiteStore(path string, enableWAL bool, syncPragma string) (*SQLiteStore, error) {
	dbConn, err := pkgdb.OpenDBConnection(path, enableWAL, syncPragma)
	if err != nil {
		return nil, err
	}

	if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}

	return &SQLiteStore{db: dbConn}, nil
}

// NewSQLiteStoreFromDB wraps an already-opened connection whose schema has
// been initialized. Used by tests and by callers that manage the connection
// themselves.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// DB returns the underlying *sql.DB.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, name, primaryGoal string) (UserSettings, error) {
	now := nowISO()

	existing, err := s.Settings(ctx)
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			return UserSettings{}, err
		}
		_, err = s.db.ExecContext(ctx, insertSettingsStatement, name, primaryGoal, now, now)
		if err != nil {
			return UserSettings{}, err
		}
		return s.Settings(ctx)
	}

	_, err = s.db.ExecContext(ctx, updateSettingsStatement, name, primaryGoal, now, existing.ID)
	if err != nil {
		return UserSettings{}, err
	}
	return s.Settings(ctx)
}

func (s *SQLiteStore) Settings(ctx context.Context) (UserSettings, error) {
	var settings UserSettings

	err := s.db.QueryRowContext(ctx, getSettingsStatement).Scan(
		&settings.ID,
		&settings.Name,
		&settings.PrimaryGoal,
		&settings.OnboardingCompleted,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserSettings{}, ErrSettingsNotFound
		}
		return UserSettings{}, err
	}

	return settings, nil
}

func (s *SQLiteStore) CreateEntry(ctx context.Context, draft NewEntry) (Entry, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return Entry{}, ErrTitleRequired
	}

	entryID := newID()
	now := nowISO()

	_, err := s.db.ExecContext(
		ctx,
		createEntryStatement,
		entryID,
		draft.Title,
		draft.Content,
		draft.Mood,
		draft.Weather,
		draft.Location,
		draft.Tags,
		false, // is_favorite
		now,
		now,
	)
	if err != nil {
		return Entry{}, err
	}

	return s.GetEntry(ctx, entryID)
}

func (s *SQLiteStore) GetEntry(ctx context.Context, id string) (Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, getEntryStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context) ([]Entry, error) {
	return s.queryEntries(ctx, listEntriesStatement)
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (Entry, error) {
	existing, err := s.GetEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	merged := existing.applyPatch(patch)
	merged.UpdatedAt = nowISO()

	res, err := s.db.ExecContext(
		ctx,
		updateEntryStatement,
		merged.Title,
		merged.Content,
		merged.Mood,
		merged.Weather,
		merged.Location,
		merged.Tags,
		merged.IsFavorite,
		merged.UpdatedAt,
		id,
	)
	if err != nil {
		return Entry{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Entry{}, err
	}
	if rowsAffected == 0 {
		return Entry{}, ErrEntryNotFound
	}

	return s.GetEntry(ctx, id)
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	// Media, checklist items and album links cascade via foreign keys.
	// Deleting a non-existent id is a no-op.
	_, err := s.db.ExecContext(ctx, deleteEntryStatement, id)
	return err
}

func (s *SQLiteStore) SearchEntries(ctx context.Context, query string) ([]Entry, error) {
	term := normalizeQuery(query)
	if term == "" {
		return []Entry{}, nil
	}

	pattern := "%" + escapeLike(term) + "%"
	return s.queryEntries(ctx, searchEntriesStatement, pattern, pattern, pattern, pattern)
}

func (s *SQLiteStore) AddMedia(ctx context.Context, draft NewMedia) (Media, error) {
	if !validMediaType(draft.Type) {
		return Media{}, ErrInvalidMediaType
	}
	if _, err := s.GetEntry(ctx, draft.EntryID); err != nil {
		return Media{}, err
	}

	mediaID := newID()
	now := nowISO()

	_, err := s.db.ExecContext(
		ctx,
		addMediaStatement,
		mediaID,
		draft.EntryID,
		draft.Type,
		draft.URI,
		draft.Caption,
		draft.Timestamp,
		draft.Order,
		now,
	)
	if err != nil {
		return Media{}, err
	}

	return s.getMedia(ctx, mediaID)
}

func (s *SQLiteStore) getMedia(ctx context.Context, id string) (Media, error) {
	media, err := scanMedia(s.db.QueryRowContext(ctx, getMediaStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Media{}, ErrMediaNotFound
		}
		return Media{}, err
	}
	return media, nil
}

func (s *SQLiteStore) ListEntryMedia(ctx context.Context, entryID string) ([]Media, error) {
	return s.queryMedia(ctx, listEntryMediaStatement, entryID)
}

func (s *SQLiteStore) ListAllMedia(ctx context.Context) ([]Media, error) {
	return s.queryMedia(ctx, listAllMediaStatement)
}

func (s *SQLiteStore) DeleteMedia(ctx context.Context, id string) error {
	// Album links for the media cascade via foreign keys.
	_, err := s.db.ExecContext(ctx, deleteMediaStatement, id)
	return err
}

func (s *SQLiteStore) AddChecklistItem(ctx context.Context, draft NewChecklistItem) (ChecklistItem, error) {
	if _, err := s.GetEntry(ctx, draft.EntryID); err != nil {
		return ChecklistItem{}, err
	}

	itemID := newID()

	_, err := s.db.ExecContext(
		ctx,
		addChecklistItemStatement,
		itemID,
		draft.EntryID,
		draft.Text,
		false, // is_completed
		draft.Order,
	)
	if err != nil {
		return ChecklistItem{}, err
	}

	return s.getChecklistItem(ctx, itemID)
}

func (s *SQLiteStore) getChecklistItem(ctx context.Context, id string) (ChecklistItem, error) {
	var item ChecklistItem
	err := s.db.QueryRowContext(ctx, getChecklistItemStatement, id).Scan(
		&item.ID,
		&item.EntryID,
		&item.Text,
		&item.IsCompleted,
		&item.Order,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChecklistItem{}, ErrChecklistItemNotFound
		}
		return ChecklistItem{}, err
	}
	return item, nil
}

func (s *SQLiteStore) ListChecklistItems(ctx context.Context, entryID string) ([]ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx, listChecklistItemsStatement, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []ChecklistItem{}
	for rows.Next() {
		var item ChecklistItem
		err := rows.Scan(
			&item.ID,
			&item.EntryID,
			&item.Text,
			&item.IsCompleted,
			&item.Order,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *SQLiteStore) UpdateChecklistItem(ctx context.Context, id string, patch ChecklistItemPatch) (ChecklistItem, error) {
	existing, err := s.getChecklistItem(ctx, id)
	if err != nil {
		return ChecklistItem{}, err
	}

	merged := existing.applyPatch(patch)

	res, err := s.db.ExecContext(
		ctx,
		updateChecklistItemStatement,
		merged.Text,
		merged.IsCompleted,
		merged.Order,
		id,
	)
	if err != nil {
		return ChecklistItem{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return ChecklistItem{}, err
	}
	if rowsAffected == 0 {
		return ChecklistItem{}, ErrChecklistItemNotFound
	}

	return s.getChecklistItem(ctx, id)
}

func (s *SQLiteStore) DeleteChecklistItem(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, deleteChecklistItemStatement, id)
	return err
}

func (s *SQLiteStore) CreateAlbum(ctx context.Context, name string) (Album, error) {
	albumID := newID()
	now := nowISO()

	_, err := s.db.ExecContext(
		ctx,
		createAlbumStatement,
		albumID,
		name,
		"",
		false, // is_pinned
		now,
		now,
	)
	if err != nil {
		return Album{}, err
	}

	return s.getAlbum(ctx, albumID)
}

func (s *SQLiteStore) getAlbum(ctx context.Context, id string) (Album, error) {
	var album Album
	var cover sql.NullString
	err := s.db.QueryRowContext(ctx, getAlbumStatement, id).Scan(
		&album.ID,
		&album.Name,
		&cover,
		&album.IsPinned,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Album{}, ErrAlbumNotFound
		}
		return Album{}, err
	}
	album.CoverImageURI = cover.String
	return album, nil
}

func (s *SQLiteStore) ListAlbums(ctx context.Context) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, listAlbumsStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	albums := []Album{}
	for rows.Next() {
		var album Album
		var cover sql.NullString
		err := rows.Scan(
			&album.ID,
			&album.Name,
			&cover,
			&album.IsPinned,
			&album.CreatedAt,
			&album.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		album.CoverImageURI = cover.String
		albums = append(albums, album)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return albums, nil
}

func (s *SQLiteStore) UpdateAlbum(ctx context.Context, id string, patch AlbumPatch) (Album, error) {
	existing, err := s.getAlbum(ctx, id)
	if err != nil {
		return Album{}, err
	}

	merged := existing.applyPatch(patch)
	merged.UpdatedAt = nowISO()

	res, err := s.db.ExecContext(
		ctx,
		updateAlbumStatement,
		merged.Name,
		merged.CoverImageURI,
		merged.IsPinned,
		merged.UpdatedAt,
		id,
	)
	if err != nil {
		return Album{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Album{}, err
	}
	if rowsAffected == 0 {
		return Album{}, ErrAlbumNotFound
	}

	return s.getAlbum(ctx, id)
}

func (s *SQLiteStore) DeleteAlbum(ctx context.Context, id string) error {
	// Album links cascade; the media items themselves are untouched.
	_, err := s.db.ExecContext(ctx, deleteAlbumStatement, id)
	return err
}

func (s *SQLiteStore) AddMediaToAlbum(ctx context.Context, albumID, mediaID string) (AlbumMedia, error) {
	if _, err := s.getAlbum(ctx, albumID); err != nil {
		return AlbumMedia{}, err
	}
	if _, err := s.getMedia(ctx, mediaID); err != nil {
		return AlbumMedia{}, err
	}

	// Relinking the same media is idempotent; the existing link wins.
	_, err := s.db.ExecContext(ctx, addAlbumMediaStatement, newID(), albumID, mediaID, nowISO())
	if err != nil {
		return AlbumMedia{}, err
	}

	var link AlbumMedia
	err = s.db.QueryRowContext(ctx, getAlbumMediaLinkStatement, albumID, mediaID).Scan(
		&link.ID,
		&link.AlbumID,
		&link.MediaID,
		&link.AddedAt,
	)
	if err != nil {
		return AlbumMedia{}, err
	}
	return link, nil
}

func (s *SQLiteStore) RemoveMediaFromAlbum(ctx context.Context, albumID, mediaID string) error {
	_, err := s.db.ExecContext(ctx, removeAlbumMediaStatement, albumID, mediaID)
	return err
}

func (s *SQLiteStore) ListAlbumMedia(ctx context.Context, albumID string) ([]Media, error) {
	if _, err := s.getAlbum(ctx, albumID); err != nil {
		return nil, err
	}
	return s.queryMedia(ctx, listAlbumMediaStatement, albumID)
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	// Child tables first so the statement order works even without FK support.
	statements := []string{
		"DELETE FROM album_media;",
		"DELETE FROM checklist_items;",
		"DELETE FROM entry_media;",
		"DELETE FROM journal_entries;",
		"DELETE FROM albums;",
		"DELETE FROM user_settings;",
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset journal data: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var entry Entry
	var content, mood, weather, location, tags sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&content,
		&mood,
		&weather,
		&location,
		&tags,
		&entry.IsFavorite,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return Entry{}, err
	}

	entry.Content = content.String
	entry.Mood = mood.String
	entry.Weather = weather.String
	entry.Location = location.String
	entry.Tags = tags.String
	return entry, nil
}

func scanMedia(row rowScanner) (Media, error) {
	var media Media
	var caption, timestamp sql.NullString

	err := row.Scan(
		&media.ID,
		&media.EntryID,
		&media.Type,
		&media.URI,
		&caption,
		&timestamp,
		&media.Order,
		&media.CreatedAt,
	)
	if err != nil {
		return Media{}, err
	}

	media.Caption = caption.String
	media.Timestamp = timestamp.String
	return media, nil
}

func (s *SQLiteStore) queryEntries(ctx context.Context, statement string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *SQLiteStore) queryMedia(ctx context.Context, statement string, args ...any) ([]Media, error) {
	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return media, nil
}

// escapeLike escapes LIKE metacharacters in a search term so user input is
// matched literally.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}

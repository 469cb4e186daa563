package journal

import (
	"time"

	"github.com/google/uuid"
)

// Media type discriminators for Media.Type.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// UserSettings is the singleton settings record. At most one exists per store.
type UserSettings struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	PrimaryGoal         string `json:"primaryGoal"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}

// Entry is a single journal record. Tags is an opaque serialized list owned
// by the caller; the store only ever treats it as a string.
type Entry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
	Mood       string `json:"mood,omitempty"`
	Weather    string `json:"weather,omitempty"`
	Location   string `json:"location,omitempty"`
	Tags       string `json:"tags,omitempty"`
	IsFavorite bool   `json:"isFavorite"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Media is an image or video attached to an entry. URI references on-device
// file storage; the bytes themselves are never stored here.
type Media struct {
	ID        string `json:"id"`
	EntryID   string `json:"entryId"`
	Type      string `json:"type"`
	URI       string `json:"uri"`
	Caption   string `json:"caption,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Order     int    `json:"order"`
	CreatedAt string `json:"createdAt"`
}

// ChecklistItem is a to-do line attached to an entry.
type ChecklistItem struct {
	ID          string `json:"id"`
	EntryID     string `json:"entryId"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	Order       int    `json:"order"`
}

// Album is a named media collection with a lifecycle independent of entries.
type Album struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CoverImageURI string `json:"coverImageUri,omitempty"`
	IsPinned      bool   `json:"isPinned"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// AlbumMedia links a media item into an album.
type AlbumMedia struct {
	ID      string `json:"id"`
	AlbumID string `json:"albumId"`
	MediaID string `json:"mediaId"`
	AddedAt string `json:"addedAt"`
}

// NewEntry carries the caller-supplied fields for entry creation. The store
// assigns the id and both timestamps.
type NewEntry struct {
	Title    string
	Content  string
	Mood     string
	Weather  string
	Location string
	Tags     string
}

// NewMedia carries the caller-supplied fields for media creation.
type NewMedia struct {
	EntryID   string
	Type      string
	URI       string
	Caption   string
	Timestamp string
	Order     int
}

// NewChecklistItem carries the caller-supplied fields for checklist creation.
type NewChecklistItem struct {
	EntryID string
	Text    string
	Order   int
}

// EntryPatch is a partial entry update. Nil fields are left unchanged.
type EntryPatch struct {
	Title      *string
	Content    *string
	Mood       *string
	Weather    *string
	Location   *string
	Tags       *string
	IsFavorite *bool
}

// ChecklistItemPatch is a partial checklist item update.
type ChecklistItemPatch struct {
	Text        *string
	IsCompleted *bool
	Order       *int
}

// AlbumPatch is a partial album update.
type AlbumPatch struct {
	Name          *string
	CoverImageURI *string
	IsPinned      *bool
}

// applyPatch merges the set fields of a patch into a copy of the entry.
// Timestamps are left alone; the store stamps UpdatedAt itself.
func (e Entry) applyPatch(patch EntryPatch) Entry {
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Content != nil {
		e.Content = *patch.Content
	}
	if patch.Mood != nil {
		e.Mood = *patch.Mood
	}
	if patch.Weather != nil {
		e.Weather = *patch.Weather
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Tags != nil {
		e.Tags = *patch.Tags
	}
	if patch.IsFavorite != nil {
		e.IsFavorite = *patch.IsFavorite
	}
	return e
}

func (c ChecklistItem) applyPatch(patch ChecklistItemPatch) ChecklistItem {
	if patch.Text != nil {
		c.Text = *patch.Text
	}
	if patch.IsCompleted != nil {
		c.IsCompleted = *patch.IsCompleted
	}
	if patch.Order != nil {
		c.Order = *patch.Order
	}
	return c
}

func (a Album) applyPatch(patch AlbumPatch) Album {
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.CoverImageURI != nil {
		a.CoverImageURI = *patch.CoverImageURI
	}
	if patch.IsPinned != nil {
		a.IsPinned = *patch.IsPinned
	}
	return a
}

// newID produces a fresh opaque identifier.
func newID() string {
	return uuid.NewString()
}

// timeLayout is ISO-8601 (RFC 3339) with fixed-width milliseconds, so
// timestamp strings sort lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// nowISO returns the current instant as an ISO-8601 UTC string, the
// timestamp format used throughout the persisted layouts.
func nowISO() string {
	return time.Now().UTC().Format(timeLayout)
}

package models

import "time"

// Room is a named, categorized channel. Names are stored normalized
// (trimmed, lowercased) and are globally unique.
type Room struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	CreatedBy *int64    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RoomListing is the result of the room listing query: rooms grouped by
// category, the caller's category visibility map, and the most recent
// message per room when one exists.
type RoomListing struct {
	Grouped      map[string][]string       `json:"groupedRooms"`
	Categories   []string                  `json:"-"`
	Visible      map[string]bool           `json:"visibleCategories"`
	LastMessages map[string]MessagePreview `json:"lastMessages"`
	ShowAll      bool                      `json:"showAll"`
}

// MessagePreview is the last-message summary shown next to a room name.
type MessagePreview struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
	Edited    bool      `json:"edited"`
}

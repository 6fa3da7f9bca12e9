package ws

import "strings"

// DefaultCategory is used when a join request carries no category.
const DefaultCategory = "general"

// NormalizeRoomName canonicalizes a room name. The same normalization feeds
// directory lookups, persistence, and broadcast-group keys, so "Music" and
// "music" always resolve to the same room.
func NormalizeRoomName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeCategory canonicalizes a category name, falling back to the
// default category when empty.
func NormalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return DefaultCategory
	}
	return normalized
}

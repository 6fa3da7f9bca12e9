package models

import "time"

// Message is a persisted chat message. Sender is a display-name snapshot
// taken at send time, not a live user reference; SenderConnID correlates
// the message with the websocket connection that produced it.
type Message struct {
	ID           int64     `db:"id" json:"id"`
	Room         string    `db:"room" json:"room"`
	Sender       string    `db:"sender" json:"sender"`
	SenderConnID string    `db:"sender_conn_id" json:"-"`
	Text         string    `db:"text" json:"text"`
	Edited       bool      `db:"edited" json:"edited"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Preview converts the message into its listing summary.
func (m Message) Preview() MessagePreview {
	return MessagePreview{
		Text:      m.Text,
		Sender:    m.Sender,
		CreatedAt: m.CreatedAt,
		Edited:    m.Edited,
	}
}

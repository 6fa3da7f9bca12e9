package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BlaJam82/chat-app/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts the per-room message log.
type MessageRepository interface {
	CreateMessage(ctx context.Context, room, sender, senderConnID, text string) (models.Message, error)
	GetMessage(ctx context.Context, messageID int64) (models.Message, error)
	UpdateMessageText(ctx context.Context, messageID int64, newText string) error
	DeleteMessage(ctx context.Context, messageID int64) error
	RecentMessages(ctx context.Context, room string, limit int) ([]models.Message, error)
	LastMessage(ctx context.Context, room string) (models.Message, error)
}

// MessageRepo is a sqlx-backed implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage appends a message to the log with auto-assigned timestamps.
func (r *MessageRepo) CreateMessage(ctx context.Context, room, sender, senderConnID, text string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (room, sender, sender_conn_id, text) VALUES ($1, $2, $3, $4)
        RETURNING id, room, sender, sender_conn_id, text, edited, created_at, updated_at`, room, sender, senderConnID, text).
		StructScan(&msg)
	return msg, err
}

// GetMessage fetches a single message by id.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int64) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT id, room, sender, sender_conn_id, text, edited, created_at, updated_at FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// UpdateMessageText replaces the text and marks the message edited.
func (r *MessageRepo) UpdateMessageText(ctx context.Context, messageID int64, newText string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET text=$2, edited=TRUE, updated_at=NOW() WHERE id=$1`, messageID, newText)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// DeleteMessage physically removes a message from the log.
func (r *MessageRepo) DeleteMessage(ctx context.Context, messageID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// RecentMessages returns up to limit most recent messages for the room,
// ordered oldest to newest.
func (r *MessageRepo) RecentMessages(ctx context.Context, room string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, room, sender, sender_conn_id, text, edited, created_at, updated_at
        FROM messages WHERE room=$1 ORDER BY created_at DESC, id DESC LIMIT $2`, room, limit)
	if err != nil {
		return nil, err
	}
	// fetched newest-first, replay oldest-first
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// LastMessage returns the most recent message in the room.
func (r *MessageRepo) LastMessage(ctx context.Context, room string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT id, room, sender, sender_conn_id, text, edited, created_at, updated_at
        FROM messages WHERE room=$1 ORDER BY created_at DESC, id DESC LIMIT 1`, room)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/BlaJam82/chat-app/internal/models"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// RoomRepository abstracts the room directory.
type RoomRepository interface {
	GetRoomByName(ctx context.Context, name string) (models.Room, error)
	CreateRoom(ctx context.Context, name, category string, createdBy *int64) (models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListRoomsByNames(ctx context.Context, names []string) ([]models.Room, error)
}

// RoomRepo is a sqlx implementation of RoomRepository.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(db *sqlx.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// GetRoomByName fetches a room by its normalized name.
func (r *RoomRepo) GetRoomByName(ctx context.Context, name string) (models.Room, error) {
	var room models.Room
	err := r.db.GetContext(ctx, &room, `SELECT id, name, category, created_by, created_at FROM rooms WHERE name=$1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrRoomNotFound
	}
	return room, err
}

// CreateRoom inserts a new room. The UNIQUE constraint on name is the
// backstop for concurrent creators; a duplicate insert returns ErrRoomExists.
func (r *RoomRepo) CreateRoom(ctx context.Context, name, category string, createdBy *int64) (models.Room, error) {
	var room models.Room
	err := r.db.QueryRowxContext(ctx, `INSERT INTO rooms (name, category, created_by) VALUES ($1, $2, $3) RETURNING id, name, category, created_by, created_at`, name, category, createdBy).
		StructScan(&room)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return models.Room{}, ErrRoomExists
		}
		return models.Room{}, err
	}
	return room, nil
}

// ListRooms returns every room in the directory.
func (r *RoomRepo) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.SelectContext(ctx, &rooms, `SELECT id, name, category, created_by, created_at FROM rooms ORDER BY name ASC`)
	return rooms, err
}

// ListRoomsByNames returns the rooms whose names are in the given set.
func (r *RoomRepo) ListRoomsByNames(ctx context.Context, names []string) ([]models.Room, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, category, created_by, created_at FROM rooms WHERE name IN (?) ORDER BY name ASC`, names)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rooms []models.Room
	err = r.db.SelectContext(ctx, &rooms, query, args...)
	return rooms, err
}

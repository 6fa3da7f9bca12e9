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
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository abstracts user accounts plus the enrollment and category
// visibility maps.
type UserRepository interface {
	CreateUser(ctx context.Context, firstName, email, passwordHash string) (models.User, error)
	GetUser(ctx context.Context, userID int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	EnrolledRooms(ctx context.Context, userID int64) (map[string]bool, error)
	VisibleCategories(ctx context.Context, userID int64) (map[string]bool, error)
	SetEnrollment(ctx context.Context, userID int64, room string, enrolled bool) error
	SetCategoryVisible(ctx context.Context, userID int64, category string, visible bool) error
	ToggleEnrollment(ctx context.Context, userID int64, room string) (bool, error)
	ToggleCategoryVisible(ctx context.Context, userID int64, category string) (bool, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser registers a new account.
func (r *UserRepo) CreateUser(ctx context.Context, firstName, email, passwordHash string) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (first_name, email, password_hash) VALUES ($1, $2, $3)
        RETURNING id, first_name, email, password_hash, created_at`, firstName, email, passwordHash).
		StructScan(&user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUser fetches an account by id.
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, first_name, email, password_hash, created_at FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetUserByEmail fetches an account by email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, first_name, email, password_hash, created_at FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// EnrolledRooms loads the user's room->enrolled map.
func (r *UserRepo) EnrolledRooms(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT room_name, enrolled FROM user_rooms WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]bool{}
	for rows.Next() {
		var room string
		var enrolled bool
		if err := rows.Scan(&room, &enrolled); err != nil {
			return nil, err
		}
		result[room] = enrolled
	}
	return result, rows.Err()
}

// VisibleCategories loads the user's category->visible map.
func (r *UserRepo) VisibleCategories(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT category, visible FROM user_categories WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]bool{}
	for rows.Next() {
		var category string
		var visible bool
		if err := rows.Scan(&category, &visible); err != nil {
			return nil, err
		}
		result[category] = visible
	}
	return result, rows.Err()
}

// SetEnrollment upserts the enrollment flag for a room.
func (r *UserRepo) SetEnrollment(ctx context.Context, userID int64, room string, enrolled bool) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_rooms (user_id, room_name, enrolled) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, room_name) DO UPDATE SET enrolled = EXCLUDED.enrolled`, userID, room, enrolled)
	return err
}

// SetCategoryVisible upserts the visibility flag for a category.
func (r *UserRepo) SetCategoryVisible(ctx context.Context, userID int64, category string, visible bool) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_categories (user_id, category, visible) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, category) DO UPDATE SET visible = EXCLUDED.visible`, userID, category, visible)
	return err
}

// ToggleEnrollment flips the enrollment flag and returns the new value.
// A room never seen before toggles to enrolled.
func (r *UserRepo) ToggleEnrollment(ctx context.Context, userID int64, room string) (bool, error) {
	var enrolled bool
	err := r.db.QueryRowxContext(ctx, `INSERT INTO user_rooms (user_id, room_name, enrolled) VALUES ($1, $2, TRUE)
        ON CONFLICT (user_id, room_name) DO UPDATE SET enrolled = NOT user_rooms.enrolled
        RETURNING enrolled`, userID, room).Scan(&enrolled)
	return enrolled, err
}

// ToggleCategoryVisible flips the visibility flag and returns the new value.
func (r *UserRepo) ToggleCategoryVisible(ctx context.Context, userID int64, category string) (bool, error) {
	var visible bool
	err := r.db.QueryRowxContext(ctx, `INSERT INTO user_categories (user_id, category, visible) VALUES ($1, $2, TRUE)
        ON CONFLICT (user_id, category) DO UPDATE SET visible = NOT user_categories.visible
        RETURNING visible`, userID, category).Scan(&visible)
	return visible, err
}

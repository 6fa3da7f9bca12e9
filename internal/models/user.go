package models

import "time"

// User is a registered account. Enrollment and category visibility live in
// their own tables and are loaded on demand as boolean maps.
type User struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the resolved caller attached to a live session or request.
type Identity struct {
	UserID      int64
	DisplayName string
}

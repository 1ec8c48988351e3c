// Package auth implements account registration, login and JWT verification.
package auth

import (
	"context"
	"database/sql"
	"errors"

	"nlquery/internal/models"
)

// Repository is the users table access layer.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a user and returns the generated id. The password must
// already be hashed.
func (r *Repository) Create(ctx context.Context, username, hashedPassword string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		username, hashedPassword,
	).Scan(&id)
	return id, err
}

// FindByUsername returns the user or nil when no account exists.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

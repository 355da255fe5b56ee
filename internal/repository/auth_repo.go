package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"portfolio/internal/models"
)

// AdminSQLite stores the accounts allowed into the admin API.
type AdminSQLite struct {
	db *sql.DB
}

func NewAdminSQLite(db *sql.DB) *AdminSQLite {
	return &AdminSQLite{db: db}
}

var _ AdminRepo = (*AdminSQLite)(nil)

const (
	insertAdminSQL           = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	selectAdminByUsernameSQL = `SELECT id, username, password_hash FROM users WHERE username = ?`
	countAdminsSQL           = `SELECT COUNT(*) FROM users`
)

// Create inserts an admin and returns its ID.
func (r *AdminSQLite) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertAdminSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert admin %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for admin %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername returns (nil, nil) when there is no such admin.
func (r *AdminSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectAdminByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select admin %q: %w", username, err)
	}
	return &u, nil
}

// Count reports how many admins exist.
func (r *AdminSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countAdminsSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

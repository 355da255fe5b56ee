package repository

import (
	"context"
	"database/sql"
	"time"

	"portfolio/internal/models"
)

// AdminRepo stores admin accounts.
type AdminRepo interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// PreferenceRepo stores one preference snapshot per visitor.
type PreferenceRepo interface {
	Save(ctx context.Context, p models.Preferences) error
	Load(ctx context.Context, visitorID string) (models.Preferences, error)
}

// TrackingRepo is the append-only tracking log.
type TrackingRepo interface {
	Append(ctx context.Context, r models.TrackingRecord) error
	List(ctx context.Context, f models.TrackingFilter) ([]models.TrackingRecord, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (models.TrackingStats, error)
}

type Repository struct {
	Preferences PreferenceRepo
	Tracking    TrackingRepo
	Admins      AdminRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Preferences: NewPreferenceSQLite(db),
		Tracking:    NewTrackingSQLite(db),
		Admins:      NewAdminSQLite(db),
	}
}

// sqliteTimeLayout matches SQLite's datetime() output so range filters and
// datetime('now', ...) comparisons order correctly as text.
const sqliteTimeLayout = "2006-01-02 15:04:05"

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

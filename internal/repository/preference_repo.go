package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/models"
)

type PreferenceSQLite struct {
	db *sql.DB
}

func NewPreferenceSQLite(db *sql.DB) *PreferenceSQLite {
	return &PreferenceSQLite{db: db}
}

var _ PreferenceRepo = (*PreferenceSQLite)(nil)

var ErrEmptyVisitorID = errors.New("visitor id is empty")

const (
	upsertPreferencesSQL = `
		INSERT INTO preferences (visitor_id, dark_mode, ama_opened, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id) DO UPDATE SET
			dark_mode=excluded.dark_mode,
			ama_opened=excluded.ama_opened,
			updated_at=excluded.updated_at
	`

	selectPreferencesSQL = `
		SELECT visitor_id, dark_mode, ama_opened, updated_at
		FROM preferences WHERE visitor_id=?
	`
)

// Save upserts the visitor's row. A zero UpdatedAt is stamped with now.
func (r *PreferenceSQLite) Save(ctx context.Context, p models.Preferences) error {
	if p.VisitorID == "" {
		return ErrEmptyVisitorID
	}

	ts := p.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.ExecContext(ctx, upsertPreferencesSQL,
		p.VisitorID,
		p.DarkMode.Enabled,
		p.AMA.IsOpened,
		sqliteTime(ts),
	)
	if err != nil {
		return fmt.Errorf("save preferences for %q: %w", p.VisitorID, err)
	}
	return nil
}

// Load returns the visitor's row, or the zero value when there is none.
func (r *PreferenceSQLite) Load(ctx context.Context, visitorID string) (models.Preferences, error) {
	row := r.db.QueryRowContext(ctx, selectPreferencesSQL, visitorID)

	var p models.Preferences
	if err := row.Scan(
		&p.VisitorID,
		&p.DarkMode.Enabled,
		&p.AMA.IsOpened,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Preferences{}, nil
		}
		return models.Preferences{}, fmt.Errorf("load preferences for %q: %w", visitorID, err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

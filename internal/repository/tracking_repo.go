package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"portfolio/internal/models"

	"github.com/google/uuid"
)

type TrackingSQLite struct {
	db *sql.DB
}

func NewTrackingSQLite(db *sql.DB) *TrackingSQLite { return &TrackingSQLite{db: db} }

var _ TrackingRepo = (*TrackingSQLite)(nil)

const (
	insertTrackingSQL = `
		INSERT INTO tracking_events (id, visitor_id, occurred_at, type, properties, href)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	deleteTrackingBeforeSQL = `DELETE FROM tracking_events WHERE occurred_at < ?`

	countEventsSQL      = `SELECT COUNT(*) FROM tracking_events`
	countVisitorsSQL    = `SELECT COUNT(DISTINCT visitor_id) FROM tracking_events WHERE visitor_id <> ''`
	countEventsSinceSQL = `SELECT COUNT(*) FROM tracking_events WHERE occurred_at >= ?`
	countByTypeSQL      = `SELECT type, COUNT(*) FROM tracking_events GROUP BY type`

	topPropertyByTypeSQL = `
		SELECT COALESCE(json_extract(properties, ?), '') AS label, COUNT(*) AS c
		FROM tracking_events
		WHERE type = ?
		GROUP BY label
		ORDER BY c DESC, label ASC
		LIMIT ?
	`

	defaultListLimit = 500
	topN             = 10
)

// NormalizeEventType trims and lowercases an event type.
func NormalizeEventType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Append inserts a record. A missing ID or OccurredAt is filled in.
func (r *TrackingSQLite) Append(ctx context.Context, rec models.TrackingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now()
	}

	var props *string
	if len(rec.EventProperties) > 0 {
		b, err := json.Marshal(rec.EventProperties)
		if err != nil {
			return fmt.Errorf("marshal properties of %s: %w", rec.ID, err)
		}
		s := string(b)
		props = &s
	}

	_, err := r.db.ExecContext(ctx, insertTrackingSQL,
		rec.ID,
		rec.VisitorID,
		sqliteTime(rec.OccurredAt),
		NormalizeEventType(rec.EventType),
		props,
		rec.Href,
	)
	if err != nil {
		return fmt.Errorf("insert tracking event %s: %w", rec.ID, err)
	}
	return nil
}

// List returns records matching f, oldest first.
func (r *TrackingSQLite) List(ctx context.Context, f models.TrackingFilter) ([]models.TrackingRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, sqliteTime(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, sqliteTime(f.To))
	}
	if typ := NormalizeEventType(f.Type); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if f.VisitorID != "" {
		conds = append(conds, "visitor_id = ?")
		args = append(args, f.VisitorID)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := `SELECT id, visitor_id, occurred_at, type, properties, href FROM tracking_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracking events: %w", err)
	}
	defer rows.Close()

	out := make([]models.TrackingRecord, 0, 64)
	for rows.Next() {
		var (
			rec      models.TrackingRecord
			propsStr sql.NullString
			href     sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.VisitorID, &rec.OccurredAt, &rec.EventType, &propsStr, &href); err != nil {
			return nil, fmt.Errorf("scan tracking event: %w", err)
		}
		rec.OccurredAt = rec.OccurredAt.UTC()

		if propsStr.Valid && propsStr.String != "" {
			var props map[string]string
			if err := json.Unmarshal([]byte(propsStr.String), &props); err == nil {
				rec.EventProperties = props
			}
		}
		if href.Valid {
			h := href.String
			rec.Href = &h
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBefore removes records older than cutoff and reports how many went.
func (r *TrackingSQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteTrackingBeforeSQL, sqliteTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete tracking events before %s: %w", sqliteTime(cutoff), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Stats aggregates the log. now decides where "today" starts (UTC).
func (r *TrackingSQLite) Stats(ctx context.Context, now time.Time) (models.TrackingStats, error) {
	stats := models.TrackingStats{ByType: map[string]int64{}}

	if err := r.db.QueryRowContext(ctx, countEventsSQL).Scan(&stats.TotalEvents); err != nil {
		return models.TrackingStats{}, fmt.Errorf("count events: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, countVisitorsSQL).Scan(&stats.UniqueVisitors); err != nil {
		return models.TrackingStats{}, fmt.Errorf("count visitors: %w", err)
	}

	nowUTC := now.UTC()
	dayStart := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	if err := r.db.QueryRowContext(ctx, countEventsSinceSQL, sqliteTime(dayStart)).Scan(&stats.EventsToday); err != nil {
		return models.TrackingStats{}, fmt.Errorf("count events today: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, countByTypeSQL)
	if err != nil {
		return models.TrackingStats{}, fmt.Errorf("count by type: %w", err)
	}
	for rows.Next() {
		var (
			typ string
			n   int64
		)
		if err := rows.Scan(&typ, &n); err != nil {
			_ = rows.Close()
			return models.TrackingStats{}, fmt.Errorf("scan count by type: %w", err)
		}
		stats.ByType[typ] = n
	}
	_ = rows.Close()

	if stats.TopClicks, err = r.topProperty(ctx, "click", "$.label"); err != nil {
		return models.TrackingStats{}, err
	}
	if stats.TopReferrers, err = r.topProperty(ctx, "referrer", "$.url"); err != nil {
		return models.TrackingStats{}, err
	}
	return stats, nil
}

func (r *TrackingSQLite) topProperty(ctx context.Context, typ, path string) ([]models.LabelCount, error) {
	rows, err := r.db.QueryContext(ctx, topPropertyByTypeSQL, path, typ, topN)
	if err != nil {
		return nil, fmt.Errorf("top %s by %s: %w", typ, path, err)
	}
	defer rows.Close()

	out := make([]models.LabelCount, 0, topN)
	for rows.Next() {
		var lc models.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan top %s: %w", typ, err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

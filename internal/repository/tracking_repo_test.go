package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func strPtr(s string) *string { return &s }

func TestTrackingSQLite_Append_ClickWithHref(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewTrackingSQLite(conn)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := models.TrackingRecord{
		ID:              "e-1",
		VisitorID:       "v-1",
		OccurredAt:      at,
		EventType:       " Click ",
		EventProperties: map[string]string{"label": "footer-github-icon"},
		Href:            strPtr("https://github.com/someone"),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracking_events")).
		WithArgs("e-1", "v-1", "2024-06-01 12:00:00", "click", `{"label":"footer-github-icon"}`, "https://github.com/someone").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTrackingSQLite_Append_NilHrefAndGeneratedID(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewTrackingSQLite(conn)

	nonEmpty := sqlmockArgumentFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		return ok && s != ""
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracking_events")).
		WithArgs(nonEmpty, "v-1", nonEmpty, "referrer", `{"url":"none"}`, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), models.TrackingRecord{
		VisitorID:       "v-1",
		EventType:       "referrer",
		EventProperties: map[string]string{"url": "none"},
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTrackingSQLite_Append_ExecError(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewTrackingSQLite(conn)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tracking_events")).
		WillReturnError(errors.New("database is locked"))

	if err := repo.Append(context.Background(), models.TrackingRecord{ID: "x", EventType: "ama"}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestTrackingSQLite_List_BuildsFilters(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewTrackingSQLite(conn)

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "visitor_id", "occurred_at", "type", "properties", "href"}).
		AddRow("e-1", "v-1", at, "click", `{"label":"footer-codepen-icon"}`, "https://codepen.io/x").
		AddRow("e-2", "v-1", at.Add(time.Minute), "click", nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, visitor_id, occurred_at, type, properties, href FROM tracking_events WHERE occurred_at >= ? AND occurred_at <= ? AND type = ? AND visitor_id = ? ORDER BY occurred_at ASC LIMIT ?",
	)).
		WithArgs("2024-06-01 00:00:00", "2024-06-02 00:00:00", "click", "v-1", 10).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), models.TrackingFilter{
		From:      from,
		To:        to,
		Type:      "CLICK",
		VisitorID: "v-1",
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].EventProperties["label"] != "footer-codepen-icon" || got[0].Href == nil || *got[0].Href != "https://codepen.io/x" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}
	if got[1].Href != nil || got[1].EventProperties != nil {
		t.Fatalf("expected nil href/properties on second record: %+v", got[1])
	}
}

func TestTrackingSQLite_List_NoFiltersUsesDefaultLimit(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewTrackingSQLite(conn)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, visitor_id, occurred_at, type, properties, href FROM tracking_events ORDER BY occurred_at ASC LIMIT ?",
	)).
		WithArgs(defaultListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "visitor_id", "occurred_at", "type", "properties", "href"}))

	got, err := repo.List(context.Background(), models.TrackingFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestTrackingSQLite_DeleteBefore(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewTrackingSQLite(conn)

	cutoff := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(deleteTrackingBeforeSQL)).
		WithArgs("2023-06-01 00:00:00").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("DeleteBefore() = %d; want 4", n)
	}
}

// Round trip against a real SQLite file: JSON extraction and timestamp
// parsing are driver behaviour that sqlmock cannot cover.
func TestTrackingSQLite_RoundTripAndStats(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "tracking.db"))
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewTrackingSQLite(conn)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	old := now.Add(-400 * 24 * time.Hour)

	records := []models.TrackingRecord{
		{VisitorID: "v-1", OccurredAt: now, EventType: "referrer", EventProperties: map[string]string{"url": "none"}},
		{VisitorID: "v-1", OccurredAt: now, EventType: "click", EventProperties: map[string]string{"label": "footer-github-icon"}, Href: strPtr("https://github.com/x")},
		{VisitorID: "v-2", OccurredAt: now, EventType: "click", EventProperties: map[string]string{"label": "footer-github-icon"}, Href: strPtr("https://github.com/x")},
		{VisitorID: "v-2", OccurredAt: now, EventType: "click", EventProperties: map[string]string{"label": "footer-linkedin-icon"}, Href: strPtr("https://linkedin.com/in/x")},
		{VisitorID: "v-3", OccurredAt: old, EventType: "dark-mode", EventProperties: map[string]string{"state": "on"}},
	}
	for _, rec := range records {
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	clicks, err := repo.List(ctx, models.TrackingFilter{Type: "click", VisitorID: "v-1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(clicks) != 1 || clicks[0].Href == nil || *clicks[0].Href != "https://github.com/x" {
		t.Fatalf("unexpected clicks: %+v", clicks)
	}
	if !clicks[0].OccurredAt.Equal(now) {
		t.Fatalf("occurred_at round trip: got %v want %v", clicks[0].OccurredAt, now)
	}

	stats, err := repo.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalEvents != 5 || stats.UniqueVisitors != 3 || stats.EventsToday != 4 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.ByType["click"] != 3 || stats.ByType["dark-mode"] != 1 {
		t.Fatalf("unexpected by-type: %+v", stats.ByType)
	}
	if len(stats.TopClicks) != 2 || stats.TopClicks[0] != (models.LabelCount{Label: "footer-github-icon", Count: 2}) {
		t.Fatalf("unexpected top clicks: %+v", stats.TopClicks)
	}
	if len(stats.TopReferrers) != 1 || stats.TopReferrers[0].Label != "none" {
		t.Fatalf("unexpected top referrers: %+v", stats.TopReferrers)
	}

	deleted, err := repo.DeleteBefore(ctx, now.Add(-365*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 old record deleted, got %d", deleted)
	}
}

package service

import (
	"context"
	"sync"
	"time"

	"portfolio/internal/models"
)

// fakeEmitter records every emitted record.
type fakeEmitter struct {
	mu      sync.Mutex
	records []models.TrackingRecord
}

func (f *fakeEmitter) Emit(rec models.TrackingRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
}

func (f *fakeEmitter) all() []models.TrackingRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TrackingRecord(nil), f.records...)
}

// fakePreferenceRepo is an in-memory repository.PreferenceRepo.
type fakePreferenceRepo struct {
	mu      sync.Mutex
	rows    map[string]models.Preferences
	loadErr error
	saveErr error
	saves   int
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{rows: map[string]models.Preferences{}}
}

func (f *fakePreferenceRepo) Save(_ context.Context, p models.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[p.VisitorID] = p
	return nil
}

func (f *fakePreferenceRepo) Load(_ context.Context, visitorID string) (models.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return models.Preferences{}, f.loadErr
	}
	return f.rows[visitorID], nil
}

// fakeTrackingRepo satisfies repository.TrackingRepo and captures inputs.
type fakeTrackingRepo struct {
	gotFilter models.TrackingFilter
	gotCutoff time.Time
	gotNow    time.Time

	records []models.TrackingRecord
	stats   models.TrackingStats
	deleted int64
	err     error

	listCalls   int
	deleteCalls int
}

func (f *fakeTrackingRepo) Append(_ context.Context, r models.TrackingRecord) error {
	f.records = append(f.records, r)
	return f.err
}

func (f *fakeTrackingRepo) List(_ context.Context, flt models.TrackingFilter) ([]models.TrackingRecord, error) {
	f.listCalls++
	f.gotFilter = flt
	return f.records, f.err
}

func (f *fakeTrackingRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleteCalls++
	f.gotCutoff = cutoff
	return f.deleted, f.err
}

func (f *fakeTrackingRepo) Stats(_ context.Context, now time.Time) (models.TrackingStats, error) {
	f.gotNow = now
	return f.stats, f.err
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}
